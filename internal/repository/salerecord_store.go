package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vtuos/housingmarket/internal/database"
	"github.com/vtuos/housingmarket/internal/models"
)

// SaleRecordStore is the one persisted, append-only collection the core
// keeps; sale history needs to outlive a single run for the asking-price
// estimator's refit window, so it's backed by SQLite rather than a
// plain Repository. Every other entity lives in an in-memory Repository.
type SaleRecordStore struct {
	db *database.DB
}

// NewSaleRecordStore wraps an open database connection.
func NewSaleRecordStore(db *database.DB) *SaleRecordStore {
	return &SaleRecordStore{db: db}
}

// Append inserts a new sale record and returns its assigned ID.
func (s *SaleRecordStore) Append(ctx context.Context, r models.SaleRecord) (models.ID, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sale_records (
			months_since_epoch, price, rooms, square_footage, zone,
			dist_subway, dist_regional, residential, commerce, dwelling_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Date.MonthsSinceEpoch(), r.Price, r.Rooms, r.SquareFootage, r.Zone,
		r.DistSubway, r.DistRegional, r.Residential, r.Commerce, int(r.DwellingType),
	)
	if err != nil {
		return models.NoID, fmt.Errorf("appending sale record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.NoID, fmt.Errorf("reading sale record id: %w", err)
	}
	return models.ID(id), nil
}

// Since returns every sale record with months-since-epoch in
// [fromMonths, toMonthsExclusive), ordered by insertion.
func (s *SaleRecordStore) Since(ctx context.Context, fromMonths, toMonthsExclusive int) ([]models.SaleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, months_since_epoch, price, rooms, square_footage, zone,
			dist_subway, dist_regional, residential, commerce, dwelling_type
		FROM sale_records
		WHERE months_since_epoch >= ? AND months_since_epoch < ?
		ORDER BY id ASC`, fromMonths, toMonthsExclusive)
	if err != nil {
		return nil, fmt.Errorf("querying sale records: %w", err)
	}
	defer rows.Close()

	var out []models.SaleRecord
	for rows.Next() {
		rec, months, err := scanSaleRecord(rows)
		if err != nil {
			return nil, err
		}
		rec.Date = models.NewDate(0, months)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Len returns the total number of sale records ever appended.
func (s *SaleRecordStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sale_records").Scan(&n)
	return n, err
}

func scanSaleRecord(rows *sql.Rows) (models.SaleRecord, int, error) {
	var rec models.SaleRecord
	var id int64
	var months, rooms, dwellingType int
	err := rows.Scan(
		&id, &months, &rec.Price, &rooms, &rec.SquareFootage, &rec.Zone,
		&rec.DistSubway, &rec.DistRegional, &rec.Residential, &rec.Commerce, &dwellingType,
	)
	if err != nil {
		return rec, 0, fmt.Errorf("scanning sale record: %w", err)
	}
	rec.ID = models.ID(id)
	rec.Rooms = rooms
	rec.DwellingType = models.DwellingType(dwellingType)
	return rec, months, nil
}
