// Package asking implements the hedonic asking-price estimator: a
// per-dwelling-type coefficient vector refit monthly from recent sales,
// with a time-on-market decay applied at query time.
package asking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/regression"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

// NumFeatures is p, the length of the feature vector
// x = (1, rooms, squareFootage, distSubway, distRegional, residential, commercial).
const NumFeatures = 7

// DefaultBeta is the fixed seed coefficient vector used for a dwelling
// type until its first successful refit.
var DefaultBeta = []float64{50000, 8000, 60, -500, -300, 20000, -15000}

// Quote is the result of a price query: the decayed asking price and the
// floor below which the market engine will not accept a bid.
type Quote struct {
	Ask    float32
	MinBid float32
}

// Estimator holds the per-type coefficient vectors and the per-zone
// average-value cache refreshed at the start of every monthly tick.
type Estimator struct {
	decay       float64
	refitWindow int

	betas   map[models.DwellingType][]float64
	zoneAvg map[int]float64
}

// New creates an Estimator with every type seeded to DefaultBeta.
func New(decay float64, refitWindowMonths int) *Estimator {
	e := &Estimator{
		decay:       decay,
		refitWindow: refitWindowMonths,
		betas:       make(map[models.DwellingType][]float64),
		zoneAvg:     make(map[int]float64),
	}
	for t := models.DwellingType(0); int(t) < models.NumDwellingTypes; t++ {
		e.betas[t] = append([]float64(nil), DefaultBeta...)
	}
	return e
}

// Beta returns the current coefficient vector for a dwelling type.
func (e *Estimator) Beta(t models.DwellingType) []float64 {
	return e.betas[t]
}

// MonthlyTick recomputes the zone-average cache and refits every type's
// coefficients from the last refitWindow months of sale records. A
// type's refit failing (no records, or a non-positive-definite system)
// is non-fatal: that type's previous beta is kept.
func (e *Estimator) MonthlyTick(ctx context.Context, sc *simcontext.Context, now models.Date, quarterEnd bool) error {
	e.recomputeZoneAverages(sc, now)

	from := now.MonthsSinceEpoch() - e.refitWindow
	to := now.MonthsSinceEpoch()
	records, err := sc.SaleRecords.Since(ctx, from, to)
	if err != nil {
		return fmt.Errorf("asking: loading sale records: %w", err)
	}

	byType := make(map[models.DwellingType][]models.SaleRecord)
	for _, r := range records {
		byType[r.DwellingType] = append(byType[r.DwellingType], r)
	}

	var types []models.DwellingType
	for t, recs := range byType {
		if len(recs) > 0 {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	// Each type's regression solve is independent, so they run
	// concurrently; the resulting betas are committed to e.betas only
	// after every solve has finished, since a Go map is not safe for
	// concurrent writes even across distinct keys.
	betas := make([][]float64, len(types))
	errs := make([]error, len(types))

	g, _ := errgroup.WithContext(ctx)
	for i, t := range types {
		i, recs := i, byType[t]
		g.Go(func() error {
			betas[i], errs[i] = solveBeta(recs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, t := range types {
		if errs[i] != nil {
			slog.Warn("asking: refit failed, keeping previous coefficients",
				"dwelling_type", t.String(), "error", errs[i])
			continue
		}
		e.betas[t] = betas[i]
	}

	if quarterEnd {
		for t := models.DwellingType(0); int(t) < models.NumDwellingTypes; t++ {
			slog.Debug("asking: quarterly coefficients", "dwelling_type", t.String(), "beta", e.betas[t])
		}
	}

	return nil
}

func solveBeta(recs []models.SaleRecord) ([]float64, error) {
	sys := regression.NewSystem(NumFeatures)
	for _, r := range recs {
		x := featureVector(float64(r.Rooms), r.SquareFootage, r.DistSubway, r.DistRegional, r.Residential, r.Commerce)
		sys.AddOuterProduct(x, 1)
		sys.AddScaledVector(x, float64(r.Price))
	}
	return sys.Solve()
}

func (e *Estimator) recomputeZoneAverages(sc *simcontext.Context, now models.Date) {
	sums := make(map[int]float64)
	counts := make(map[int]int)

	sc.Dwellings.Iter(func(_ models.ID, d *models.Dwelling) bool {
		if !d.Exists {
			return true
		}
		v, err := sc.Currency.Convert(d.Value, now)
		if err != nil {
			return true
		}
		sums[d.Zone] += float64(v.Amount)
		counts[d.Zone]++
		return true
	})

	avg := make(map[int]float64, len(sums))
	for z, sum := range sums {
		avg[z] = sum / float64(counts[z])
	}
	e.zoneAvg = avg
}

// ZoneAverage returns the cached average dwelling value for a zone.
func (e *Estimator) ZoneAverage(zone int) (float64, bool) {
	v, ok := e.zoneAvg[zone]
	return v, ok
}

// GetPrice returns the asking price and minimum bid floor for a
// dwelling, applying the time-on-market decay.
func (e *Estimator) GetPrice(sc *simcontext.Context, d *models.Dwelling, now models.Date) Quote {
	distSubway := sc.DistSubway[d.Zone]
	distRegional := sc.DistRegional[d.Zone]
	lu, _ := sc.LandUseFor(d.Zone)

	x := featureVector(float64(d.Rooms), d.SquareFootage, distSubway, distRegional, lu.Residential, lu.Commercial)

	beta := e.betas[d.Type]
	var raw float64
	for i, xi := range x {
		raw += beta[i] * xi
	}

	months := d.MonthsOnMarket(now)
	decayFactor := 1.0
	for i := 0; i < months; i++ {
		decayFactor *= e.decay
	}

	ask := float32(raw * decayFactor)
	if ask < 0 {
		ask = 0
	}

	return Quote{Ask: ask, MinBid: 0}
}

func featureVector(rooms, sqft, distSubway, distRegional, residential, commercial float64) []float64 {
	return []float64{1, rooms, sqft, distSubway, distRegional, residential, commercial}
}
