// Package simcontext threads the repositories, currency converter, zone
// data, and RNG root that every component needs through an explicit
// value: the "implicit root module" the wider vault simulation used
// becomes one plain struct here, with no ambient singletons.
package simcontext

import (
	"github.com/vtuos/housingmarket/internal/currency"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/repository"
	"github.com/vtuos/housingmarket/internal/rng"
)

// Context bundles everything the monthly/yearly lifecycle hooks and the
// submodels they call need to resolve entity references and derive
// substreams.
type Context struct {
	Persons     *repository.Repository[*models.Person]
	Families    *repository.Repository[*models.Family]
	Households  *repository.Repository[*models.Household]
	Dwellings   *repository.Repository[*models.Dwelling]
	SaleRecords *repository.SaleRecordStore

	Zones    *models.ZoneSystem
	LandUse  map[int]models.LandUse
	DistSubway  map[int]float64
	DistRegional map[int]float64

	Currency *currency.Converter
	RNG      *rng.Stream

	Now models.Date
}

// FamilySize returns the number of persons in the family with the given
// ID, or 0 if the family no longer exists.
func (c *Context) FamilySize(id models.ID) int {
	f, ok := c.Families.TryGet(id)
	if !ok {
		return 0
	}
	return f.Size()
}

// LandUseFor returns the land-use shares for a zone, or the zero value
// and false if the zone has no data. The asking-price estimator uses the
// all-zero shares in that case; the bid generator fails with
// MissingZoneDataError.
func (c *Context) LandUseFor(zone int) (models.LandUse, bool) {
	lu, ok := c.LandUse[zone]
	return lu, ok
}
