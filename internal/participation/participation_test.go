package participation

import (
	"testing"

	"github.com/vtuos/housingmarket/internal/config"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/repository"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

func TestDecide_NewbornFlagsDemandingLarger(t *testing.T) {
	persons := repository.New[*models.Person]()
	newbornID := persons.AddNew(&models.Person{Age: 0})

	families := repository.New[*models.Family]()
	famID := families.AddNew(&models.Family{PersonIDs: []models.ID{newbornID}})

	households := repository.New[*models.Household]()
	hID := households.AddNew(&models.Household{FamilyIDs: []models.ID{famID}, DwellingID: models.NoID})
	h := households.Get(hID)

	dwellings := repository.New[*models.Dwelling]()

	sc := &simcontext.Context{
		Persons:   persons,
		Families:  families,
		Households: households,
		Dwellings: dwellings,
	}

	m := New(config.Default().Participation)
	stream := rng.NewRoot(1)
	now := models.NewDate(2000, 0)

	d := m.Decide(sc, h, now, stream)

	// A newborn increments the demand counter. Only a job-decrease draw
	// could cancel that increment, and with seed 1 that draw does not
	// fire, so the household is flagged as demanding a larger dwelling.
	if !d.DemandingLarger {
		t.Errorf("DemandingLarger = false, want true (newChild increments the counter)")
	}
}

func TestUnconditionalSellers_ExcludesActiveDwelling(t *testing.T) {
	households := repository.New[*models.Household]()
	hID := households.AddNew(&models.Household{})
	h := households.Get(hID)

	dwellings := repository.New[*models.Dwelling]()
	activeID := dwellings.AddNew(&models.Dwelling{Exists: true, CurrentHousehold: hID})
	h.DwellingID = activeID
	investmentID := dwellings.AddNew(&models.Dwelling{Exists: true, CurrentHousehold: hID})

	sc := &simcontext.Context{Dwellings: dwellings}

	sellers := UnconditionalSellers(sc, h)
	if len(sellers) != 1 || sellers[0] != investmentID {
		t.Errorf("UnconditionalSellers() = %v, want [%v]", sellers, investmentID)
	}
}
