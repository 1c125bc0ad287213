// Package seed generates a synthetic starting population for a
// standalone run of the housing market core. The wider simulation this
// core was extracted from supplies persons, families, households, and
// dwellings through its own demographic collaborator; this generator
// exists only so the core is runnable on its own (spec's data-model
// inputs are "consumed via collaborator interfaces" it doesn't own).
package seed

import (
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

// Config controls the size and shape of the generated population.
type Config struct {
	Households int
	ZoneCount  int
	StartYear  int
}

// DefaultConfig returns a modestly sized starting population.
func DefaultConfig() Config {
	return Config{
		Households: 200,
		ZoneCount:  5,
		StartYear:  1990,
	}
}

// Generator builds the starting entity graph from a deterministic
// stream.
type Generator struct {
	cfg    Config
	stream *rng.Stream
}

// NewGenerator creates a Generator seeded from stream.
func NewGenerator(cfg Config, stream *rng.Stream) *Generator {
	return &Generator{cfg: cfg, stream: stream}
}

// Generate populates sc's repositories and zone data.
func (g *Generator) Generate(sc *simcontext.Context) {
	externals := make([]int, g.cfg.ZoneCount)
	for i := range externals {
		externals[i] = i
	}
	sc.Zones = models.NewZoneSystem(externals)

	sc.LandUse = make(map[int]models.LandUse, g.cfg.ZoneCount)
	sc.DistSubway = make(map[int]float64, g.cfg.ZoneCount)
	sc.DistRegional = make(map[int]float64, g.cfg.ZoneCount)
	for z := 0; z < g.cfg.ZoneCount; z++ {
		residential := 0.3 + 0.4*g.stream.Float64()
		commercial := 0.1 + 0.2*g.stream.Float64()
		open := 0.05 * g.stream.Float64()
		industrial := 0.05 * g.stream.Float64()
		sc.LandUse[z] = models.LandUse{
			Residential: residential,
			Commercial:  commercial,
			Open:        open,
			Industrial:  industrial,
		}
		sc.DistSubway[z] = g.stream.Float64() * 10
		sc.DistRegional[z] = g.stream.Float64() * 30
	}

	valueDate := models.NewDate(g.cfg.StartYear, 0)

	for i := 0; i < g.cfg.Households; i++ {
		personID := sc.Persons.AddNew(&models.Person{
			Age:               25 + g.stream.Intn(40),
			Sex:               sexFor(g.stream),
			Living:            true,
			LabourForceStatus: models.Employed,
		})
		person := sc.Persons.Get(personID)
		salary := models.NewMoney(float32(30000+g.stream.Float64()*40000), valueDate)
		person.Jobs = []models.Job{{Owner: personID, StartDate: valueDate, Salary: salary}}

		familyID := sc.Families.AddNew(&models.Family{
			PersonIDs:    []models.ID{personID},
			LiquidAssets: g.stream.Float64() * 30000,
			Savings:      g.stream.Float64() * 10000,
		})
		person.FamilyID = familyID

		tenure := models.TenureOwn
		if g.stream.Float64() < 0.2 {
			tenure = models.TenureRent
		}

		householdID := sc.Households.AddNew(&models.Household{
			FamilyIDs: []models.ID{familyID},
			Tenure:    tenure,
		})
		household := sc.Households.Get(householdID)
		sc.Families.Get(familyID).HouseholdID = householdID

		dwellingType := models.DwellingType(g.stream.Intn(models.NumDwellingTypes))
		rooms := 2 + g.stream.Intn(4)
		dwellingID := sc.Dwellings.AddNew(&models.Dwelling{
			Exists:           true,
			Type:             dwellingType,
			Rooms:            rooms,
			SquareFootage:    float64(rooms) * (200 + g.stream.Float64()*200),
			Zone:             g.stream.Intn(g.cfg.ZoneCount),
			Value:            models.NewMoney(float32(80000+g.stream.Float64()*150000), valueDate),
			CurrentHousehold: householdID,
		})

		household.DwellingID = dwellingID
	}
}

func sexFor(stream *rng.Stream) models.Sex {
	if stream.Float64() < 0.5 {
		return models.SexMale
	}
	return models.SexFemale
}
