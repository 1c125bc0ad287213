// Package participation implements the opt-in decision for
// owner-occupier households: a logit over household life-events decides
// whether a household enters the market this month as a buyer, and
// tracks the running demand counter that flags a household as wanting
// a larger dwelling.
package participation

import (
	"math"
	"sync"

	"github.com/vtuos/housingmarket/internal/config"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

// FlagProbability is the Bernoulli probability of each of the four
// household life-event flags (job increase/decrease, retirement, job
// change) firing in a given month.
const FlagProbability = 0.01

// Model tracks the per-household demand counter across months: it
// increments on job-increase/new-child and decrements on job-decrease,
// and must persist between monthly decisions. Decide is called
// concurrently across households from the scheduler's participation
// phase, so access to demandCounters is mutex-guarded.
type Model struct {
	coeffs         config.ParticipationConfig
	mu             sync.Mutex
	demandCounters map[models.ID]int
}

// New creates a participation Model from the configured coefficient
// table.
func New(coeffs config.ParticipationConfig) *Model {
	return &Model{
		coeffs:         coeffs,
		demandCounters: make(map[models.ID]int),
	}
}

// Decision is one household's opt-in outcome for the month.
type Decision struct {
	HouseholdID     models.ID
	Participate     bool
	DemandingLarger bool
}

// Decide runs the logit for a single owner-occupier household.
func (m *Model) Decide(sc *simcontext.Context, h *models.Household, now models.Date, stream *rng.Stream) Decision {
	jobIncrease := stream.Float64() < FlagProbability
	jobDecrease := stream.Float64() < FlagProbability
	retire := stream.Float64() < FlagProbability
	jobChange := stream.Float64() < FlagProbability

	newChild := false
	headAge := 0
	numJobs := 0
	var yearsInDwelling float64

	for _, famID := range h.FamilyIDs {
		fam, ok := sc.Families.TryGet(famID)
		if !ok || fam.Size() == 0 {
			continue
		}
		for _, personID := range fam.PersonIDs {
			p, ok := sc.Persons.TryGet(personID)
			if !ok {
				continue
			}
			if p.Age <= 0 {
				newChild = true
			}
			if p.Age > headAge {
				headAge = p.Age
			}
			if p.HasJobs() {
				numJobs++
			}
		}
	}

	if d, ok := sc.Dwellings.TryGet(h.DwellingID); ok {
		yearsInDwelling = float64(models.MonthsBetween(d.Value.WhenCreated, now)) / 12.0
	}

	m.mu.Lock()
	counter := m.demandCounters[h.ID]
	if jobIncrease {
		counter++
	}
	if newChild {
		counter++
	}
	if jobDecrease {
		counter--
	}
	m.demandCounters[h.ID] = counter
	m.mu.Unlock()

	c := m.coeffs
	u := c.Constant
	if jobIncrease {
		u += c.JobIncrease
	}
	if jobDecrease {
		u += c.JobDecrease
	}
	if retire {
		u += c.Retire
	}
	if jobChange {
		u += c.JobChange
	}
	if newChild {
		u += c.Child
	}
	u += c.HeadAge * float64(headAge)
	u += c.ChangeInBIR * 0 // no birth-rate-change series is supplied by this core; term is always zero
	u += c.YearsInDwelling * yearsInDwelling
	u += c.NumJobs * float64(numJobs)
	u += c.NonMover * c.NonMoverRatio
	u += c.LabourForceParticipation

	p := 0.5 * logistic(u)
	participate := stream.Float64() <= p

	return Decision{
		HouseholdID:     h.ID,
		Participate:     participate,
		DemandingLarger: counter > 0,
	}
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// UnconditionalSellers returns every dwelling a household currently
// occupies as CurrentHousehold but that is not its registered active
// dwelling: an "owned but not occupied" dwelling, enqueued as a seller
// with no participation test.
func UnconditionalSellers(sc *simcontext.Context, h *models.Household) []models.ID {
	var out []models.ID
	sc.Dwellings.Iter(func(id models.ID, d *models.Dwelling) bool {
		if d.Exists && d.CurrentHousehold == h.ID && id != h.DwellingID {
			out = append(out, id)
		}
		return true
	})
	return out
}
