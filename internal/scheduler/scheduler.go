// Package scheduler drives the monthly and yearly lifecycle: once per
// year it runs the supply generator before the first monthly clear,
// then for each month it runs the asking-price refit, the
// participation model, and the market-clearing engine in sequence,
// with lifecycle hooks a caller can use to collect statistics or drive
// a demographic collaborator this core doesn't own.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vtuos/housingmarket/internal/asking"
	"github.com/vtuos/housingmarket/internal/bidding"
	"github.com/vtuos/housingmarket/internal/config"
	"github.com/vtuos/housingmarket/internal/market"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/participation"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
	"github.com/vtuos/housingmarket/internal/supply"
)

// MaxUnmatchedMonths is how many consecutive months a carried buyer or
// seller may go without a sale before being dropped from the carry set.
const MaxUnmatchedMonths = 3

// YearSummary is the line emitted after each year's 12 monthly ticks.
// RunID identifies the scheduler instance that produced it, so summaries
// and the scheduler's per-month debug lines from concurrent runs (e.g.
// separate scenario sweeps writing to the same log stream) can be told
// apart. The market engine's sale log lines do not carry the run ID.
type YearSummary struct {
	RunID                 string
	DwellingsSold         int
	HouseholdsRemaining    int
	DwellingsRemaining     int
	AverageSalePrice       float64
	AveragePersonalIncome  float64
}

// Hooks lets a caller observe and extend the lifecycle without the
// scheduler depending on concrete demographic or reporting code: a
// small capability interface in place of a base type a caller would
// otherwise have to subclass.
type Hooks interface {
	BeforeFirstYear(sc *simcontext.Context)
	BeforeYearlyExecute(sc *simcontext.Context, year int)
	AfterYearlyExecute(sc *simcontext.Context, year int, summary YearSummary)
	BeforeMonthlyExecute(sc *simcontext.Context, now models.Date)
	AfterMonthlyExecute(sc *simcontext.Context, now models.Date, result *market.Result)
}

// NoopHooks is a Hooks implementation that does nothing; embed it to
// implement only the hooks a caller cares about.
type NoopHooks struct{}

func (NoopHooks) BeforeFirstYear(*simcontext.Context)                                   {}
func (NoopHooks) BeforeYearlyExecute(*simcontext.Context, int)                          {}
func (NoopHooks) AfterYearlyExecute(*simcontext.Context, int, YearSummary)              {}
func (NoopHooks) BeforeMonthlyExecute(*simcontext.Context, models.Date)                 {}
func (NoopHooks) AfterMonthlyExecute(*simcontext.Context, models.Date, *market.Result)  {}

// Scheduler owns the per-run state of the behavioral submodels and
// drives them through the monthly/yearly lifecycle.
type Scheduler struct {
	cfg           *config.Config
	estimator     *asking.Estimator
	participation *participation.Model
	engine        *market.Engine
	hooks         Hooks
	runID         string

	firstYear bool

	carryBuyers  map[models.ID]int
	carrySellers map[models.ID]int
}

// New creates a Scheduler wired from cfg, with hooks defaulting to
// NoopHooks if nil. Each Scheduler is stamped with a fresh run ID.
func New(cfg *config.Config, hooks Hooks) *Scheduler {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &Scheduler{
		cfg:           cfg,
		estimator:     asking.New(cfg.Asking.MonthlyTimeDecay, cfg.Asking.RefitWindowMonths),
		participation: participation.New(cfg.Participation),
		engine:        market.New(cfg.Market.MaxIterations, cfg.Market.ChoiceSetSize, cfg.Market.MaxBedrooms),
		hooks:         hooks,
		runID:         uuid.NewString(),
		firstYear:     true,
		carryBuyers:   make(map[models.ID]int),
		carrySellers:  make(map[models.ID]int),
	}
}

// RunID returns the identifier stamped on this Scheduler's YearSummary
// and its per-month debug log lines.
func (s *Scheduler) RunID() string {
	return s.runID
}

// RunYear runs one simulated year: the supply generator once, then 12
// monthly ticks, emitting a YearSummary at the end.
func (s *Scheduler) RunYear(ctx context.Context, sc *simcontext.Context, year int) (YearSummary, error) {
	if sc.Persons.Len() == 0 || sc.Dwellings.Len() == 0 {
		return YearSummary{}, fmt.Errorf("scheduler: empty population at start of year %d", year)
	}

	if s.firstYear {
		s.hooks.BeforeFirstYear(sc)
		s.firstYear = false
	}

	s.hooks.BeforeYearlyExecute(sc, year)

	supplyStream := sc.RNG.Child()
	supply.Generate(sc, supplyStream, year, s.cfg.Supply.NewDwellingsPerYear)

	summary := YearSummary{RunID: s.runID}
	var totalSalePrice float64
	var saleCount int

	for month := 0; month < 12; month++ {
		now := models.NewDate(year, month)
		sc.Now = now
		sc.RNG = rng.NewRoot(rng.MonthSeed(s.cfg.Market.RandomSeed, year, month))

		result, err := s.RunMonth(ctx, sc, now)
		if err != nil {
			slog.Error("scheduler: monthly tick failed", "year", year, "month", month, "error", err)
			continue
		}

		summary.DwellingsSold += len(result.Sales)
		totalSalePrice += result.TotalSalePrice
		saleCount += len(result.Sales)
	}

	summary.HouseholdsRemaining = sc.Households.Len()
	summary.DwellingsRemaining = sc.Dwellings.Len()
	if saleCount > 0 {
		summary.AverageSalePrice = totalSalePrice / float64(saleCount)
	}
	summary.AveragePersonalIncome = averagePersonalIncome(sc)

	s.hooks.AfterYearlyExecute(sc, year, summary)
	return summary, nil
}

// RunMonth runs one monthly tick: the asking-price refit, the
// participation model, and the auction, then carry-over bookkeeping.
func (s *Scheduler) RunMonth(ctx context.Context, sc *simcontext.Context, now models.Date) (*market.Result, error) {
	s.hooks.BeforeMonthlyExecute(sc, now)

	quarterEnd := (now.Month+1)%3 == 0
	if err := s.estimator.MonthlyTick(ctx, sc, now, quarterEnd); err != nil {
		return nil, fmt.Errorf("scheduler: asking-price refit: %w", err)
	}

	buyerInputs, sellerInputs, err := s.buildParticipants(ctx, sc, now)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.ClearMonth(ctx, sc, buyerInputs, sellerInputs)
	if err != nil {
		return nil, fmt.Errorf("scheduler: clearing month: %w", err)
	}
	slog.Debug("month cleared", "run_id", s.runID, "date", now.String(), "sales", len(result.Sales))

	s.applyCarryOver(buyerInputs, sellerInputs, result)

	s.hooks.AfterMonthlyExecute(sc, now, result)
	return result, nil
}

func (s *Scheduler) buildParticipants(ctx context.Context, sc *simcontext.Context, now models.Date) ([]bidding.Buyer, []market.SellerInput, error) {
	var households []*models.Household
	sc.Households.Iter(func(_ models.ID, h *models.Household) bool {
		households = append(households, h)
		return true
	})

	// One substream per household, derived serially up front, so the
	// draws a household's Decide call sees never depend on which worker
	// processes it.
	streams := sc.RNG.Children(len(households))

	var buyerInputs []bidding.Buyer
	demandingByHousehold := make(map[models.ID]bool)
	sellerDwellingIDs := make(map[models.ID]bool)
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for i, h := range households {
		i, h := i, h
		g.Go(func() error {
			sellers := participation.UnconditionalSellers(sc, h)

			if h.Tenure != models.TenureOwn {
				if len(sellers) > 0 {
					mu.Lock()
					for _, d := range sellers {
						sellerDwellingIDs[d] = true
					}
					mu.Unlock()
				}
				return nil
			}

			decision := s.participation.Decide(sc, h, now, streams[i])

			mu.Lock()
			for _, d := range sellers {
				sellerDwellingIDs[d] = true
			}
			if decision.DemandingLarger {
				demandingByHousehold[h.ID] = true
			}
			if decision.Participate {
				s.carryBuyers[h.ID] = 0
			}
			mu.Unlock()

			if decision.Participate && h.HasDwelling() {
				if d, ok := sc.Dwellings.TryGet(h.DwellingID); ok && !d.Listed {
					d.Listed = true
					d.ListingDate = now
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("scheduler: participation phase: %w", err)
	}

	// carryBuyers is a map, so its iteration order is randomized per run;
	// buyerInputs' slice positions are load-bearing (engine.go hands out RNG
	// substreams and BuyerIndex tie-breaks by position), so a fixed order is
	// required for byte-identical SaleRecord streams across identically
	// seeded runs.
	buyerIDs := make([]models.ID, 0, len(s.carryBuyers))
	for hID := range s.carryBuyers {
		buyerIDs = append(buyerIDs, hID)
	}
	sort.Slice(buyerIDs, func(i, j int) bool { return buyerIDs[i] < buyerIDs[j] })

	for _, hID := range buyerIDs {
		h, ok := sc.Households.TryGet(hID)
		if !ok {
			delete(s.carryBuyers, hID)
			continue
		}
		pp, err := bidding.PurchasingPower(sc, h, now)
		if err != nil {
			return nil, nil, fmt.Errorf("scheduler: computing purchasing power: %w", err)
		}
		currentRooms := 0
		hasDwelling := h.HasDwelling()
		if hasDwelling {
			if d, ok := sc.Dwellings.TryGet(h.DwellingID); ok {
				currentRooms = d.Rooms
			}
		}
		buyerInputs = append(buyerInputs, bidding.Buyer{
			HouseholdID:     hID,
			PurchasingPower: pp,
			CurrentRooms:    currentRooms,
			HasDwelling:     hasDwelling,
			Persons:         h.ContainedPersons(sc.FamilySize),
			DemandingLarger: demandingByHousehold[hID],
		})
	}

	sc.Dwellings.Iter(func(id models.ID, d *models.Dwelling) bool {
		if d.Exists && d.Listed {
			sellerDwellingIDs[id] = true
		}
		return true
	})
	for id := range s.carrySellers {
		if _, ok := sc.Dwellings.TryGet(id); ok {
			sellerDwellingIDs[id] = true
		}
	}

	// Same determinism concern as buyerIDs above: sellerDwellingIDs is a map,
	// and SellerIndex tie-breaks and per-type grouping order depend on the
	// order sellerInputs is built in.
	sellerIDs := make([]models.ID, 0, len(sellerDwellingIDs))
	for id := range sellerDwellingIDs {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	var sellerInputs []market.SellerInput
	for _, id := range sellerIDs {
		d, ok := sc.Dwellings.TryGet(id)
		if !ok {
			continue
		}
		quote := s.estimator.GetPrice(sc, d, now)
		sellerInputs = append(sellerInputs, market.SellerInput{
			Dwelling:     d,
			HouseholdID:  d.CurrentHousehold,
			AskingPrice:  quote.Ask,
			MinimumPrice: quote.MinBid,
		})
	}

	return buyerInputs, sellerInputs, nil
}

func (s *Scheduler) applyCarryOver(buyers []bidding.Buyer, sellers []market.SellerInput, result *market.Result) {
	soldBuyers := make(map[models.ID]bool)
	soldDwellings := make(map[models.ID]bool)
	for _, sale := range result.Sales {
		soldBuyers[sale.BuyerHouseholdID] = true
		soldDwellings[sale.DwellingID] = true
	}

	for _, b := range buyers {
		if soldBuyers[b.HouseholdID] {
			delete(s.carryBuyers, b.HouseholdID)
			continue
		}
		s.carryBuyers[b.HouseholdID]++
		if s.carryBuyers[b.HouseholdID] >= MaxUnmatchedMonths {
			delete(s.carryBuyers, b.HouseholdID)
		}
	}

	for _, si := range sellers {
		id := si.Dwelling.ID
		if soldDwellings[id] {
			delete(s.carrySellers, id)
			continue
		}
		s.carrySellers[id]++
		if s.carrySellers[id] >= MaxUnmatchedMonths {
			delete(s.carrySellers, id)
		}
	}
}

func averagePersonalIncome(sc *simcontext.Context) float64 {
	var total float64
	var count int
	sc.Persons.Iter(func(_ models.ID, p *models.Person) bool {
		for _, job := range p.Jobs {
			total += float64(job.Salary.Amount)
			count++
		}
		return true
	})
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
