package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vtuos/housingmarket/internal/bidding"
	"github.com/vtuos/housingmarket/internal/config"
	"github.com/vtuos/housingmarket/internal/currency"
	"github.com/vtuos/housingmarket/internal/database"
	"github.com/vtuos/housingmarket/internal/market"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/repository"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/seed"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

func newTestContext(t *testing.T) *simcontext.Context {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sc := &simcontext.Context{
		Persons:     repository.New[*models.Person](),
		Families:    repository.New[*models.Family](),
		Households:  repository.New[*models.Household](),
		Dwellings:   repository.New[*models.Dwelling](),
		SaleRecords: repository.NewSaleRecordStore(db),
		Currency:    currency.NewEmptyConverter(),
		RNG:         rng.NewRoot(1),
	}

	seedCfg := seed.DefaultConfig()
	seedCfg.Households = 40
	seedCfg.StartYear = 2000
	seed.NewGenerator(seedCfg, sc.RNG.Child()).Generate(sc)

	return sc
}

func TestRunYear_ProducesASummaryAndPreservesPopulationSize(t *testing.T) {
	sc := newTestContext(t)
	cfg := config.Default()
	s := New(cfg, nil)

	before := sc.Households.Len()

	summary, err := s.RunYear(context.Background(), sc, 2000)
	if err != nil {
		t.Fatalf("RunYear failed: %v", err)
	}
	if summary.HouseholdsRemaining != before {
		t.Errorf("HouseholdsRemaining = %d, want %d", summary.HouseholdsRemaining, before)
	}
	if summary.DwellingsRemaining < before {
		t.Errorf("DwellingsRemaining = %d, want at least %d", summary.DwellingsRemaining, before)
	}
}

func TestNew_StampsAStableNonEmptyRunID(t *testing.T) {
	s := New(config.Default(), nil)
	if s.RunID() == "" {
		t.Fatal("expected a non-empty run ID")
	}

	sc := newTestContext(t)
	summary, err := s.RunYear(context.Background(), sc, 2000)
	if err != nil {
		t.Fatalf("RunYear failed: %v", err)
	}
	if summary.RunID != s.RunID() {
		t.Errorf("summary.RunID = %q, want %q", summary.RunID, s.RunID())
	}
}

func TestRunYear_ErrorsOnEmptyPopulation(t *testing.T) {
	sc := &simcontext.Context{
		Persons:     repository.New[*models.Person](),
		Families:    repository.New[*models.Family](),
		Households:  repository.New[*models.Household](),
		Dwellings:   repository.New[*models.Dwelling](),
		Currency:    currency.NewEmptyConverter(),
		RNG:         rng.NewRoot(1),
	}
	s := New(config.Default(), nil)

	if _, err := s.RunYear(context.Background(), sc, 2000); err == nil {
		t.Error("expected an error for an empty starting population")
	}
}

type recordingHooks struct {
	NoopHooks
	yearsStarted []int
	yearsEnded   []int
}

func (h *recordingHooks) BeforeYearlyExecute(_ *simcontext.Context, year int) {
	h.yearsStarted = append(h.yearsStarted, year)
}

func (h *recordingHooks) AfterYearlyExecute(_ *simcontext.Context, year int, _ YearSummary) {
	h.yearsEnded = append(h.yearsEnded, year)
}

func TestRunYear_InvokesLifecycleHooks(t *testing.T) {
	sc := newTestContext(t)
	hooks := &recordingHooks{}
	s := New(config.Default(), hooks)

	if _, err := s.RunYear(context.Background(), sc, 2000); err != nil {
		t.Fatalf("RunYear failed: %v", err)
	}

	if len(hooks.yearsStarted) != 1 || hooks.yearsStarted[0] != 2000 {
		t.Errorf("yearsStarted = %v, want [2000]", hooks.yearsStarted)
	}
	if len(hooks.yearsEnded) != 1 || hooks.yearsEnded[0] != 2000 {
		t.Errorf("yearsEnded = %v, want [2000]", hooks.yearsEnded)
	}
}

func TestApplyCarryOver_DropsBuyerAfterMaxUnmatchedMonths(t *testing.T) {
	s := New(config.Default(), nil)
	buyerID := models.ID(1)
	s.carryBuyers[buyerID] = 0
	buyers := []bidding.Buyer{{HouseholdID: buyerID}}
	emptyResult := &market.Result{}

	for i := 0; i < MaxUnmatchedMonths-1; i++ {
		s.applyCarryOver(buyers, nil, emptyResult)
		if _, ok := s.carryBuyers[buyerID]; !ok {
			t.Fatalf("buyer dropped too early, after %d unmatched months", i+1)
		}
	}

	s.applyCarryOver(buyers, nil, emptyResult)
	if _, ok := s.carryBuyers[buyerID]; ok {
		t.Error("expected buyer to be dropped after MaxUnmatchedMonths consecutive misses")
	}
}

func TestApplyCarryOver_ClearsBuyerOnSale(t *testing.T) {
	s := New(config.Default(), nil)
	buyerID := models.ID(1)
	s.carryBuyers[buyerID] = MaxUnmatchedMonths - 1
	buyers := []bidding.Buyer{{HouseholdID: buyerID}}
	result := &market.Result{Sales: []market.Sale{{BuyerHouseholdID: buyerID, DwellingID: 1, Price: 100}}}

	s.applyCarryOver(buyers, nil, result)

	if _, ok := s.carryBuyers[buyerID]; ok {
		t.Error("expected a matched buyer to be removed from the carry set")
	}
}
