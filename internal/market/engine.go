// Package market implements the monthly clearing engine: the iterative,
// parallel, sealed-bid auction that matches buyer households with
// dwelling sellers.
package market

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vtuos/housingmarket/internal/bidding"
	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/rng"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

// Engine runs one month's clearing given the configured auction
// parameters.
type Engine struct {
	MaxIterations int
	ChoiceSetSize int
	MaxBedrooms   int
}

// New creates an Engine with the given auction parameters.
func New(maxIterations, choiceSetSize, maxBedrooms int) *Engine {
	return &Engine{
		MaxIterations: maxIterations,
		ChoiceSetSize: choiceSetSize,
		MaxBedrooms:   maxBedrooms,
	}
}

// Sale is a completed match between a buyer's household and a seller's
// dwelling, recorded at the second-price amount.
type Sale struct {
	BuyerHouseholdID models.ID
	DwellingID       models.ID
	Price            float32
}

// Result is everything ClearMonth produces for the scheduler's yearly
// summary and carry-over bookkeeping.
type Result struct {
	Sales          []Sale
	TotalSalePrice float64
}

// ClearMonth runs Phase 1 (choice-set construction) and Phase 2
// (iterative auction) for one month and finalizes every resulting sale
// against the repositories in sc.
func (e *Engine) ClearMonth(ctx context.Context, sc *simcontext.Context, buyerInputs []bidding.Buyer, sellerInputs []SellerInput) (*Result, error) {
	if len(buyerInputs) == 0 || len(sellerInputs) == 0 {
		return &Result{}, nil
	}

	sellers := make([]*sellerSlot, len(sellerInputs))
	for i, in := range sellerInputs {
		sellers[i] = &sellerSlot{
			index:    i,
			category: category{Type: in.Dwelling.Type, Rooms: clampRooms(in.Dwelling.Rooms, e.MaxBedrooms)},
			input:    in,
		}
	}
	byCategory := buildCategories(sellers, e.MaxBedrooms)

	buyers := make([]*buyerSlot, len(buyerInputs))
	for i, b := range buyerInputs {
		buyers[i] = &buyerSlot{index: i, buyer: b}
	}

	// Substreams are derived serially, up front, so which worker ends up
	// processing which buyer never changes the sequence of draws that
	// buyer sees.
	streams := sc.RNG.Children(len(buyers))

	if e.ChoiceSetSize > 0 {
		if err := e.buildChoiceSets(ctx, sc, buyers, byCategory, streams); err != nil {
			return nil, err
		}
	}

	for _, s := range sellers {
		sortBids(s.bids)
	}

	return e.runAuction(ctx, sc, buyers, sellers)
}

func (e *Engine) buildChoiceSets(ctx context.Context, sc *simcontext.Context, buyers []*buyerSlot, byCategory map[category][]*sellerSlot, streams []*rng.Stream) error {
	g, _ := errgroup.WithContext(ctx)
	for i, b := range buyers {
		i, b := i, b
		g.Go(func() error {
			return e.buildChoiceSetForBuyer(sc, b, byCategory, streams[i])
		})
	}
	return g.Wait()
}

func (e *Engine) buildChoiceSetForBuyer(sc *simcontext.Context, b *buyerSlot, byCategory map[category][]*sellerSlot, stream *rng.Stream) error {
	persons := b.buyer.Persons
	loRooms, hiRooms := persons-1, persons
	if b.buyer.DemandingLarger {
		loRooms, hiRooms = persons, persons+1
	}
	loRooms = clampRooms(loRooms, e.MaxBedrooms)
	hiRooms = clampRooms(hiRooms, e.MaxBedrooms)

	for t := models.DwellingType(0); int(t) < models.NumDwellingTypes; t++ {
		for rooms := loRooms; rooms <= hiRooms; rooms++ {
			cat := category{Type: t, Rooms: rooms}
			candidates := byCategory[cat]
			if len(candidates) == 0 {
				continue
			}

			if len(candidates) < e.ChoiceSetSize {
				for _, seller := range candidates {
					if err := e.bidUnconditionally(sc, b, seller); err != nil {
						return err
					}
				}
				break
			}

			accepted := 0
			for attempts := 0; accepted < e.ChoiceSetSize && attempts < 2*e.ChoiceSetSize; attempts++ {
				idx := stream.Intn(len(candidates))
				ok, err := e.bidIfAboveFloor(sc, b, candidates[idx])
				if err != nil {
					return err
				}
				if ok {
					accepted++
				}
			}
		}
	}
	return nil
}

func (e *Engine) bidUnconditionally(sc *simcontext.Context, b *buyerSlot, seller *sellerSlot) error {
	amount, err := bidding.Bid(sc, b.buyer, bidding.Seller{
		Dwelling:     seller.input.Dwelling,
		AskingPrice:  seller.input.AskingPrice,
		MinimumPrice: seller.input.MinimumPrice,
	}, seller.input.AskingPrice)
	if err != nil {
		return fmt.Errorf("market: building choice set: %w", err)
	}
	insertBid(seller, Bid{Amount: amount, SellerIndex: seller.index, BuyerIndex: b.index})
	return nil
}

func (e *Engine) bidIfAboveFloor(sc *simcontext.Context, b *buyerSlot, seller *sellerSlot) (bool, error) {
	amount, err := bidding.Bid(sc, b.buyer, bidding.Seller{
		Dwelling:     seller.input.Dwelling,
		AskingPrice:  seller.input.AskingPrice,
		MinimumPrice: seller.input.MinimumPrice,
	}, seller.input.AskingPrice)
	if err != nil {
		return false, fmt.Errorf("market: building choice set: %w", err)
	}
	if amount < seller.input.MinimumPrice {
		return false, nil
	}
	insertBid(seller, Bid{Amount: amount, SellerIndex: seller.index, BuyerIndex: b.index})
	return true, nil
}

func insertBid(seller *sellerSlot, bid Bid) {
	seller.mu.Lock()
	seller.bids = append(seller.bids, bid)
	seller.mu.Unlock()
}

func (e *Engine) runAuction(ctx context.Context, sc *simcontext.Context, buyers []*buyerSlot, sellers []*sellerSlot) (*Result, error) {
	sellersByType := make(map[models.DwellingType][]*sellerSlot)
	for _, s := range sellers {
		sellersByType[s.category.Type] = append(sellersByType[s.category.Type], s)
	}

	result := &Result{}

	for iter := 0; iter < e.MaxIterations; iter++ {
		for t := models.DwellingType(0); int(t) < models.NumDwellingTypes; t++ {
			group := sellersByType[t]
			if len(group) == 0 {
				continue
			}
			g, _ := errgroup.WithContext(ctx)
			for _, s := range group {
				s := s
				g.Go(func() error {
					return extractTopBid(buyers, s)
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		}

		anyWin := false
		for _, b := range buyers {
			if len(b.wins) > 0 {
				anyWin = true
				break
			}
		}
		if !anyWin {
			break
		}

		for _, b := range buyers {
			if len(b.wins) == 0 {
				continue
			}
			chosen := b.wins[0]
			for _, w := range b.wins[1:] {
				if w.secondPrice > chosen.secondPrice ||
					(w.secondPrice == chosen.secondPrice && w.sellerIndex > chosen.sellerIndex) {
					chosen = w
				}
			}

			if chosen.sellerIndex < 0 || chosen.sellerIndex >= len(sellers) {
				return nil, &IndexOutOfRangeError{Kind: "seller", Index: chosen.sellerIndex, Bound: len(sellers)}
			}
			seller := sellers[chosen.sellerIndex]

			sale, err := e.finalizeSale(ctx, sc, b.buyer, seller, chosen.secondPrice)
			if err != nil {
				return nil, err
			}
			result.Sales = append(result.Sales, sale)
			result.TotalSalePrice += float64(chosen.secondPrice)

			seller.mu.Lock()
			seller.bids = nil
			seller.sold = true
			seller.mu.Unlock()
			b.resolved = true
		}

		g2, _ := errgroup.WithContext(ctx)
		for _, s := range sellers {
			if s.sold {
				continue
			}
			s := s
			g2.Go(func() error {
				sweep(buyers, s)
				return nil
			})
		}
		if err := g2.Wait(); err != nil {
			return nil, err
		}

		for _, b := range buyers {
			b.wins = nil
		}
	}

	return result, nil
}

// extractTopBid records s's top bidder as a win at the second price: the
// next bid's amount, or the top bid's own amount when it is alone. It
// reads the list without popping; bids leave a seller's list only when
// the seller sells (the whole list is cleared) or during sweep.
func extractTopBid(buyers []*buyerSlot, s *sellerSlot) error {
	s.mu.Lock()
	if len(s.bids) == 0 {
		s.mu.Unlock()
		return nil
	}
	top := s.bids[0]
	second := top.Amount
	if len(s.bids) >= 2 {
		second = s.bids[1].Amount
	}
	s.mu.Unlock()

	if top.BuyerIndex < 0 || top.BuyerIndex >= len(buyers) {
		return &IndexOutOfRangeError{Kind: "buyer", Index: top.BuyerIndex, Bound: len(buyers)}
	}

	b := buyers[top.BuyerIndex]
	b.mu.Lock()
	b.wins = append(b.wins, win{sellerIndex: s.index, secondPrice: second})
	b.mu.Unlock()
	return nil
}

func sweep(buyers []*buyerSlot, s *sellerSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.bids[:0]
	for _, bid := range s.bids {
		if !buyers[bid.BuyerIndex].resolved {
			kept = append(kept, bid)
		}
	}
	s.bids = kept
}

func (e *Engine) finalizeSale(ctx context.Context, sc *simcontext.Context, buyer bidding.Buyer, seller *sellerSlot, price float32) (Sale, error) {
	now := sc.Now
	d := seller.input.Dwelling

	// Check the seller household's live DwellingID, not the d.CurrentHousehold
	// snapshot taken when sellerInputs was built this month: that snapshot
	// can go stale if the same household already bought a different
	// dwelling in an earlier iteration of this month's auction, and
	// clobbering a freshly acquired reference with NoID would violate the
	// dwelling/household back-reference invariant.
	if sellerHousehold, ok := sc.Households.TryGet(seller.input.HouseholdID); ok && sellerHousehold.DwellingID == d.ID {
		sellerHousehold.DwellingID = models.NoID
	}

	buyerHousehold, ok := sc.Households.TryGet(buyer.HouseholdID)
	if !ok {
		return Sale{}, &IndexOutOfRangeError{Kind: "buyer household", Index: int(buyer.HouseholdID)}
	}
	if buyerHousehold.DwellingID.Valid() && buyerHousehold.DwellingID != d.ID {
		if old, ok := sc.Dwellings.TryGet(buyerHousehold.DwellingID); ok && old.CurrentHousehold == buyer.HouseholdID {
			old.CurrentHousehold = models.NoID
		}
	}
	buyerHousehold.DwellingID = d.ID
	d.CurrentHousehold = buyer.HouseholdID
	d.Value = models.NewMoney(price, now)
	d.ListingDate = models.Date{}
	d.Listed = false

	rec := buildSaleRecord(sc, d, price, now)
	if _, err := sc.SaleRecords.Append(ctx, rec); err != nil {
		return Sale{}, fmt.Errorf("market: appending sale record: %w", err)
	}

	slog.Info("market: sale",
		"buyer_household", buyer.HouseholdID,
		"dwelling", d.ID,
		"price", price,
		"year", now.Year,
		"month", now.Month)

	return Sale{BuyerHouseholdID: buyer.HouseholdID, DwellingID: d.ID, Price: price}, nil
}

// buildSaleRecord degrades gracefully on missing zone data: a Go map
// lookup on an absent key already returns the zero value, which is
// exactly the behavior wanted here.
func buildSaleRecord(sc *simcontext.Context, d *models.Dwelling, price float32, now models.Date) models.SaleRecord {
	lu := sc.LandUse[d.Zone]
	return models.SaleRecord{
		Date:          now,
		Price:         price,
		Rooms:         d.Rooms,
		SquareFootage: d.SquareFootage,
		Zone:          d.Zone,
		DistSubway:    sc.DistSubway[d.Zone],
		DistRegional:  sc.DistRegional[d.Zone],
		Residential:   lu.Residential,
		Commerce:      lu.Commercial,
		DwellingType:  d.Type,
	}
}
