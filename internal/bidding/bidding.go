// Package bidding implements the willingness-to-pay bid generator:
// given a household, a candidate dwelling, and its asking price, it
// returns the amount the household is willing to bid.
package bidding

import (
	"fmt"
	"math"

	"github.com/vtuos/housingmarket/internal/models"
	"github.com/vtuos/housingmarket/internal/simcontext"
)

// MinimumIncome is the floor applied to a household's summed job income
// before it is compared against savings.
const MinimumIncome = 10000

// AskingDiscount is the fraction of the asking price a bid is capped at.
const AskingDiscount = 0.97

// MissingZoneDataError reports that a seller's zone has no land-use
// record. Bid generation treats this as fatal: a bid without land-use
// context is unsafe to price.
type MissingZoneDataError struct {
	Zone int
}

func (e *MissingZoneDataError) Error() string {
	return fmt.Sprintf("bidding: no land-use data for zone %d", e.Zone)
}

// Buyer is the per-household state computed once during the monthly
// warmup and reused across every bid that buyer's choice-set
// construction produces.
type Buyer struct {
	HouseholdID       models.ID
	PurchasingPower   float64
	CurrentRooms      int
	HasDwelling       bool
	Persons           int
	DemandingLarger   bool
}

// Seller is the per-dwelling state a category entry in the market
// engine carries, sufficient to price a bid against it.
type Seller struct {
	Dwelling      *models.Dwelling
	AskingPrice   float32
	MinimumPrice  float32
}

// PurchasingPower computes a household's income and savings for use as
// a Buyer's PurchasingPower. Income is summed across every job held by
// every person in every family of the household, converted to now, and
// floored at MinimumIncome. Savings is summed liquidAssets across those
// same families.
func PurchasingPower(sc *simcontext.Context, h *models.Household, now models.Date) (float64, error) {
	var income, savings float64

	for _, famID := range h.FamilyIDs {
		fam, ok := sc.Families.TryGet(famID)
		if !ok {
			continue
		}
		savings += fam.LiquidAssets

		for _, personID := range fam.PersonIDs {
			p, ok := sc.Persons.TryGet(personID)
			if !ok {
				continue
			}
			for _, job := range p.Jobs {
				converted, err := sc.Currency.Convert(job.Salary, now)
				if err != nil {
					return 0, fmt.Errorf("bidding: converting salary: %w", err)
				}
				income += float64(converted.Amount)
			}
		}
	}

	if income < MinimumIncome {
		income = MinimumIncome
	}

	return math.Max(income, savings), nil
}

// Bid computes the willingness-to-pay for buyer against seller, given
// the seller's current asking price.
func Bid(sc *simcontext.Context, buyer Buyer, seller Seller, askingPrice float32) (float32, error) {
	deltaRooms := seller.Dwelling.Rooms
	if buyer.HasDwelling {
		deltaRooms = seller.Dwelling.Rooms - buyer.CurrentRooms
	}

	lu, ok := sc.LandUseFor(seller.Dwelling.Zone)
	if !ok {
		return 0, &MissingZoneDataError{Zone: seller.Dwelling.Zone}
	}

	var openBonus, industrialPenalty float64
	if lu.Open > 0 {
		openBonus = 5000 * math.Log(lu.Open)
	}
	if lu.Industrial > 0 {
		industrialPenalty = 8000 * math.Log(lu.Industrial)
	}

	baseBid := 4 * buyer.PurchasingPower
	spaceValue := 10000 * float64(deltaRooms)

	bid := math.Min(float64(askingPrice)*AskingDiscount, baseBid+spaceValue+openBonus-industrialPenalty)
	bid = math.Max(bid, buyer.PurchasingPower)

	return float32(bid), nil
}
