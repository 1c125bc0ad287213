package market

import (
	"sync"

	"github.com/vtuos/housingmarket/internal/models"
)

// SellerInput is the per-dwelling listing the caller hands the engine
// for a month: the current owning household and the asking/minimum
// price the estimator quoted for it.
type SellerInput struct {
	Dwelling     *models.Dwelling
	HouseholdID  models.ID
	AskingPrice  float32
	MinimumPrice float32
}

// category identifies a (dwelling type, room count) partition. Rooms is
// clamped into [0, MaxBedrooms-1] before grouping.
type category struct {
	Type  models.DwellingType
	Rooms int
}

func clampRooms(rooms, maxBedrooms int) int {
	if rooms < 0 {
		return 0
	}
	if rooms > maxBedrooms-1 {
		return maxBedrooms - 1
	}
	return rooms
}

// sellerSlot is the engine's internal, mutable state for one seller
// across a month's auction: its flat index (used as Bid.SellerIndex and
// for deterministic tie-breaking), its sorted bid list, and the mutex
// guarding concurrent insertion during Phase 1 and extraction during
// Phase 2.
type sellerSlot struct {
	mu       sync.Mutex
	index    int
	category category
	input    SellerInput
	bids     []Bid
	sold     bool
}

func buildCategories(sellers []*sellerSlot, maxBedrooms int) map[category][]*sellerSlot {
	byCategory := make(map[category][]*sellerSlot)
	for _, s := range sellers {
		byCategory[s.category] = append(byCategory[s.category], s)
	}
	return byCategory
}
