package market

import (
	"sync"

	"github.com/vtuos/housingmarket/internal/bidding"
)

// win is a tentative match recorded during top-bid extraction: buyer was
// the top bidder on sellerIndex, and would pay secondPrice if chosen
// during resolution.
type win struct {
	sellerIndex int
	secondPrice float32
}

// buyerSlot is the engine's internal, mutable state for one buyer
// across a month's auction.
type buyerSlot struct {
	mu       sync.Mutex
	index    int
	buyer    bidding.Buyer
	wins     []win
	resolved bool
}
