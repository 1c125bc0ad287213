package market

import "sort"

// Bid is a single buyer's offer on a single seller, carried in a
// seller's bid list during the auction.
type Bid struct {
	Amount      float32
	SellerIndex int
	BuyerIndex  int
}

// Less reports whether a should sort before b: higher amount first,
// ties broken by higher buyerIndex. The buyerIndex tie-break is
// deterministic and race-free by construction: it never depends on
// insertion order.
func Less(a, b Bid) bool {
	if a.Amount != b.Amount {
		return a.Amount > b.Amount
	}
	return a.BuyerIndex > b.BuyerIndex
}

// sortBids sorts a seller's bid list in place per the Less order.
func sortBids(bids []Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		return Less(bids[i], bids[j])
	})
}
