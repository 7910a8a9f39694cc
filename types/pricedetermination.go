package types

import (
	"github.com/halcyonmkt/halcyon/types/num"
)

// PriceDeterminationResult is the immutable outcome of one auction
// uncrossing. A side's price is nil when no matchable price could be found
// on it; AuctionPrice is nil only when no price at all could be derived.
type PriceDeterminationResult struct {
	BidPrice     *num.Decimal
	AskPrice     *num.Decimal
	BidQuantity  uint64
	AskQuantity  uint64
	AuctionPrice *num.Decimal
}

// BidSurplus is the unmatched quantity left on the bid side, zero unless
// bids exceed asks. BidSurplus and AskSurplus are never both positive.
func (r PriceDeterminationResult) BidSurplus() uint64 {
	if r.BidQuantity > r.AskQuantity {
		return r.BidQuantity - r.AskQuantity
	}
	return 0
}

// AskSurplus is the symmetric ask-side surplus.
func (r PriceDeterminationResult) AskSurplus() uint64 {
	if r.AskQuantity > r.BidQuantity {
		return r.AskQuantity - r.BidQuantity
	}
	return 0
}

// MatchableQuantity is the volume that would cross at the auction price.
func (r PriceDeterminationResult) MatchableQuantity() uint64 {
	return num.MinUint(r.BidQuantity, r.AskQuantity)
}
