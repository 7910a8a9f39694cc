package matching

import (
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

// DeterminePrice computes the auction clearing price for a closed book.
//
// The worst matchable bid is the bid limit price closest to the best ask
// while still at or above it; the worst matchable ask is the symmetric
// price against the best bid. Matchable quantity per side is everything at
// least as aggressive as that price, market orders included. Without a
// reference price the side with the larger surplus names the price; with
// one, the candidate closest to the reference wins, ties going to the
// higher price.
//
// When only one side carries orders no price can be derived from crossing;
// the result then falls back to the reference price when one is supplied.
func DeterminePrice(book *OrderBook, refPrice *num.Decimal) types.PriceDeterminationResult {
	bidSide, askSide := book.BuySide(), book.SellSide()

	bidEmpty, askEmpty := bidSide.empty(), askSide.empty()
	if bidEmpty && askEmpty {
		// degenerate book, no crossing check applied
		return types.PriceDeterminationResult{
			BidQuantity:  bidSide.TotalVolume(),
			AskQuantity:  askSide.TotalVolume(),
			AuctionPrice: refPrice,
		}
	}
	if bidEmpty || askEmpty {
		return onesidedResult(bidSide, askSide, bidEmpty, refPrice)
	}

	bidTop, bidTopErr := bidSide.BestPrice()
	askTop, askTopErr := askSide.BestPrice()
	if bidTopErr != nil || askTopErr != nil {
		// a side holds market orders only, so it has no limit price to
		// cross against
		return marketOnlyResult(bidSide, askSide, bidTopErr == nil, askTopErr == nil, refPrice)
	}

	worstBid, bidFound := nearestAtOrAbove(bidSide.LimitPrices(), askTop)
	worstAsk, askFound := nearestAtOrBelow(askSide.LimitPrices(), bidTop)

	result := types.PriceDeterminationResult{}
	if bidFound {
		p := worstBid
		result.BidPrice = &p
		result.BidQuantity = bidSide.VolumeAtOrBetter(worstBid)
	}
	if askFound {
		p := worstAsk
		result.AskPrice = &p
		result.AskQuantity = askSide.VolumeAtOrBetter(worstAsk)
	}

	switch {
	case bidFound && askFound:
		if refPrice == nil {
			if result.BidSurplus() > result.AskSurplus() {
				result.AuctionPrice = result.BidPrice
			} else {
				result.AuctionPrice = result.AskPrice
			}
		} else {
			p := closestToReference(worstBid, worstAsk, *refPrice)
			result.AuctionPrice = &p
		}
	case refPrice != nil:
		// book does not cross, fall back to the top prices
		p := closestToReference(bidTop, askTop, *refPrice)
		result.AuctionPrice = &p
	}
	return result
}

func onesidedResult(bidSide, askSide *OrderBookSide, bidEmpty bool, refPrice *num.Decimal) types.PriceDeterminationResult {
	result := types.PriceDeterminationResult{AuctionPrice: refPrice}
	if bidEmpty {
		result.AskQuantity = askSide.TotalVolume()
		if top, err := askSide.BestPrice(); err == nil {
			result.AskPrice = &top
		}
		return result
	}
	result.BidQuantity = bidSide.TotalVolume()
	if top, err := bidSide.BestPrice(); err == nil {
		result.BidPrice = &top
	}
	return result
}

// marketOnlyResult handles books where at least one side has market orders
// but no limit price. The crossing scan needs a limit price on both tops,
// so the auction price falls back to the reference, tie-broken against
// whatever limit prices exist.
func marketOnlyResult(bidSide, askSide *OrderBookSide, haveBidTop, haveAskTop bool, refPrice *num.Decimal) types.PriceDeterminationResult {
	result := types.PriceDeterminationResult{
		BidQuantity: bidSide.TotalVolume(),
		AskQuantity: askSide.TotalVolume(),
	}
	if refPrice == nil {
		return result
	}
	switch {
	case haveBidTop:
		top, _ := bidSide.BestPrice()
		result.BidPrice = &top
		result.AuctionPrice = &top
	case haveAskTop:
		top, _ := askSide.BestPrice()
		result.AskPrice = &top
		result.AuctionPrice = &top
	default:
		result.AuctionPrice = refPrice
	}
	return result
}

// nearestAtOrAbove scans prices, sorted best first for the bid side
// (descending), for the value closest to target while still >= target.
// Inputs are pre-sorted so the scan stops as soon as the distance from the
// target starts increasing.
func nearestAtOrAbove(prices []num.Decimal, target num.Decimal) (num.Decimal, bool) {
	var (
		best  num.Decimal
		found bool
	)
	for _, p := range prices {
		if p.LessThan(target) {
			break
		}
		if found && num.AbsDiff(p, target).GreaterThan(num.AbsDiff(best, target)) {
			break
		}
		best, found = p, true
	}
	return best, found
}

// nearestAtOrBelow is the ask-side counterpart: prices sorted ascending,
// looking for the value closest to target while still <= target.
func nearestAtOrBelow(prices []num.Decimal, target num.Decimal) (num.Decimal, bool) {
	var (
		best  num.Decimal
		found bool
	)
	for _, p := range prices {
		if p.GreaterThan(target) {
			break
		}
		if found && num.AbsDiff(p, target).GreaterThan(num.AbsDiff(best, target)) {
			break
		}
		best, found = p, true
	}
	return best, found
}

// closestToReference picks whichever candidate sits nearer the reference
// price. Exact equality wins outright, distance ties take the higher
// price.
func closestToReference(a, b, ref num.Decimal) num.Decimal {
	if a.Equal(ref) {
		return a
	}
	if b.Equal(ref) {
		return b
	}
	da, db := num.AbsDiff(a, ref), num.AbsDiff(b, ref)
	if da.Equal(db) {
		return num.MaxD(a, b)
	}
	if da.LessThan(db) {
		return a
	}
	return b
}
