package matching

import (
	"time"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

// VolatilityChecker is the slice of the price monitoring guard the
// midpoint matcher needs: pass/fail on the midpoint price at trade time.
type VolatilityChecker interface {
	CheckPrice(indicative num.Decimal, now time.Time) *types.VolatilityInterruption
}

// executionChance tentatively binds a standing order to the quantity it
// would execute, never below the order's own minimum fill.
type executionChance struct {
	orderID  string
	quantity uint64
	minFill  uint64
}

// available is the quantity the chance can donate without dropping below
// its minimum-fill floor.
func (c *executionChance) available() uint64 {
	if c.quantity <= c.minFill {
		return 0
	}
	return c.quantity - c.minFill
}

// quantityCollector stacks execution chances in collection order, best
// ranked first. Stealing walks the stack from the top, so lower-precedence
// chances always donate first.
type quantityCollector struct {
	chances []*executionChance
}

func (q *quantityCollector) push(c *executionChance) {
	q.chances = append(q.chances, c)
}

func (q *quantityCollector) get(orderID string) *executionChance {
	for _, c := range q.chances {
		if c.orderID == orderID {
			return c
		}
	}
	return nil
}

// stealable sums what all recorded chances could donate.
func (q *quantityCollector) stealable() uint64 {
	var total uint64
	for _, c := range q.chances {
		total += c.available()
	}
	return total
}

// steal reclaims exactly amount from the recorded chances, lowest
// precedence first, never pushing a donor below its minimum fill. The
// caller checks stealable() first; steal panics on a shortfall because the
// collector state would be corrupt.
func (q *quantityCollector) steal(amount uint64) {
	for i := len(q.chances) - 1; i >= 0 && amount > 0; i-- {
		c := q.chances[i]
		take := num.MinUint(amount, c.available())
		c.quantity -= take
		amount -= take
	}
	if amount > 0 {
		panic("quantity collector stole more than available")
	}
}

// MidpointMatch is the outcome of matching one incoming midpoint order.
type MidpointMatch struct {
	Trades []types.Trade
	// Incoming is the incoming order after all fills.
	Incoming types.Order
}

// MatchMidpoint matches an incoming midpoint order against the standing
// midpoint orders on the other side of the book.
//
// Pass one walks the other side in priority order collecting execution
// chances. A standing order whose candidate quantity falls short of its
// minimum fill may steal the shortfall from chances already recorded,
// strictly lower-precedence donors first and never below a donor's own
// floor; when not enough can be stolen the order is skipped and stays
// fully on the book.
//
// Pass two revisits the queue in its original order and, for every order
// holding a chance, re-verifies that the order's limit still crosses the
// midpoint and that the midpoint passes the volatility guard before
// emitting a trade at the midpoint price. Orders failing re-verification
// are returned to the book unchanged.
func MatchMidpoint(log *logging.Logger, incoming types.Order, book *OrderBook, midpoint num.Decimal, guard VolatilityChecker, now time.Time) (MidpointMatch, error) {
	otherSide := incoming.Side.Opposite()
	standing := book.MidpointOrders(otherSide)

	collector := &quantityCollector{}
	remaining := incoming.Remaining
	for _, o := range standing {
		if remaining == 0 {
			break
		}
		candidate := num.MinUint(remaining, o.Remaining)
		if candidate >= o.MinFillSize {
			collector.push(&executionChance{
				orderID:  o.ID,
				quantity: candidate,
				minFill:  o.MinFillSize,
			})
			remaining -= candidate
			continue
		}
		shortfall := o.MinFillSize - candidate
		if collector.stealable() < shortfall {
			// nothing (or not enough) to steal, the order stays fully on
			// the book
			continue
		}
		collector.steal(shortfall)
		collector.push(&executionChance{
			orderID:  o.ID,
			quantity: candidate + shortfall,
			minFill:  o.MinFillSize,
		})
		// the stolen part was already deducted when the donors collected,
		// only the fresh candidate reduces the incoming quantity
		remaining -= candidate
	}

	trades := make([]types.Trade, 0, len(collector.chances))
	kept := make([]types.Order, 0, len(standing))
	var filled uint64
	for _, o := range standing {
		chance := collector.get(o.ID)
		if chance == nil || chance.quantity == 0 {
			kept = append(kept, o)
			continue
		}
		if !crossesMidpoint(o, midpoint) || guard.CheckPrice(midpoint, now) != nil {
			kept = append(kept, o)
			continue
		}
		trade, err := types.NewTrade(incoming, o, midpoint, chance.quantity, now)
		if err != nil {
			return MidpointMatch{}, err
		}
		trades = append(trades, trade)
		filled += chance.quantity
		if o.Remaining > chance.quantity {
			kept = append(kept, o.Fill(chance.quantity))
		}
	}

	book.setMidpointOrders(otherSide, kept)
	if len(trades) > 0 && log.IsDebug() {
		log.Debug("midpoint order matched",
			logging.String("order-id", incoming.ID),
			logging.String("midpoint", midpoint.String()),
			logging.Int("trades", len(trades)),
			logging.Uint64("filled", filled))
	}
	return MidpointMatch{
		Trades:   trades,
		Incoming: incoming.Fill(filled),
	}, nil
}

// crossesMidpoint checks an order's limit still admits the midpoint: a buy
// must be willing to pay at least the midpoint, a sell to receive at most
// it. Orders without a limit price always cross.
func crossesMidpoint(o types.Order, midpoint num.Decimal) bool {
	if o.Price.IsZero() {
		return true
	}
	if o.Side == types.SideBuy {
		return o.Price.GreaterThanOrEqual(midpoint)
	}
	return o.Price.LessThanOrEqual(midpoint)
}
