package matching

import (
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

var (
	// ErrBookClosed signals an entry attempt against a fully closed book.
	ErrBookClosed = errors.New("order book is closed")
	// ErrNoMidpointPrice signals that one side has no limit price so no
	// midpoint can be formed.
	ErrNoMidpointPrice = errors.New("no midpoint price available")
)

// BookState gates what operations the book accepts. A partially closed
// book still takes cancellations and modifications; a closed book takes
// nothing.
type BookState int

const (
	BookStateOpen BookState = iota
	BookStatePartiallyClosed
	BookStateClosed
)

func (s BookState) String() string {
	switch s {
	case BookStatePartiallyClosed:
		return "PARTIALLY_CLOSED"
	case BookStateClosed:
		return "CLOSED"
	}
	return "OPEN"
}

// OrderBook holds both sides of a market's book plus the midpoint order
// queues. It is mutated only by its owning market's event worker, so it
// carries no locking.
type OrderBook struct {
	log      *logging.Logger
	marketID string
	state    BookState

	buy  *OrderBookSide
	sell *OrderBookSide

	// midpoint orders match only among themselves and never participate
	// in auction price determination, so they queue separately, time
	// priority only
	buyMid  []types.Order
	sellMid []types.Order
}

// NewOrderBook returns an open, empty book for the given market.
func NewOrderBook(log *logging.Logger, config Config, marketID string) *OrderBook {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &OrderBook{
		log:      log,
		marketID: marketID,
		buy:      NewSide(types.SideBuy),
		sell:     NewSide(types.SideSell),
	}
}

func (b *OrderBook) MarketID() string {
	return b.marketID
}

func (b *OrderBook) State() BookState {
	return b.state
}

// Open fully reopens the book.
func (b *OrderBook) Open() {
	b.state = BookStateOpen
}

// PartialClose leaves the book accepting cancel/modify only; new entries
// go through the owning form's call phase.
func (b *OrderBook) PartialClose() {
	b.state = BookStatePartiallyClosed
}

// Close shuts the book entirely, done ahead of price determination.
func (b *OrderBook) Close() {
	b.state = BookStateClosed
}

// AddOrder places an order on the book. The phase gate (who may submit
// while partially closed) is the owning trading form's job; the book only
// refuses entries when fully closed.
func (b *OrderBook) AddOrder(o types.Order) error {
	if b.state == BookStateClosed {
		return ErrBookClosed
	}
	if o.Type == types.OrderTypeMidpoint {
		if o.Side == types.SideBuy {
			b.buyMid = append(b.buyMid, o)
		} else {
			b.sellMid = append(b.sellMid, o)
		}
		return nil
	}
	b.sideFor(o.Side).addOrder(o)
	return nil
}

// RemoveOrder cancels an order by ID, searching both regular sides and the
// midpoint queues.
func (b *OrderBook) RemoveOrder(id string) (types.Order, error) {
	if b.state == BookStateClosed {
		return types.Order{}, ErrBookClosed
	}
	if o, err := b.buy.removeOrder(id); err == nil {
		return o, nil
	}
	if o, err := b.sell.removeOrder(id); err == nil {
		return o, nil
	}
	for i, o := range b.buyMid {
		if o.ID == id {
			b.buyMid = append(b.buyMid[:i], b.buyMid[i+1:]...)
			return o, nil
		}
	}
	for i, o := range b.sellMid {
		if o.ID == id {
			b.sellMid = append(b.sellMid[:i], b.sellMid[i+1:]...)
			return o, nil
		}
	}
	return types.Order{}, errors.Wrap(ErrOrderNotFound, id)
}

// AmendOrder replaces an order. An amendment is a remove followed by an
// add, so it always loses time priority.
func (b *OrderBook) AmendOrder(o types.Order) error {
	if b.state == BookStateClosed {
		return ErrBookClosed
	}
	if _, err := b.RemoveOrder(o.ID); err != nil {
		return err
	}
	return b.AddOrder(o)
}

// BuySide exposes the bid side for read-only walks.
func (b *OrderBook) BuySide() *OrderBookSide {
	return b.buy
}

// SellSide exposes the ask side for read-only walks.
func (b *OrderBook) SellSide() *OrderBookSide {
	return b.sell
}

// MidpointOrders returns the standing midpoint queue for a side.
func (b *OrderBook) MidpointOrders(side types.Side) []types.Order {
	if side == types.SideBuy {
		return b.buyMid
	}
	return b.sellMid
}

func (b *OrderBook) setMidpointOrders(side types.Side, orders []types.Order) {
	if side == types.SideBuy {
		b.buyMid = orders
		return
	}
	b.sellMid = orders
}

// MidpointPrice is the arithmetic mean of the best bid and best ask limit
// prices.
func (b *OrderBook) MidpointPrice() (num.Decimal, error) {
	bid, err := b.buy.BestPrice()
	if err != nil {
		return num.DecimalZero(), errors.Wrap(ErrNoMidpointPrice, "bid side")
	}
	ask, err := b.sell.BestPrice()
	if err != nil {
		return num.DecimalZero(), errors.Wrap(ErrNoMidpointPrice, "ask side")
	}
	return bid.Add(ask).Div(num.DecimalFromInt64(2)), nil
}

// Uncross executes the crossing volume at the given price: bids priced at
// or above it (market orders included) trade against asks priced at or
// below it, in priority order, until one side runs out. The book is
// updated in place and the trades are returned.
func (b *OrderBook) Uncross(price num.Decimal, now time.Time) ([]types.Trade, error) {
	bids := b.matchableOrders(b.buy, price)
	asks := b.matchableOrders(b.sell, price)

	trades := make([]types.Trade, 0, len(bids)+len(asks))
	var bi, ai int
	for bi < len(bids) && ai < len(asks) {
		bid, ask := bids[bi], asks[ai]
		size := num.MinUint(bid.Remaining, ask.Remaining)
		trade, err := types.NewTrade(bid, ask, price, size, now)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
		bids[bi] = bid.Fill(size)
		asks[ai] = ask.Fill(size)
		if bids[bi].Filled() {
			bi++
		}
		if asks[ai].Filled() {
			ai++
		}
	}

	b.applyFills(b.buy, bids)
	b.applyFills(b.sell, asks)
	if len(trades) > 0 && b.log.IsDebug() {
		b.log.Debug("book uncrossed",
			logging.String("market-id", b.marketID),
			logging.String("price", price.String()),
			logging.Int("trades", len(trades)))
	}
	return trades, nil
}

// matchableOrders returns the side's orders eligible to trade at the given
// price, in matching priority.
func (b *OrderBook) matchableOrders(side *OrderBookSide, price num.Decimal) []types.Order {
	eligible := make([]types.Order, 0, len(side.marketOrders))
	eligible = append(eligible, side.marketOrders...)
	side.descendBest(func(l *PriceLevel) bool {
		if side.side == types.SideBuy && l.price.LessThan(price) {
			return false
		}
		if side.side == types.SideSell && l.price.GreaterThan(price) {
			return false
		}
		eligible = append(eligible, l.orders...)
		return true
	})
	return eligible
}

// applyFills writes post-uncross order states back to the side, dropping
// filled orders.
func (b *OrderBook) applyFills(side *OrderBookSide, orders []types.Order) {
	for _, o := range orders {
		if o.IsMarket() {
			for i, mo := range side.marketOrders {
				if mo.ID == o.ID {
					if o.Filled() {
						side.marketOrders = append(side.marketOrders[:i], side.marketOrders[i+1:]...)
					} else {
						side.marketOrders[i] = o
					}
					break
				}
			}
			continue
		}
		probe := &PriceLevel{price: o.Price}
		level, ok := side.levels.Get(probe)
		if !ok {
			continue
		}
		if o.Filled() {
			level.removeOrder(o.ID)
			if level.empty() {
				side.levels.Delete(level)
			}
			continue
		}
		level.replaceOrder(o)
	}
}

func (b *OrderBook) sideFor(side types.Side) *OrderBookSide {
	if side == types.SideBuy {
		return b.buy
	}
	return b.sell
}
