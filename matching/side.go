package matching

import (
	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

var (
	// ErrNoOrdersOnSide signals a price lookup against an empty book side.
	ErrNoOrdersOnSide = errors.New("no orders on this side of the book")
	// ErrOrderNotFound signals a removal or amendment for an unknown order.
	ErrOrderNotFound = errors.New("order not found on the book")
)

const btreeDegree = 8

// OrderBookSide represents one side of the book, either buy or sell. Limit
// orders live in price levels kept in a btree keyed by price; market orders
// rank best regardless of price and sit in their own FIFO queue.
type OrderBookSide struct {
	side         types.Side
	levels       *btree.BTreeG[*PriceLevel]
	marketOrders []types.Order
}

// NewSide returns an empty book side.
func NewSide(side types.Side) *OrderBookSide {
	return &OrderBookSide{
		side: side,
		levels: btree.NewG(btreeDegree, func(a, b *PriceLevel) bool {
			return a.price.LessThan(b.price)
		}),
	}
}

func (s *OrderBookSide) Side() types.Side {
	return s.side
}

func (s *OrderBookSide) addOrder(o types.Order) {
	if o.IsMarket() {
		s.marketOrders = append(s.marketOrders, o)
		return
	}
	s.getPriceLevel(o.Price).addOrder(o)
}

func (s *OrderBookSide) getPriceLevel(price num.Decimal) *PriceLevel {
	probe := &PriceLevel{price: price}
	if level, ok := s.levels.Get(probe); ok {
		return level
	}
	level := NewPriceLevel(price)
	s.levels.ReplaceOrInsert(level)
	return level
}

// removeOrder takes an order off the side by ID.
func (s *OrderBookSide) removeOrder(id string) (types.Order, error) {
	for i, o := range s.marketOrders {
		if o.ID == id {
			s.marketOrders = append(s.marketOrders[:i], s.marketOrders[i+1:]...)
			return o, nil
		}
	}
	var (
		removed types.Order
		found   bool
		emptied *PriceLevel
	)
	s.levels.Ascend(func(l *PriceLevel) bool {
		if o, ok := l.removeOrder(id); ok {
			removed, found = o, true
			if l.empty() {
				emptied = l
			}
			return false
		}
		return true
	})
	if !found {
		return types.Order{}, errors.Wrap(ErrOrderNotFound, id)
	}
	if emptied != nil {
		s.levels.Delete(emptied)
	}
	return removed, nil
}

// BestPrice returns the most aggressive limit price on the side: highest
// for buys, lowest for sells. Market orders carry no price and are ignored
// here.
func (s *OrderBookSide) BestPrice() (num.Decimal, error) {
	var best *PriceLevel
	var ok bool
	if s.side == types.SideBuy {
		best, ok = s.levels.Max()
	} else {
		best, ok = s.levels.Min()
	}
	if !ok {
		return num.DecimalZero(), ErrNoOrdersOnSide
	}
	return best.price, nil
}

// LimitPrices returns the distinct limit prices on the side, best first.
func (s *OrderBookSide) LimitPrices() []num.Decimal {
	prices := make([]num.Decimal, 0, s.levels.Len())
	s.descendBest(func(l *PriceLevel) bool {
		prices = append(prices, l.price)
		return true
	})
	return prices
}

// VolumeAtOrBetter sums the remaining quantity of all orders whose price is
// at least as aggressive as the given one, market orders included.
func (s *OrderBookSide) VolumeAtOrBetter(price num.Decimal) uint64 {
	total := s.marketOrderVolume()
	s.descendBest(func(l *PriceLevel) bool {
		if s.side == types.SideBuy && l.price.LessThan(price) {
			return false
		}
		if s.side == types.SideSell && l.price.GreaterThan(price) {
			return false
		}
		total += l.volume
		return true
	})
	return total
}

// TotalVolume is the unfiltered remaining quantity on the side.
func (s *OrderBookSide) TotalVolume() uint64 {
	total := s.marketOrderVolume()
	s.levels.Ascend(func(l *PriceLevel) bool {
		total += l.volume
		return true
	})
	return total
}

func (s *OrderBookSide) marketOrderVolume() uint64 {
	var total uint64
	for _, o := range s.marketOrders {
		total += o.Remaining
	}
	return total
}

// Orders returns all orders on the side in matching priority: market orders
// first in arrival order, then limit orders best price first, oldest first
// within a level.
func (s *OrderBookSide) Orders() []types.Order {
	out := make([]types.Order, 0, len(s.marketOrders)+s.levels.Len()*2)
	out = append(out, s.marketOrders...)
	s.descendBest(func(l *PriceLevel) bool {
		out = append(out, l.orders...)
		return true
	})
	return out
}

func (s *OrderBookSide) empty() bool {
	return len(s.marketOrders) == 0 && s.levels.Len() == 0
}

// descendBest walks price levels from the most aggressive price outward.
func (s *OrderBookSide) descendBest(f func(*PriceLevel) bool) {
	if s.side == types.SideBuy {
		s.levels.Descend(f)
		return
	}
	s.levels.Ascend(f)
}
