package matching

import (
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

// PriceLevel holds the orders resting at one price, oldest first.
type PriceLevel struct {
	price  num.Decimal
	orders []types.Order
	volume uint64
}

// NewPriceLevel returns an empty price level.
func NewPriceLevel(price num.Decimal) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: make([]types.Order, 0, 4),
	}
}

func (l *PriceLevel) Price() num.Decimal {
	return l.price
}

// Volume is the sum of remaining quantities at this level.
func (l *PriceLevel) Volume() uint64 {
	return l.volume
}

func (l *PriceLevel) addOrder(o types.Order) {
	l.orders = append(l.orders, o)
	l.volume += o.Remaining
}

// removeOrder takes the order with the given ID off the level and reports
// whether it was present.
func (l *PriceLevel) removeOrder(id string) (types.Order, bool) {
	for i, o := range l.orders {
		if o.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			l.volume -= o.Remaining
			return o, true
		}
	}
	return types.Order{}, false
}

// replaceOrder swaps an order in place, keeping its time priority. Used to
// write back partially filled orders after an uncross.
func (l *PriceLevel) replaceOrder(o types.Order) bool {
	for i, existing := range l.orders {
		if existing.ID == o.ID {
			l.volume -= existing.Remaining
			l.volume += o.Remaining
			l.orders[i] = o
			return true
		}
	}
	return false
}

func (l *PriceLevel) empty() bool {
	return len(l.orders) == 0
}
