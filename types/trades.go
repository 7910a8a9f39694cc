package types

import (
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/halcyonmkt/halcyon/types/num"
)

// ErrInvalidTradeSize signals a trade requested with a non-positive
// quantity. It is fatal to the one match attempt that produced it.
var ErrInvalidTradeSize = errors.New("trade size must be positive")

// Trade records one execution between a buy and a sell order.
type Trade struct {
	ID        string
	MarketID  string
	Price     num.Decimal
	Size      uint64
	Buyer     string
	Seller    string
	BuyOrder  string
	SellOrder string
	Timestamp time.Time
}

// NewTrade builds a trade between aggressor and passive order, direction
// adjusted so buyer and seller land on the right legs.
func NewTrade(aggressor, passive Order, price num.Decimal, size uint64, now time.Time) (Trade, error) {
	if size == 0 {
		return Trade{}, ErrInvalidTradeSize
	}
	t := Trade{
		ID:        uuid.NewV4().String(),
		MarketID:  aggressor.MarketID,
		Price:     price,
		Size:      size,
		Timestamp: now,
	}
	if aggressor.Side == SideBuy {
		t.Buyer, t.BuyOrder = aggressor.Party, aggressor.ID
		t.Seller, t.SellOrder = passive.Party, passive.ID
	} else {
		t.Buyer, t.BuyOrder = passive.Party, passive.ID
		t.Seller, t.SellOrder = aggressor.Party, aggressor.ID
	}
	return t, nil
}
