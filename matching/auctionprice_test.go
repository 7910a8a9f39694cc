package matching_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/matching"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

func newTestBook(t *testing.T) *matching.OrderBook {
	t.Helper()
	return matching.NewOrderBook(logging.NewTestLogger(), matching.NewDefaultConfig(), "MKT-1")
}

var orderSeq int

func limitOrder(side types.Side, price float64, size uint64) types.Order {
	orderSeq++
	return types.Order{
		ID:        fmt.Sprintf("order-%03d", orderSeq),
		MarketID:  "MKT-1",
		Party:     "party-1",
		Side:      side,
		Type:      types.OrderTypeLimit,
		Price:     num.DecimalFromFloat(price),
		Size:      size,
		Remaining: size,
	}
}

func marketOrder(side types.Side, size uint64) types.Order {
	o := limitOrder(side, 0, size)
	o.Type = types.OrderTypeMarket
	o.Price = num.DecimalZero()
	return o
}

func populate(t *testing.T, book *matching.OrderBook, orders ...types.Order) {
	t.Helper()
	for _, o := range orders {
		require.NoError(t, book.AddOrder(o))
	}
}

func TestDeterminePriceExactCrossing(t *testing.T) {
	book := newTestBook(t)
	populate(t, book,
		limitOrder(types.SideBuy, 202, 200),
		limitOrder(types.SideBuy, 201, 200),
		limitOrder(types.SideBuy, 200, 300),
		limitOrder(types.SideSell, 200, 100),
		limitOrder(types.SideSell, 198, 200),
		limitOrder(types.SideSell, 197, 400),
	)

	result := matching.DeterminePrice(book, nil)

	require.NotNil(t, result.BidPrice)
	require.NotNil(t, result.AskPrice)
	assert.True(t, result.BidPrice.Equal(num.DecimalFromInt64(200)))
	assert.True(t, result.AskPrice.Equal(num.DecimalFromInt64(200)))
	assert.EqualValues(t, 700, result.BidQuantity)
	assert.EqualValues(t, 700, result.AskQuantity)
	assert.EqualValues(t, 0, result.BidSurplus())
	assert.EqualValues(t, 0, result.AskSurplus())
	require.NotNil(t, result.AuctionPrice)
	assert.True(t, result.AuctionPrice.Equal(num.DecimalFromInt64(200)))
}

func TestDeterminePriceBidSurplus(t *testing.T) {
	book := newTestBook(t)
	populate(t, book,
		limitOrder(types.SideBuy, 202, 400),
		limitOrder(types.SideBuy, 201, 200),
		limitOrder(types.SideSell, 199, 300),
		limitOrder(types.SideSell, 198, 200),
	)

	result := matching.DeterminePrice(book, nil)

	require.NotNil(t, result.BidPrice)
	require.NotNil(t, result.AskPrice)
	assert.True(t, result.BidPrice.Equal(num.DecimalFromInt64(201)))
	assert.True(t, result.AskPrice.Equal(num.DecimalFromInt64(199)))
	assert.EqualValues(t, 100, result.BidSurplus())
	assert.EqualValues(t, 0, result.AskSurplus())
	require.NotNil(t, result.AuctionPrice)
	assert.True(t, result.AuctionPrice.Equal(num.DecimalFromInt64(201)), "bid surplus names the price")
}

func TestDeterminePriceReferenceTieBreak(t *testing.T) {
	// market orders on both sides, limit prices do not cross
	build := func(t *testing.T) *matching.OrderBook {
		book := newTestBook(t)
		populate(t, book,
			marketOrder(types.SideBuy, 100),
			limitOrder(types.SideBuy, 199, 200),
			marketOrder(types.SideSell, 150),
			limitOrder(types.SideSell, 202, 100),
		)
		return book
	}

	t.Run("reference price matches a limit exactly", func(t *testing.T) {
		ref := num.DecimalFromInt64(199)
		result := matching.DeterminePrice(build(t), &ref)
		require.NotNil(t, result.AuctionPrice)
		assert.True(t, result.AuctionPrice.Equal(num.DecimalFromInt64(199)))
	})

	t.Run("closest limit wins", func(t *testing.T) {
		ref := num.DecimalFromInt64(200)
		result := matching.DeterminePrice(build(t), &ref)
		require.NotNil(t, result.AuctionPrice)
		assert.True(t, result.AuctionPrice.Equal(num.DecimalFromInt64(199)))
	})
}

func TestDeterminePriceReferenceDistanceTiePicksHigher(t *testing.T) {
	book := newTestBook(t)
	// crossing book, worst matchable bid 201, worst matchable ask 199
	populate(t, book,
		limitOrder(types.SideBuy, 201, 100),
		limitOrder(types.SideSell, 199, 100),
	)
	ref := num.DecimalFromInt64(200)

	result := matching.DeterminePrice(book, &ref)

	require.NotNil(t, result.AuctionPrice)
	assert.True(t, result.AuctionPrice.Equal(num.DecimalFromInt64(201)), "equidistant candidates pick the higher")
}

func TestDeterminePriceOneSideEmpty(t *testing.T) {
	t.Run("without reference no price derives", func(t *testing.T) {
		book := newTestBook(t)
		populate(t, book,
			limitOrder(types.SideBuy, 201, 100),
			limitOrder(types.SideBuy, 200, 50),
		)
		result := matching.DeterminePrice(book, nil)
		assert.Nil(t, result.AuctionPrice)
		require.NotNil(t, result.BidPrice)
		assert.True(t, result.BidPrice.Equal(num.DecimalFromInt64(201)))
		assert.EqualValues(t, 150, result.BidQuantity)
		assert.EqualValues(t, 0, result.AskQuantity)
	})

	t.Run("reference price is the fallback", func(t *testing.T) {
		book := newTestBook(t)
		populate(t, book, limitOrder(types.SideSell, 198, 100))
		ref := num.DecimalFromInt64(199)
		result := matching.DeterminePrice(book, &ref)
		require.NotNil(t, result.AuctionPrice)
		assert.True(t, result.AuctionPrice.Equal(ref))
	})
}

func TestDeterminePriceEmptyBook(t *testing.T) {
	book := newTestBook(t)

	result := matching.DeterminePrice(book, nil)
	assert.Nil(t, result.AuctionPrice)
	assert.Nil(t, result.BidPrice)
	assert.Nil(t, result.AskPrice)

	ref := num.DecimalFromInt64(150)
	result = matching.DeterminePrice(book, &ref)
	require.NotNil(t, result.AuctionPrice)
	assert.True(t, result.AuctionPrice.Equal(ref))
}

func TestUncrossExecutesMatchableVolume(t *testing.T) {
	book := newTestBook(t)
	populate(t, book,
		limitOrder(types.SideBuy, 202, 200),
		limitOrder(types.SideBuy, 201, 200),
		limitOrder(types.SideBuy, 200, 300),
		limitOrder(types.SideSell, 200, 100),
		limitOrder(types.SideSell, 198, 200),
		limitOrder(types.SideSell, 197, 400),
	)

	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	trades, err := book.Uncross(num.DecimalFromInt64(200), now)
	require.NoError(t, err)

	var volume uint64
	for _, trade := range trades {
		volume += trade.Size
		assert.True(t, trade.Price.Equal(num.DecimalFromInt64(200)))
	}
	assert.EqualValues(t, 700, volume)
	assert.EqualValues(t, 0, book.BuySide().TotalVolume())
	assert.EqualValues(t, 0, book.SellSide().TotalVolume())
}
