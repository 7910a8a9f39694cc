package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/halcyon/matching"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

func TestOrderBookClosedRefusesEverything(t *testing.T) {
	book := newTestBook(t)
	resting := limitOrder(types.SideBuy, 100, 10)
	require.NoError(t, book.AddOrder(resting))

	book.Close()
	assert.ErrorIs(t, book.AddOrder(limitOrder(types.SideBuy, 100, 10)), matching.ErrBookClosed)
	_, err := book.RemoveOrder(resting.ID)
	assert.ErrorIs(t, err, matching.ErrBookClosed)
	assert.ErrorIs(t, book.AmendOrder(resting), matching.ErrBookClosed)

	book.Open()
	_, err = book.RemoveOrder(resting.ID)
	assert.NoError(t, err)
}

func TestOrderBookRemoveUnknownOrder(t *testing.T) {
	book := newTestBook(t)
	_, err := book.RemoveOrder("no-such-order")
	assert.ErrorIs(t, err, matching.ErrOrderNotFound)
}

func TestOrderBookAmendLosesTimePriority(t *testing.T) {
	book := newTestBook(t)
	first := limitOrder(types.SideBuy, 100, 10)
	second := limitOrder(types.SideBuy, 100, 20)
	require.NoError(t, book.AddOrder(first))
	require.NoError(t, book.AddOrder(second))

	amended := first.WithRemaining(5)
	amended.Size = 5
	require.NoError(t, book.AmendOrder(amended))

	orders := book.BuySide().Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID, "amended order moved to the back of the level")
	assert.Equal(t, first.ID, orders[1].ID)
	assert.EqualValues(t, 5, orders[1].Remaining)
}

func TestOrderBookMidpointPrice(t *testing.T) {
	book := newTestBook(t)
	_, err := book.MidpointPrice()
	assert.ErrorIs(t, err, matching.ErrNoMidpointPrice)

	require.NoError(t, book.AddOrder(limitOrder(types.SideBuy, 198, 10)))
	_, err = book.MidpointPrice()
	assert.ErrorIs(t, err, matching.ErrNoMidpointPrice)

	require.NoError(t, book.AddOrder(limitOrder(types.SideSell, 202, 10)))
	mid, err := book.MidpointPrice()
	require.NoError(t, err)
	assert.True(t, mid.Equal(num.DecimalFromInt64(200)))
}

func TestOrderBookRemovesMidpointOrders(t *testing.T) {
	book := newTestBook(t)
	mo := limitOrder(types.SideSell, 0, 50)
	mo.Type = types.OrderTypeMidpoint
	mo.Price = num.DecimalZero()
	require.NoError(t, book.AddOrder(mo))
	require.Len(t, book.MidpointOrders(types.SideSell), 1)

	removed, err := book.RemoveOrder(mo.ID)
	require.NoError(t, err)
	assert.Equal(t, mo.ID, removed.ID)
	assert.Empty(t, book.MidpointOrders(types.SideSell))
}
