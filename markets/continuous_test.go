package markets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

func midOrder(side types.Side, size, minFill uint64) types.Order {
	o := newOrder(side, 0, size)
	o.Type = types.OrderTypeMidpoint
	o.Price = num.DecimalZero()
	o.MinFillSize = minFill
	return o
}

func TestContinuousRejectsWhileStopped(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))

	res, _ := m.Continuous().SubmitOrder(midOrder(types.SideBuy, 100, 0), types.SubmitTypeNew)
	assert.Equal(t, types.SubmitOutcomeReject, res.Outcome)
}

func TestContinuousRejectsNonMidpointEntries(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	require.NoError(t, m.Continuous().Start())

	res, trades := m.Continuous().SubmitOrder(newOrder(types.SideBuy, 200, 100), types.SubmitTypeNew)
	assert.Equal(t, types.SubmitOutcomeReject, res.Outcome)
	assert.Equal(t, types.RejectReasonUnsupportedOrderType, res.Reason)
	assert.Empty(t, trades)
}

func TestContinuousMidpointMatchAndRest(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	// limit orders on both sides establish the midpoint (198+202)/2 = 200
	require.NoError(t, m.Book().AddOrder(newOrder(types.SideBuy, 198, 10)))
	require.NoError(t, m.Book().AddOrder(newOrder(types.SideSell, 202, 10)))
	require.NoError(t, m.Continuous().Start())

	res, trades := m.Continuous().SubmitOrder(midOrder(types.SideSell, 100, 0), types.SubmitTypeNew)
	require.Equal(t, types.SubmitOutcomeOK, res.Outcome)
	assert.Empty(t, trades, "nothing standing on the other side yet")

	res, trades = m.Continuous().SubmitOrder(midOrder(types.SideBuy, 140, 0), types.SubmitTypeNew)
	require.Equal(t, types.SubmitOutcomeOK, res.Outcome)
	require.Len(t, trades, 1)
	assert.EqualValues(t, 100, trades[0].Size)
	assert.True(t, trades[0].Price.Equal(num.DecimalFromInt64(200)))

	// the unfilled 40 rests on the buy midpoint queue
	resting := m.Book().MidpointOrders(types.SideBuy)
	require.Len(t, resting, 1)
	assert.EqualValues(t, 40, resting[0].Remaining)
	assert.Empty(t, m.Book().MidpointOrders(types.SideSell))
}

func TestContinuousRestsWhenNoMidpointAvailable(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	require.NoError(t, m.Continuous().Start())

	res, trades := m.Continuous().SubmitOrder(midOrder(types.SideBuy, 100, 0), types.SubmitTypeNew)
	require.Equal(t, types.SubmitOutcomeOK, res.Outcome)
	assert.Empty(t, trades)
	require.Len(t, m.Book().MidpointOrders(types.SideBuy), 1)
}
