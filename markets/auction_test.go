package markets_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/halcyon/events"
	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/markets"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

// recordingBroker keeps every event it is handed, in order.
type recordingBroker struct {
	events []events.Event
}

func (b *recordingBroker) Send(evt events.Event) {
	b.events = append(b.events, evt)
}

func wideGuard(t *testing.T) *price.Guard {
	t.Helper()
	guard, err := price.NewGuard(logging.NewTestLogger(), price.NewDefaultConfig(),
		types.NewPriceRange(num.DecimalFromInt64(200), num.DecimalFromInt64(50)),
		types.NewPriceRange(num.DecimalFromInt64(200), num.DecimalFromInt64(25)))
	require.NoError(t, err)
	return guard
}

func tightGuard(t *testing.T) *price.Guard {
	t.Helper()
	// both ranges sit around 100, any price near 200 interrupts
	guard, err := price.NewGuard(logging.NewTestLogger(), price.NewDefaultConfig(),
		types.NewPriceRange(num.DecimalFromInt64(100), num.DecimalFromInt64(10)),
		types.NewPriceRange(num.DecimalFromInt64(100), num.DecimalFromInt64(5)))
	require.NoError(t, err)
	return guard
}

func newTestMarket(t *testing.T, guard *price.Guard) (*markets.Market, *recordingBroker) {
	t.Helper()
	brk := &recordingBroker{}
	m := markets.NewMarket(logging.NewTestLogger(), markets.NewDefaultConfig(), "MKT-1", brk, guard, time.Now)
	return m, brk
}

var auctionOrderSeq int

func newOrder(side types.Side, price float64, size uint64) types.Order {
	auctionOrderSeq++
	return types.Order{
		ID:        fmt.Sprintf("ord-%03d", auctionOrderSeq),
		MarketID:  "MKT-1",
		Party:     "party-1",
		Side:      side,
		Type:      types.OrderTypeLimit,
		Price:     num.DecimalFromFloat(price),
		Size:      size,
		Remaining: size,
	}
}

func TestAuctionRejectsEntryOutsideCallPhase(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))

	res := m.SubmitOrder(newOrder(types.SideBuy, 200, 100), types.SubmitTypeNew)
	assert.Equal(t, types.SubmitOutcomeReject, res.Outcome)
	assert.Equal(t, types.RejectReasonCallPhaseNotOpen, res.Reason)

	require.NoError(t, m.Auction().StartCallPhase())
	res = m.SubmitOrder(newOrder(types.SideBuy, 200, 100), types.SubmitTypeNew)
	assert.Equal(t, types.SubmitOutcomeOK, res.Outcome)
}

func TestAuctionDeterminePriceUncrosses(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	a := m.Auction()

	require.NoError(t, a.StartCallPhase())
	for _, o := range []types.Order{
		newOrder(types.SideBuy, 202, 200),
		newOrder(types.SideBuy, 200, 300),
		newOrder(types.SideSell, 200, 100),
		newOrder(types.SideSell, 198, 200),
	} {
		res := m.SubmitOrder(o, types.SubmitTypeNew)
		require.Equal(t, types.SubmitOutcomeOK, res.Outcome)
	}
	require.NoError(t, a.StopCallPhase())

	trades, err := a.DeterminePrice()
	require.NoError(t, err)
	assert.NotEmpty(t, trades)
	assert.Equal(t, types.AuctionStatePriceDeterminationStopped, a.State())

	result := a.LastResult()
	require.NotNil(t, result)
	require.NotNil(t, result.AuctionPrice)
	assert.True(t, result.AuctionPrice.Equal(num.DecimalFromInt64(200)))

	var executed uint64
	for _, tr := range trades {
		executed += tr.Size
		assert.True(t, tr.Price.Equal(num.DecimalFromInt64(200)))
	}
	assert.EqualValues(t, 300, executed)
}

func TestAuctionVolatilityInterruptionSkipsUncross(t *testing.T) {
	m, brk := newTestMarket(t, tightGuard(t))
	a := m.Auction()

	require.NoError(t, a.StartCallPhase())
	m.SubmitOrder(newOrder(types.SideBuy, 200, 100), types.SubmitTypeNew)
	m.SubmitOrder(newOrder(types.SideSell, 200, 100), types.SubmitTypeNew)
	require.NoError(t, a.StopCallPhase())

	trades, err := a.DeterminePrice()
	require.NoError(t, err)
	assert.Empty(t, trades, "interrupted determination must not trade")
	assert.Equal(t, types.AuctionStatePriceDeterminationStopped, a.State())

	var interruptions []*events.VolatilityInterruption
	for _, evt := range brk.events {
		if vi, ok := evt.(*events.VolatilityInterruption); ok {
			interruptions = append(interruptions, vi)
		}
	}
	require.Len(t, interruptions, 1)
	assert.True(t, interruptions[0].Interruption().IndicativePrice.Equal(num.DecimalFromInt64(200)))
}

func TestAuctionBalanceOrderbookTradesAtDeterminedPrice(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	a := m.Auction()

	require.NoError(t, a.StartCallPhase())
	m.SubmitOrder(newOrder(types.SideBuy, 200, 100), types.SubmitTypeNew)
	m.SubmitOrder(newOrder(types.SideSell, 200, 100), types.SubmitTypeNew)
	require.NoError(t, a.StopCallPhase())
	_, err := a.DeterminePrice()
	require.NoError(t, err)

	// surplus arriving between determination and balancing
	m.Book().Open()
	require.NoError(t, m.Book().AddOrder(newOrder(types.SideBuy, 200, 50)))
	require.NoError(t, m.Book().AddOrder(newOrder(types.SideSell, 200, 50)))

	trades, err := a.BalanceOrderbook()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.EqualValues(t, 50, trades[0].Size)
	assert.True(t, trades[0].Price.Equal(num.DecimalFromInt64(200)))
	assert.Equal(t, types.AuctionStateOrderbookBalancingStopped, a.State())
}

func TestAuctionBalanceWithoutPriceFails(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	a := m.Auction()

	_, err := a.BalanceOrderbook()
	require.Error(t, err)
	assert.ErrorIs(t, err, markets.ErrNoAuctionPrice)
	assert.Equal(t, types.AuctionStateOrderbookBalancingStopped, a.State())
}

func TestAuctionRunTypeChangeNotifies(t *testing.T) {
	m, brk := newTestMarket(t, wideGuard(t))

	m.Auction().SetRunType(types.RunTypeOpeningAuction)
	m.Auction().SetRunType(types.RunTypeOpeningAuction) // no-op

	var changes []*events.RunTypeChanged
	for _, evt := range brk.events {
		if rc, ok := evt.(*events.RunTypeChanged); ok {
			changes = append(changes, rc)
		}
	}
	require.Len(t, changes, 1)
	assert.Equal(t, types.RunTypeUnspecified, changes[0].Previous())
	assert.Equal(t, types.RunTypeOpeningAuction, changes[0].Current())
}

func TestMarketValidatorChainRejectsBeforeRouting(t *testing.T) {
	m, _ := newTestMarket(t, wideGuard(t))
	m.SetValidators(
		markets.MinimumSizeValidator{MinimumSize: 10},
		markets.GoodTilDateValidator{MaxWindow: 24 * time.Hour},
	)
	require.NoError(t, m.Auction().StartCallPhase())

	res := m.SubmitOrder(newOrder(types.SideBuy, 200, 5), types.SubmitTypeNew)
	assert.Equal(t, types.SubmitOutcomeReject, res.Outcome)
	assert.Equal(t, types.RejectReasonBelowMinimumSize, res.Reason)

	expired := newOrder(types.SideBuy, 200, 100)
	expired.TIF = types.TimeInForceGTD
	expired.GoodTilDate = time.Now().Add(-time.Hour)
	res = m.SubmitOrder(expired, types.SubmitTypeNew)
	assert.Equal(t, types.SubmitOutcomeReject, res.Outcome)
	assert.Equal(t, types.RejectReasonInvalidGoodTilDate, res.Reason)
}

func TestMarketStateChangesReachBroker(t *testing.T) {
	m, brk := newTestMarket(t, wideGuard(t))

	require.NoError(t, m.Auction().StartCallPhase())
	require.NoError(t, m.Auction().StopCallPhase())

	var states []*events.StateChanged
	for _, evt := range brk.events {
		if sc, ok := evt.(*events.StateChanged); ok {
			states = append(states, sc)
		}
	}
	require.Len(t, states, 2)
	assert.Equal(t, types.AuctionStateCallRunning, states[0].Current())
	assert.Equal(t, types.AuctionStateCallStopped, states[1].Current())
}
