package markets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/halcyon/markets"
	"github.com/halcyonmkt/halcyon/types"
)

func TestTradingFormAllowsOnlyTabledTransitions(t *testing.T) {
	table := types.TransitionTable{
		types.AuctionStateInactive:    {types.AuctionStateCallRunning},
		types.AuctionStateCallRunning: {types.AuctionStateCallStopped},
		types.AuctionStateCallStopped: {types.AuctionStateInactive},
	}
	form := markets.NewTradingForm("form-1", types.AuctionStateInactive, table)

	require.NoError(t, form.TransitionTo(types.AuctionStateCallRunning))
	assert.Equal(t, types.AuctionStateCallRunning, form.State())

	err := form.TransitionTo(types.AuctionStateInactive)
	require.Error(t, err)
	var ite *markets.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "form-1", ite.FormID)
	assert.Equal(t, types.AuctionStateCallRunning, ite.From)
	assert.Equal(t, types.AuctionStateInactive, ite.To)
	assert.Equal(t, types.AuctionStateCallRunning, form.State(), "state untouched after a refused transition")
}

func TestTradingFormSelfTransitionIsSilent(t *testing.T) {
	table := types.TransitionTable{
		types.ContinuousTradingStateStopped: {types.ContinuousTradingStateRunning},
		types.ContinuousTradingStateRunning: {types.ContinuousTradingStateStopped},
	}
	form := markets.NewTradingForm("form-1", types.ContinuousTradingStateStopped, table)

	var notified int
	form.OnStateChange(func(prev, cur types.TradingFormState) {
		notified++
	})

	require.NoError(t, form.TransitionTo(types.ContinuousTradingStateStopped))
	assert.Zero(t, notified, "self-transition must not notify")

	require.NoError(t, form.TransitionTo(types.ContinuousTradingStateRunning))
	assert.Equal(t, 1, notified)
}

func TestTradingFormNotifiesPrevAndCurrent(t *testing.T) {
	table := types.TransitionTable{
		types.AuctionStateInactive:    {types.AuctionStateCallRunning},
		types.AuctionStateCallRunning: {},
	}
	form := markets.NewTradingForm("form-1", types.AuctionStateInactive, table)

	var gotPrev, gotCur types.TradingFormState
	form.OnStateChange(func(prev, cur types.TradingFormState) {
		gotPrev, gotCur = prev, cur
	})

	require.NoError(t, form.TransitionTo(types.AuctionStateCallRunning))
	assert.Equal(t, types.AuctionStateInactive, gotPrev)
	assert.Equal(t, types.AuctionStateCallRunning, gotCur)
}

func TestTradingFormRejectsActiveInitialState(t *testing.T) {
	assert.Panics(t, func() {
		markets.NewTradingForm("form-1", types.AuctionStateCallRunning, types.TransitionTable{})
	})
}
