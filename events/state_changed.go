package events

import (
	"context"
	"time"

	"github.com/halcyonmkt/halcyon/types"
)

// StateChanged is emitted by a trading form whenever a transition to a new
// state completes.
type StateChanged struct {
	*Base
	formID    string
	previous  types.TradingFormState
	current   types.TradingFormState
	timestamp time.Time
}

// NewStateChanged creates a new state-changed event.
func NewStateChanged(ctx context.Context, formID string, prev, cur types.TradingFormState, now time.Time) *StateChanged {
	return &StateChanged{
		Base:      newBase(ctx, StateChangedEvent),
		formID:    formID,
		previous:  prev,
		current:   cur,
		timestamp: now,
	}
}

func (e StateChanged) FormID() string {
	return e.formID
}

func (e StateChanged) Previous() types.TradingFormState {
	return e.previous
}

func (e StateChanged) Current() types.TradingFormState {
	return e.current
}

func (e StateChanged) Timestamp() time.Time {
	return e.timestamp
}
