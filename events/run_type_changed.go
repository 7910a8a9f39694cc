package events

import (
	"context"

	"github.com/halcyonmkt/halcyon/types"
)

// RunTypeChanged is emitted when a trading form switches the kind of
// session it is running, e.g. opening auction to continuous trading.
type RunTypeChanged struct {
	*Base
	formID   string
	previous types.RunType
	current  types.RunType
}

// NewRunTypeChanged creates a new run-type-changed event.
func NewRunTypeChanged(ctx context.Context, formID string, prev, cur types.RunType) *RunTypeChanged {
	return &RunTypeChanged{
		Base:     newBase(ctx, RunTypeChangedEvent),
		formID:   formID,
		previous: prev,
		current:  cur,
	}
}

func (e RunTypeChanged) FormID() string {
	return e.formID
}

func (e RunTypeChanged) Previous() types.RunType {
	return e.previous
}

func (e RunTypeChanged) Current() types.RunType {
	return e.current
}
