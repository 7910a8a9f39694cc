package markets

import (
	"fmt"

	"github.com/halcyonmkt/halcyon/types"
)

// InvalidTransitionError reports a transition request the allowed table
// does not permit. The form's state is left unchanged and the request is
// never retried automatically.
type InvalidTransitionError struct {
	FormID  string
	From    types.TradingFormState
	To      types.TradingFormState
	Allowed []types.TradingFormState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("form %s: transition %s -> %s not allowed (allowed: %v)",
		e.FormID, e.From, e.To, e.Allowed)
}

// StateChangeListener receives the (previous, current) pair after every
// effective transition. A nil listener is a no-op.
type StateChangeListener func(prev, cur types.TradingFormState)

// TradingForm is the state-machine core shared by all trading forms. Each
// concrete form supplies its own transition table and its default state,
// which must be an inactive one. The form is the sole writer of its
// current state.
type TradingForm struct {
	id       string
	state    types.TradingFormState
	table    types.TransitionTable
	listener StateChangeListener
}

// NewTradingForm builds a form sitting in its initial state.
func NewTradingForm(id string, initial types.TradingFormState, table types.TransitionTable) *TradingForm {
	if initial.Active() {
		panic(fmt.Sprintf("form %s: initial state %s must be inactive", id, initial))
	}
	return &TradingForm{
		id:    id,
		state: initial,
		table: table,
	}
}

func (f *TradingForm) ID() string {
	return f.id
}

// State returns the current state.
func (f *TradingForm) State() types.TradingFormState {
	return f.state
}

// OnStateChange registers the listener notified after each transition.
func (f *TradingForm) OnStateChange(l StateChangeListener) {
	f.listener = l
}

// TransitionTo moves the form to target. A self-transition succeeds
// silently without notifying the listener. A target missing from the
// allowed set fails with *InvalidTransitionError, state untouched.
func (f *TradingForm) TransitionTo(target types.TradingFormState) error {
	if target == f.state {
		return nil
	}
	if !f.table.Allowed(f.state, target) {
		return &InvalidTransitionError{
			FormID:  f.id,
			From:    f.state,
			To:      target,
			Allowed: f.table.Targets(f.state),
		}
	}
	prev := f.state
	f.state = target
	if f.listener != nil {
		f.listener(prev, target)
	}
	return nil
}
