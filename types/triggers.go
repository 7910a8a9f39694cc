package types

import (
	"fmt"
	"time"
)

// InitiatorType tags what kicks a trading-phase trigger off.
type InitiatorType int

const (
	InitiatorTypeFixedTime InitiatorType = iota
	InitiatorTypeWaitForState
)

func (t InitiatorType) String() string {
	if t == InitiatorTypeWaitForState {
		return "WAIT_FOR_STATE"
	}
	return "FIXED_TIME"
}

// RunType identifies what kind of session a trading form is running.
type RunType int

const (
	RunTypeUnspecified RunType = iota
	RunTypeOpeningAuction
	RunTypeIntradayAuction
	RunTypeClosingAuction
	RunTypeContinuousTrading
)

var runTypeNames = map[RunType]string{
	RunTypeUnspecified:       "UNSPECIFIED",
	RunTypeOpeningAuction:    "OPENING_AUCTION",
	RunTypeIntradayAuction:   "INTRADAY_AUCTION",
	RunTypeClosingAuction:    "CLOSING_AUCTION",
	RunTypeContinuousTrading: "CONTINUOUS_TRADING",
}

func (t RunType) String() string {
	return runTypeNames[t]
}

// TradingPhaseTrigger is one immutable step of a trading-form schedule: a
// target-state transition to perform, initiated either at a fixed wall-clock
// time or when a predecessor state is reached. Exactly one of FixedTime and
// WaitForState is set, per Initiator.
type TradingPhaseTrigger struct {
	FormID       string
	TargetState  TradingFormState
	RunType      RunType
	Initiator    InitiatorType
	FixedTime    *time.Time
	WaitForState TradingFormState
	// WaitForFormID names the form whose state is being waited on, which
	// may differ from the form this trigger acts upon.
	WaitForFormID string
}

// NewFixedTimeTrigger builds a trigger fired at a fixed wall-clock time.
func NewFixedTimeTrigger(formID string, target TradingFormState, rt RunType, at time.Time) TradingPhaseTrigger {
	return TradingPhaseTrigger{
		FormID:      formID,
		TargetState: target,
		RunType:     rt,
		Initiator:   InitiatorTypeFixedTime,
		FixedTime:   &at,
	}
}

// NewWaitForStateTrigger builds a trigger fired when waitForm reports
// predecessor as its current state.
func NewWaitForStateTrigger(formID string, target TradingFormState, rt RunType, waitFormID string, predecessor TradingFormState) TradingPhaseTrigger {
	return TradingPhaseTrigger{
		FormID:        formID,
		TargetState:   target,
		RunType:       rt,
		Initiator:     InitiatorTypeWaitForState,
		WaitForState:  predecessor,
		WaitForFormID: waitFormID,
	}
}

func (t TradingPhaseTrigger) String() string {
	if t.Initiator == InitiatorTypeFixedTime {
		return fmt.Sprintf("%s->%s at %s", t.FormID, t.TargetState, t.FixedTime.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s->%s after %s=%s", t.FormID, t.TargetState, t.WaitForFormID, t.WaitForState)
}
