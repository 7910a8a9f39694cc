package events

import (
	"context"
	"sync/atomic"
)

// Type of an event emitted on the broker.
type Type int

const (
	// All is used by subscribers that want every event, it has no payload
	// of its own.
	All Type = iota
	TimeUpdate
	StateChangedEvent
	RunTypeChangedEvent
	VolatilityInterruptionEvent
)

var eventStrings = map[Type]string{
	All:                         "ALL",
	TimeUpdate:                  "TimeUpdate",
	StateChangedEvent:           "StateChanged",
	RunTypeChangedEvent:         "RunTypeChanged",
	VolatilityInterruptionEvent: "VolatilityInterruption",
}

func (t Type) String() string {
	return eventStrings[t]
}

// Event is the common denominator all broker events share.
type Event interface {
	Type() Type
	Context() context.Context
	Sequence() uint64
}

var eventSeq uint64

// Base common denominator all events embed.
type Base struct {
	ctx context.Context
	seq uint64
	et  Type
}

func newBase(ctx context.Context, t Type) *Base {
	return &Base{
		ctx: ctx,
		seq: atomic.AddUint64(&eventSeq, 1),
		et:  t,
	}
}

// Sequence returns the event sequence number.
func (b Base) Sequence() uint64 {
	return b.seq
}

// Context returns the context the event was raised with.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}
