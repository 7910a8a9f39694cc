package broker

import (
	"context"

	"github.com/halcyonmkt/halcyon/events"
)

// SubscriberBase carries the plumbing shared by all subscribers; embedders
// supply Push and Types.
type SubscriberBase struct {
	ctx   context.Context
	cfunc context.CancelFunc
	ch    chan []events.Event
	ack   bool
	id    int
}

// NewSubscriberBase returns the base for a subscriber. Ack'd subscribers
// receive events synchronously through Push, others own a draining routine
// over C.
func NewSubscriberBase(ctx context.Context, buf int, ack bool) *SubscriberBase {
	ctx, cfunc := context.WithCancel(ctx)
	return &SubscriberBase{
		ctx:   ctx,
		cfunc: cfunc,
		ch:    make(chan []events.Event, buf),
		ack:   ack,
	}
}

// Ack returns whether this is a synchronous subscriber.
func (b *SubscriberBase) Ack() bool {
	return b.ack
}

// C returns the event channel for optional subscribers.
func (b *SubscriberBase) C() chan<- []events.Event {
	return b.ch
}

// Ch is the receiving end for the owner's draining routine.
func (b *SubscriberBase) Ch() <-chan []events.Event {
	return b.ch
}

// Closed indicates to the broker that the subscriber is closed for
// business.
func (b *SubscriberBase) Closed() <-chan struct{} {
	return b.ctx.Done()
}

// Halt shuts the subscriber down.
func (b *SubscriberBase) Halt() {
	b.cfunc()
}

func (b *SubscriberBase) SetID(id int) {
	b.id = id
}

func (b *SubscriberBase) ID() int {
	return b.id
}
