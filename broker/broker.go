package broker

import (
	"context"
	"sync"
	"time"

	"github.com/halcyonmkt/halcyon/events"
	"github.com/halcyonmkt/halcyon/logging"
)

// Subscriber interface allows pushing values to subscribers. Subscribers
// with Ack set receive events synchronously via Push, the rest get them on
// their channel, best effort.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks github.com/halcyonmkt/halcyon/broker Subscriber
type Subscriber interface {
	Push(evts ...events.Event)
	C() chan<- []events.Event
	Closed() <-chan struct{}
	Types() []events.Type
	SetID(id int)
	ID() int
	Ack() bool
}

type subscription struct {
	Subscriber
	required bool
}

// Broker routes raised events to registered subscribers by event type. The
// core never blocks on delivery: optional subscribers that cannot keep up
// have their events dropped after a short grace period.
type Broker struct {
	ctx context.Context
	log *logging.Logger

	mu    sync.Mutex
	tSubs map[events.Type]map[int]*subscription
	// subs ensures a unique ID for all subscribers regardless of the event
	// types they subscribe to
	subs   map[int]subscription
	nextID int
}

// New creates a new broker.
func New(ctx context.Context, log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Broker{
		ctx:   ctx,
		log:   log,
		tSubs: map[events.Type]map[int]*subscription{},
		subs:  map[int]subscription{},
	}
}

// Send routes a single event to the interested subscribers.
func (b *Broker) Send(evt events.Event) {
	b.mu.Lock()
	subs := b.getSubsByType(evt.Type())
	b.mu.Unlock()
	for _, sub := range subs {
		if sub.required {
			sub.Push(evt)
			continue
		}
		b.sendChannel(sub.Subscriber, evt)
	}
}

// SendBatch routes a batch of events sharing one type.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	for _, e := range evts {
		b.Send(e)
	}
}

func (b *Broker) sendChannel(sub Subscriber, evt events.Event) {
	timeout := time.NewTimer(time.Second)
	defer func() {
		if !timeout.Stop() {
			<-timeout.C
		}
	}()
	select {
	case <-b.ctx.Done():
	case <-sub.Closed():
	case sub.C() <- []events.Event{evt}:
	case <-timeout.C:
		if b.log.IsDebug() {
			b.log.Debug("dropping event for slow subscriber",
				logging.Int("subscriber-id", sub.ID()),
				logging.String("event-type", evt.Type().String()))
		}
	}
}

func (b *Broker) getSubsByType(t events.Type) []*subscription {
	subs := make([]*subscription, 0, len(b.tSubs[t])+len(b.tSubs[events.All]))
	for _, s := range b.tSubs[t] {
		subs = append(subs, s)
	}
	for _, s := range b.tSubs[events.All] {
		subs = append(subs, s)
	}
	return subs
}

// Subscribe registers a subscriber and returns its key, used to
// unsubscribe.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	k := b.nextID
	s.SetID(k)
	sub := subscription{
		Subscriber: s,
		required:   s.Ack(),
	}
	b.subs[k] = sub
	for _, t := range sub.Types() {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]*subscription{}
		}
		b.tSubs[t][k] = &sub
	}
	return k
}

// Unsubscribe removes a subscriber by key, a no-op for unknown keys.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[k]
	if !ok {
		return
	}
	for _, t := range sub.Types() {
		delete(b.tSubs[t], k)
	}
	delete(b.subs, k)
}
