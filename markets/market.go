package markets

import (
	"context"
	"time"

	"github.com/halcyonmkt/halcyon/events"
	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/matching"
	"github.com/halcyonmkt/halcyon/metrics"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/types"
)

// Broker is the slice of the event broker a market needs.
type Broker interface {
	Send(evt events.Event)
}

// Market owns one auction form and one continuous form over a single order
// book and volatility guard. It wires form notifications onto the broker
// and fronts the order submission boundary. All mutation happens on the
// owning runner's event worker, so the market holds no locks.
type Market struct {
	log *logging.Logger
	id  string

	broker Broker
	book   *matching.OrderBook
	guard  *price.Guard

	auction    *Auction
	continuous *ContinuousTrading

	validators []OrderValidator
	now        func() time.Time
}

// NewMarket assembles a market. The two forms start in their inactive
// default states; never are both active at once, the schedule commands
// close one before starting the other.
func NewMarket(log *logging.Logger, config Config, id string, brk Broker, guard *price.Guard, now func() time.Time) *Market {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	book := matching.NewOrderBook(log, config.Matching, id)
	m := &Market{
		log:        log,
		id:         id,
		broker:     brk,
		book:       book,
		guard:      guard,
		auction:    NewAuction(log, id+"-auction", book, guard, now),
		continuous: NewContinuousTrading(log, id+"-continuous", book, guard, now),
		now:        now,
	}
	m.auction.Form().OnStateChange(m.stateListener(m.auction.Form()))
	m.continuous.Form().OnStateChange(m.stateListener(m.continuous.Form()))
	m.auction.OnRunTypeChange(func(prev, cur types.RunType) {
		m.broker.Send(events.NewRunTypeChanged(context.Background(), m.auction.ID(), prev, cur))
	})
	m.auction.OnVolatilityInterruption(func(vi types.VolatilityInterruption) {
		m.broker.Send(events.NewVolatilityInterruption(context.Background(), m.id, vi))
	})
	return m
}

func (m *Market) stateListener(form *TradingForm) StateChangeListener {
	return func(prev, cur types.TradingFormState) {
		metrics.TransitionInc(form.ID(), cur.String())
		m.broker.Send(events.NewStateChanged(context.Background(), form.ID(), prev, cur, m.now()))
	}
}

func (m *Market) ID() string {
	return m.id
}

func (m *Market) Auction() *Auction {
	return m.auction
}

func (m *Market) Continuous() *ContinuousTrading {
	return m.continuous
}

func (m *Market) Book() *matching.OrderBook {
	return m.book
}

func (m *Market) Guard() *price.Guard {
	return m.guard
}

// SetValidators installs the pre-submission filter chain.
func (m *Market) SetValidators(vs ...OrderValidator) {
	m.validators = vs
}

// SubmitOrder is the market's submission boundary. Validation failures
// come back as structured rejects, never faults. New orders route to
// whichever form currently accepts entries.
func (m *Market) SubmitOrder(o types.Order, st types.SubmitType) types.SubmitResult {
	now := m.now()
	if st == types.SubmitTypeNew {
		for _, v := range m.validators {
			if reason := v.Validate(o, now); reason != types.RejectReasonNone {
				metrics.RejectedOrderInc(m.id, reason.String())
				return types.SubmitReject(reason)
			}
		}
	}

	if m.auction.State().Active() || m.auction.State() == types.AuctionStateCallRunning {
		res := m.auction.SubmitOrder(o, st)
		if res.Outcome != types.SubmitOutcomeOK {
			metrics.RejectedOrderInc(m.id, res.Reason.String())
		}
		return res
	}
	if m.continuous.State().Active() {
		res, _ := m.continuous.SubmitOrder(o, st)
		if res.Outcome != types.SubmitOutcomeOK {
			metrics.RejectedOrderInc(m.id, res.Reason.String())
		}
		return res
	}

	// no form is accepting entries
	if st != types.SubmitTypeNew {
		res := m.auction.SubmitOrder(o, st)
		return res
	}
	metrics.RejectedOrderInc(m.id, types.RejectReasonCallPhaseNotOpen.String())
	return types.SubmitReject(types.RejectReasonCallPhaseNotOpen)
}
