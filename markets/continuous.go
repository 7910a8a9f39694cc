package markets

import (
	"time"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/matching"
	"github.com/halcyonmkt/halcyon/metrics"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/types"
)

func continuousTable() types.TransitionTable {
	return types.TransitionTable{
		types.ContinuousTradingStateStopped: {
			types.ContinuousTradingStateRunning,
		},
		types.ContinuousTradingStateRunning: {
			types.ContinuousTradingStateStopped,
		},
	}
}

// ContinuousTrading is the continuous trading form. Full price/time
// priority matching is not part of this engine; while running, the form
// provides the midpoint order facility only.
type ContinuousTrading struct {
	log   *logging.Logger
	form  *TradingForm
	book  *matching.OrderBook
	guard *price.Guard
	now   func() time.Time
}

// NewContinuousTrading builds a stopped continuous form over the book.
func NewContinuousTrading(log *logging.Logger, id string, book *matching.OrderBook, guard *price.Guard, now func() time.Time) *ContinuousTrading {
	return &ContinuousTrading{
		log:   log,
		form:  NewTradingForm(id, types.ContinuousTradingStateStopped, continuousTable()),
		book:  book,
		guard: guard,
		now:   now,
	}
}

func (c *ContinuousTrading) ID() string {
	return c.form.ID()
}

func (c *ContinuousTrading) State() types.TradingFormState {
	return c.form.State()
}

func (c *ContinuousTrading) Form() *TradingForm {
	return c.form
}

// Start begins continuous trading.
func (c *ContinuousTrading) Start() error {
	return c.form.TransitionTo(types.ContinuousTradingStateRunning)
}

// Stop halts continuous trading.
func (c *ContinuousTrading) Stop() error {
	return c.form.TransitionTo(types.ContinuousTradingStateStopped)
}

// SubmitOrder handles midpoint orders while the form runs: the incoming
// order matches immediately against the standing midpoint queue on the
// other side, any leftover quantity joins its own side's queue.
func (c *ContinuousTrading) SubmitOrder(o types.Order, st types.SubmitType) (types.SubmitResult, []types.Trade) {
	if c.form.State() != types.ContinuousTradingStateRunning {
		return types.SubmitReject(types.RejectReasonCallPhaseNotOpen), nil
	}
	switch st {
	case types.SubmitTypeModify:
		if err := c.book.AmendOrder(o); err != nil {
			return types.SubmitError(types.RejectReasonNone), nil
		}
		return types.SubmitOK(), nil
	case types.SubmitTypeCancel:
		if _, err := c.book.RemoveOrder(o.ID); err != nil {
			return types.SubmitError(types.RejectReasonNone), nil
		}
		return types.SubmitOK(), nil
	}
	if o.Type != types.OrderTypeMidpoint {
		return types.SubmitReject(types.RejectReasonUnsupportedOrderType), nil
	}

	midpoint, err := c.book.MidpointPrice()
	if err != nil {
		// no midpoint to price against, the order just rests
		if err := c.book.AddOrder(o); err != nil {
			return types.SubmitError(types.RejectReasonNone), nil
		}
		return types.SubmitOK(), nil
	}

	match, err := matching.MatchMidpoint(c.log, o, c.book, midpoint, c.guard, c.now())
	if err != nil {
		c.log.Error("midpoint match failed",
			logging.String("order-id", o.ID),
			logging.Error(err))
		return types.SubmitError(types.RejectReasonNone), nil
	}
	metrics.TradesAdd(c.book.MarketID(), len(match.Trades))
	if !match.Incoming.Filled() {
		if err := c.book.AddOrder(match.Incoming); err != nil {
			return types.SubmitError(types.RejectReasonNone), match.Trades
		}
	}
	return types.SubmitOK(), match.Trades
}
