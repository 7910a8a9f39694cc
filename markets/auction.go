package markets

import (
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/matching"
	"github.com/halcyonmkt/halcyon/metrics"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

// ErrNoAuctionPrice signals that price determination produced no price so
// the book cannot be uncrossed or balanced.
var ErrNoAuctionPrice = errors.New("no auction price determined")

// auctionTable is the allowed-transition table of the auction form.
func auctionTable() types.TransitionTable {
	return types.TransitionTable{
		types.AuctionStateInactive: {
			types.AuctionStateCallRunning,
			types.AuctionStatePriceDeterminationRunning,
			types.AuctionStateOrderbookBalancingRunning,
		},
		types.AuctionStateCallRunning: {
			types.AuctionStateCallStopped,
		},
		types.AuctionStateCallStopped: {
			types.AuctionStateInactive,
			types.AuctionStatePriceDeterminationRunning,
		},
		types.AuctionStatePriceDeterminationRunning: {
			types.AuctionStatePriceDeterminationStopped,
		},
		types.AuctionStatePriceDeterminationStopped: {
			types.AuctionStateInactive,
			types.AuctionStateOrderbookBalancingRunning,
		},
		types.AuctionStateOrderbookBalancingRunning: {
			types.AuctionStateOrderbookBalancingStopped,
		},
		types.AuctionStateOrderbookBalancingStopped: {
			types.AuctionStateInactive,
		},
	}
}

// RunTypeChangeListener receives (previous, current) run types.
type RunTypeChangeListener func(prev, cur types.RunType)

// VolatilityListener receives interruption records raised during price
// determination.
type VolatilityListener func(vi types.VolatilityInterruption)

// Auction is the auction trading form: the call phase collects orders into
// a partially closed book, price determination derives the clearing price
// and uncrosses, and an optional orderbook-balancing phase trades out
// residual surplus at the determined price.
type Auction struct {
	log   *logging.Logger
	form  *TradingForm
	book  *matching.OrderBook
	guard *price.Guard
	now   func() time.Time

	refPrice   *num.Decimal
	runType    types.RunType
	lastResult *types.PriceDeterminationResult

	onRunTypeChange RunTypeChangeListener
	onVolatility    VolatilityListener
}

// NewAuction builds an inactive auction form over the given book and
// guard.
func NewAuction(log *logging.Logger, id string, book *matching.OrderBook, guard *price.Guard, now func() time.Time) *Auction {
	return &Auction{
		log:   log,
		form:  NewTradingForm(id, types.AuctionStateInactive, auctionTable()),
		book:  book,
		guard: guard,
		now:   now,
	}
}

func (a *Auction) ID() string {
	return a.form.ID()
}

func (a *Auction) State() types.TradingFormState {
	return a.form.State()
}

func (a *Auction) Form() *TradingForm {
	return a.form
}

// SetReferencePrice sets the external reference price used by price
// determination tie-breaks.
func (a *Auction) SetReferencePrice(ref num.Decimal) {
	a.refPrice = &ref
}

// OnRunTypeChange registers the run-type listener.
func (a *Auction) OnRunTypeChange(l RunTypeChangeListener) {
	a.onRunTypeChange = l
}

// OnVolatilityInterruption registers the interruption listener.
func (a *Auction) OnVolatilityInterruption(l VolatilityListener) {
	a.onVolatility = l
}

// SetRunType switches what kind of auction is running, notifying the
// listener on effective changes.
func (a *Auction) SetRunType(rt types.RunType) {
	if rt == a.runType {
		return
	}
	prev := a.runType
	a.runType = rt
	if a.onRunTypeChange != nil {
		a.onRunTypeChange(prev, rt)
	}
}

func (a *Auction) RunType() types.RunType {
	return a.runType
}

// LastResult returns the outcome of the most recent price determination,
// nil before the first one.
func (a *Auction) LastResult() *types.PriceDeterminationResult {
	return a.lastResult
}

// StartCallPhase opens the order-entry period. The book is left only
// partially closed: cancels and modifications flow directly, new entries
// are accepted solely through SubmitOrder while this phase runs.
func (a *Auction) StartCallPhase() error {
	if err := a.form.TransitionTo(types.AuctionStateCallRunning); err != nil {
		return err
	}
	a.book.PartialClose()
	return nil
}

// StopCallPhase ends order entry, fully closing the book ahead of price
// determination.
func (a *Auction) StopCallPhase() error {
	if err := a.form.TransitionTo(types.AuctionStateCallStopped); err != nil {
		return err
	}
	a.book.Close()
	return nil
}

// DeterminePrice derives the auction clearing price from the closed book
// and, when the indicative price survives the volatility guard, uncrosses
// the matchable volume at it. An indicative price outside both safety
// ranges raises an interruption instead, leaving the book untouched.
func (a *Auction) DeterminePrice() ([]types.Trade, error) {
	if err := a.form.TransitionTo(types.AuctionStatePriceDeterminationRunning); err != nil {
		return nil, err
	}
	a.book.Close()

	result := matching.DeterminePrice(a.book, a.refPrice)
	a.lastResult = &result

	var trades []types.Trade
	if result.AuctionPrice != nil {
		now := a.now()
		if vi := a.guard.CheckPrice(*result.AuctionPrice, now); vi != nil {
			metrics.VolatilityInterruptionInc(a.book.MarketID())
			if a.onVolatility != nil {
				a.onVolatility(*vi)
			}
		} else {
			var err error
			trades, err = a.book.Uncross(*result.AuctionPrice, now)
			if err != nil {
				return nil, errors.Wrap(err, "auction uncrossing")
			}
			metrics.TradesAdd(a.book.MarketID(), len(trades))
		}
	} else {
		a.log.Info("price determination produced no auction price",
			logging.String("form-id", a.ID()))
	}

	if err := a.form.TransitionTo(types.AuctionStatePriceDeterminationStopped); err != nil {
		return trades, err
	}
	return trades, nil
}

// BalanceOrderbook trades out residual surplus at the price determination
// result, then stops the balancing phase.
func (a *Auction) BalanceOrderbook() ([]types.Trade, error) {
	if err := a.form.TransitionTo(types.AuctionStateOrderbookBalancingRunning); err != nil {
		return nil, err
	}
	if a.lastResult == nil || a.lastResult.AuctionPrice == nil {
		// nothing to balance against, stop the phase and report it
		if err := a.form.TransitionTo(types.AuctionStateOrderbookBalancingStopped); err != nil {
			return nil, err
		}
		return nil, ErrNoAuctionPrice
	}
	trades, err := a.book.Uncross(*a.lastResult.AuctionPrice, a.now())
	if err != nil {
		return nil, errors.Wrap(err, "orderbook balancing")
	}
	metrics.TradesAdd(a.book.MarketID(), len(trades))
	if err := a.form.TransitionTo(types.AuctionStateOrderbookBalancingStopped); err != nil {
		return trades, err
	}
	return trades, nil
}

// Close returns the form to INACTIVE and reopens the book.
func (a *Auction) Close() error {
	if err := a.form.TransitionTo(types.AuctionStateInactive); err != nil {
		return err
	}
	a.book.Open()
	return nil
}

// SubmitOrder is the auction's slice of the submission boundary: new
// entries are accepted only while the call phase runs, cancels and
// modifications whenever the book is not fully closed.
func (a *Auction) SubmitOrder(o types.Order, st types.SubmitType) types.SubmitResult {
	switch st {
	case types.SubmitTypeNew:
		if a.form.State() != types.AuctionStateCallRunning {
			return types.SubmitReject(types.RejectReasonCallPhaseNotOpen)
		}
		if err := a.book.AddOrder(o); err != nil {
			return types.SubmitError(types.RejectReasonCallPhaseNotOpen)
		}
	case types.SubmitTypeModify:
		if err := a.book.AmendOrder(o); err != nil {
			return types.SubmitError(types.RejectReasonCallPhaseNotOpen)
		}
	case types.SubmitTypeCancel:
		if _, err := a.book.RemoveOrder(o.ID); err != nil {
			return types.SubmitError(types.RejectReasonCallPhaseNotOpen)
		}
	}
	return types.SubmitOK()
}
