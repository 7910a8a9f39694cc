package types

import (
	"time"

	"github.com/halcyonmkt/halcyon/types/num"
)

// Side of the order book an order sits on.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType determines how an order prices itself.
type OrderType int

const (
	OrderTypeLimit OrderType = iota
	OrderTypeMarket
	// OrderTypeMidpoint orders execute at the prevailing midpoint between
	// best bid and best ask, and only against other midpoint orders.
	OrderTypeMidpoint
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "MARKET"
	case OrderTypeMidpoint:
		return "MIDPOINT"
	}
	return "LIMIT"
}

// TimeInForce for an order.
type TimeInForce int

const (
	TimeInForceGTC TimeInForce = iota
	TimeInForceGTD
	TimeInForceIOC
)

func (t TimeInForce) String() string {
	switch t {
	case TimeInForceGTD:
		return "GTD"
	case TimeInForceIOC:
		return "IOC"
	}
	return "GTC"
}

// Order is an immutable value record. Updates return fresh copies so a
// standing book entry never aliases an in-flight match candidate.
type Order struct {
	ID        string
	MarketID  string
	Party     string
	Side      Side
	Type      OrderType
	TIF       TimeInForce
	Price     num.Decimal
	Size      uint64
	Remaining uint64
	// MinFillSize is the smallest quantity the order will execute in a
	// single match, zero when the order has no floor.
	MinFillSize uint64
	GoodTilDate time.Time
	CreatedAt   time.Time
}

// WithRemaining returns a copy of the order with the remaining quantity
// replaced.
func (o Order) WithRemaining(remaining uint64) Order {
	o.Remaining = remaining
	return o
}

// Fill returns a copy of the order with size subtracted from its remaining
// quantity, clamped at zero.
func (o Order) Fill(size uint64) Order {
	if size >= o.Remaining {
		o.Remaining = 0
		return o
	}
	o.Remaining -= size
	return o
}

// Filled reports whether the order has no quantity left.
func (o Order) Filled() bool {
	return o.Remaining == 0
}

// IsMarket reports whether the order prices itself off the book. Market
// orders rank best on their side regardless of price.
func (o Order) IsMarket() bool {
	return o.Type == OrderTypeMarket
}

// SubmitType distinguishes the operations at the submission boundary.
type SubmitType int

const (
	SubmitTypeNew SubmitType = iota
	SubmitTypeModify
	SubmitTypeCancel
)

func (t SubmitType) String() string {
	switch t {
	case SubmitTypeModify:
		return "MODIFY"
	case SubmitTypeCancel:
		return "CANCEL"
	}
	return "NEW"
}

// SubmitOutcome is the caller-facing classification of a submission.
type SubmitOutcome int

const (
	SubmitOutcomeOK SubmitOutcome = iota
	SubmitOutcomeReject
	SubmitOutcomeError
)

func (o SubmitOutcome) String() string {
	switch o {
	case SubmitOutcomeReject:
		return "REJECT"
	case SubmitOutcomeError:
		return "ERROR"
	}
	return "OK"
}

// RejectReason is the closed set of validation failures reported at the
// submission boundary.
type RejectReason int

const (
	RejectReasonNone RejectReason = iota
	RejectReasonBelowMinimumSize
	RejectReasonInvalidGoodTilDate
	RejectReasonUnsupportedOrderType
	RejectReasonCallPhaseNotOpen
)

var rejectReasonNames = map[RejectReason]string{
	RejectReasonNone:                 "",
	RejectReasonBelowMinimumSize:     "order size below minimum",
	RejectReasonInvalidGoodTilDate:   "invalid good-til-date window",
	RejectReasonUnsupportedOrderType: "order type not supported in this phase",
	RejectReasonCallPhaseNotOpen:     "call phase not open",
}

func (r RejectReason) String() string {
	return rejectReasonNames[r]
}

// SubmitResult is returned for every submission. Validation failures are
// structured outcomes, never raised faults.
type SubmitResult struct {
	Outcome SubmitOutcome
	Reason  RejectReason
}

func SubmitOK() SubmitResult {
	return SubmitResult{Outcome: SubmitOutcomeOK}
}

func SubmitReject(reason RejectReason) SubmitResult {
	return SubmitResult{Outcome: SubmitOutcomeReject, Reason: reason}
}

func SubmitError(reason RejectReason) SubmitResult {
	return SubmitResult{Outcome: SubmitOutcomeError, Reason: reason}
}
