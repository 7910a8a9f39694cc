package markets

import (
	"time"

	"github.com/halcyonmkt/halcyon/types"
)

// OrderValidator is the pre-submission filter chain boundary. A validator
// returns RejectReasonNone when it has no issue with the order.
type OrderValidator interface {
	Validate(o types.Order, now time.Time) types.RejectReason
}

// MinimumSizeValidator rejects orders below a configured size floor.
type MinimumSizeValidator struct {
	MinimumSize uint64
}

func (v MinimumSizeValidator) Validate(o types.Order, _ time.Time) types.RejectReason {
	if o.Size < v.MinimumSize {
		return types.RejectReasonBelowMinimumSize
	}
	return types.RejectReasonNone
}

// GoodTilDateValidator rejects GTD orders whose expiry is not inside the
// accepted window from now.
type GoodTilDateValidator struct {
	MaxWindow time.Duration
}

func (v GoodTilDateValidator) Validate(o types.Order, now time.Time) types.RejectReason {
	if o.TIF != types.TimeInForceGTD {
		return types.RejectReasonNone
	}
	if o.GoodTilDate.Before(now) || o.GoodTilDate.After(now.Add(v.MaxWindow)) {
		return types.RejectReasonInvalidGoodTilDate
	}
	return types.RejectReasonNone
}

// OrderTypeValidator rejects order types outside the accepted set.
type OrderTypeValidator struct {
	Accepted []types.OrderType
}

func (v OrderTypeValidator) Validate(o types.Order, _ time.Time) types.RejectReason {
	for _, t := range v.Accepted {
		if o.Type == t {
			return types.RejectReasonNone
		}
	}
	return types.RejectReasonUnsupportedOrderType
}
