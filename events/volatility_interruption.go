package events

import (
	"context"

	"github.com/halcyonmkt/halcyon/types"
)

// VolatilityInterruption is emitted when an indicative price was found
// outside both the static and the dynamic safety range.
type VolatilityInterruption struct {
	*Base
	marketID     string
	interruption types.VolatilityInterruption
}

// NewVolatilityInterruption creates a new volatility-interruption event.
func NewVolatilityInterruption(ctx context.Context, marketID string, vi types.VolatilityInterruption) *VolatilityInterruption {
	return &VolatilityInterruption{
		Base:         newBase(ctx, VolatilityInterruptionEvent),
		marketID:     marketID,
		interruption: vi,
	}
}

func (e VolatilityInterruption) MarketID() string {
	return e.marketID
}

func (e VolatilityInterruption) Interruption() types.VolatilityInterruption {
	return e.interruption
}
