package types

import (
	"fmt"
	"time"

	"github.com/halcyonmkt/halcyon/types/num"
)

// PriceRange is a symmetric percentage band around a reference price:
// bounds are ref*(100∓deviation)/100, both inclusive.
type PriceRange struct {
	ReferencePrice num.Decimal
	Deviation      num.Decimal
	Lower          num.Decimal
	Upper          num.Decimal
}

// NewPriceRange derives the bounds from reference price and deviation
// percentage.
func NewPriceRange(ref, deviation num.Decimal) PriceRange {
	hundred := num.DecimalHundred()
	return PriceRange{
		ReferencePrice: ref,
		Deviation:      deviation,
		Lower:          ref.Mul(hundred.Sub(deviation)).Div(hundred),
		Upper:          ref.Mul(hundred.Add(deviation)).Div(hundred),
	}
}

// Contains reports whether p lies inside the range, boundaries inclusive.
func (r PriceRange) Contains(p num.Decimal) bool {
	return p.GreaterThanOrEqual(r.Lower) && p.LessThanOrEqual(r.Upper)
}

// Intersects reports whether the two closed intervals overlap: neither is
// strictly above nor strictly below the other.
func (r PriceRange) Intersects(other PriceRange) bool {
	if r.Lower.GreaterThan(other.Upper) {
		return false
	}
	if r.Upper.LessThan(other.Lower) {
		return false
	}
	return true
}

func (r PriceRange) String() string {
	return fmt.Sprintf("[%s, %s] (ref %s, dev %s%%)", r.Lower, r.Upper, r.ReferencePrice, r.Deviation)
}

// VolatilityInterruption records an indicative price found outside both the
// static and the dynamic range in effect at the time.
type VolatilityInterruption struct {
	IndicativePrice num.Decimal
	StaticRange     PriceRange
	DynamicRange    PriceRange
	Timestamp       time.Time
}
