package price

import (
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

// ErrInvalidReferencePrice signals a reference price whose range would no
// longer intersect the other configured range.
var ErrInvalidReferencePrice = errors.New("reference price ranges do not intersect")

// Guard tracks the static and dynamic price corridors for one market and
// raises a volatility interruption when an indicative price escapes both.
// Deviation percentages are fixed at construction; reference updates
// rebuild one range at the same deviation.
type Guard struct {
	log     *logging.Logger
	static  types.PriceRange
	dynamic types.PriceRange
}

// NewGuard builds a guard from the two initial ranges. Construction fails
// when the ranges do not intersect.
func NewGuard(log *logging.Logger, config Config, static, dynamic types.PriceRange) (*Guard, error) {
	if !static.Intersects(dynamic) {
		return nil, errors.Wrapf(ErrInvalidReferencePrice,
			"static %s vs dynamic %s", static, dynamic)
	}
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Guard{
		log:     log,
		static:  static,
		dynamic: dynamic,
	}, nil
}

// CheckPrice returns an interruption record iff the indicative price lies
// inside neither range, boundaries inclusive. The guard itself emits
// nothing, callers publish the record.
func (g *Guard) CheckPrice(indicative num.Decimal, now time.Time) *types.VolatilityInterruption {
	if g.static.Contains(indicative) || g.dynamic.Contains(indicative) {
		return nil
	}
	g.log.Info("indicative price outside both safety ranges",
		logging.String("indicative-price", indicative.String()),
		logging.String("static-range", g.static.String()),
		logging.String("dynamic-range", g.dynamic.String()))
	return &types.VolatilityInterruption{
		IndicativePrice: indicative,
		StaticRange:     g.static,
		DynamicRange:    g.dynamic,
		Timestamp:       now,
	}
}

// UpdateStaticReference rebuilds the static range around a new reference
// price at the same deviation. The update is rejected, leaving both ranges
// untouched, when the replacement would not intersect the dynamic range.
func (g *Guard) UpdateStaticReference(ref num.Decimal) error {
	replacement := types.NewPriceRange(ref, g.static.Deviation)
	if !replacement.Intersects(g.dynamic) {
		return errors.Wrapf(ErrInvalidReferencePrice, "static reference %s", ref)
	}
	g.static = replacement
	return nil
}

// UpdateDynamicReference is the dynamic-side counterpart of
// UpdateStaticReference.
func (g *Guard) UpdateDynamicReference(ref num.Decimal) error {
	replacement := types.NewPriceRange(ref, g.dynamic.Deviation)
	if !replacement.Intersects(g.static) {
		return errors.Wrapf(ErrInvalidReferencePrice, "dynamic reference %s", ref)
	}
	g.dynamic = replacement
	return nil
}

// StaticRange returns the static corridor currently in effect.
func (g *Guard) StaticRange() types.PriceRange {
	return g.static
}

// DynamicRange returns the dynamic corridor currently in effect.
func (g *Guard) DynamicRange() types.PriceRange {
	return g.dynamic
}
