package price_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

func newTestGuard(t *testing.T) *price.Guard {
	t.Helper()
	// static [8, 12], dynamic [10.8, 13.2]
	guard, err := price.NewGuard(logging.NewTestLogger(), price.NewDefaultConfig(),
		types.NewPriceRange(num.DecimalFromInt64(10), num.DecimalFromInt64(20)),
		types.NewPriceRange(num.DecimalFromInt64(12), num.DecimalFromInt64(10)))
	require.NoError(t, err)
	return guard
}

func TestGuardBoundariesInclusive(t *testing.T) {
	guard := newTestGuard(t)
	now := time.Now()

	cases := []struct {
		price     string
		interrupt bool
	}{
		{"10", false},    // inside both
		{"13.2", false},  // dynamic upper bound, inclusive
		{"13.21", true},  // just above everything
		{"8", false},     // static lower bound, inclusive
		{"7.9", true},    // just below everything
		{"12.5", false},  // dynamic only
		{"9", false},     // static only
	}
	for _, c := range cases {
		vi := guard.CheckPrice(num.MustDecimalFromString(c.price), now)
		if c.interrupt {
			require.NotNil(t, vi, "price %s should interrupt", c.price)
			assert.True(t, vi.IndicativePrice.Equal(num.MustDecimalFromString(c.price)))
			assert.Equal(t, now, vi.Timestamp)
		} else {
			assert.Nil(t, vi, "price %s should pass", c.price)
		}
	}
}

func TestGuardUpdateRebuildsAtSameDeviation(t *testing.T) {
	guard := newTestGuard(t)

	require.NoError(t, guard.UpdateStaticReference(num.DecimalFromInt64(11)))
	static := guard.StaticRange()
	assert.True(t, static.Lower.Equal(num.MustDecimalFromString("8.8")))
	assert.True(t, static.Upper.Equal(num.MustDecimalFromString("13.2")))
	assert.True(t, static.Deviation.Equal(num.DecimalFromInt64(20)))
}

func TestGuardRejectsNonIntersectingUpdate(t *testing.T) {
	guard := newTestGuard(t)
	staticBefore, dynamicBefore := guard.StaticRange(), guard.DynamicRange()

	// dynamic at 50 with 10% deviation is [45, 55], clear of the static
	// [8, 12]
	err := guard.UpdateDynamicReference(num.DecimalFromInt64(50))
	require.Error(t, err)
	assert.ErrorIs(t, err, price.ErrInvalidReferencePrice)
	assert.Equal(t, staticBefore, guard.StaticRange())
	assert.Equal(t, dynamicBefore, guard.DynamicRange())
}

func TestGuardConstructionRequiresIntersection(t *testing.T) {
	_, err := price.NewGuard(logging.NewTestLogger(), price.NewDefaultConfig(),
		types.NewPriceRange(num.DecimalFromInt64(10), num.DecimalFromInt64(10)),
		types.NewPriceRange(num.DecimalFromInt64(100), num.DecimalFromInt64(10)))
	require.Error(t, err)
	assert.ErrorIs(t, err, price.ErrInvalidReferencePrice)
}
