package schedule

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/types"
)

var (
	// ErrInvalidCallDuration signals a negative minimum call duration.
	ErrInvalidCallDuration = errors.New("minimum call duration must not be negative")
	// ErrRandomBoundTooLarge signals a random extension bound that cannot
	// be represented as a duration.
	ErrRandomBoundTooLarge = errors.New("random extension bound too large")
)

// maxExtensionMillis is the largest random bound representable once
// converted to a time.Duration.
const maxExtensionMillis = math.MaxInt64 / int64(time.Millisecond)

// Rand is the source of the random call-phase extension. *rand.Rand
// satisfies it; callers needing reproducible schedules inject a seeded
// one.
type Rand interface {
	Int63n(n int64) int64
}

func defaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// AuctionScheduleBuilder declares one auction run: a call-phase start
// time, a minimum call duration plus a bounded uniform random extension,
// and optionally an orderbook-balancing phase after price determination.
type AuctionScheduleBuilder struct {
	formID        string
	runType       types.RunType
	callStart     time.Time
	minCall       time.Duration
	maxExtMillis  int64
	withBalancing bool
	rnd           Rand
}

// NewAuctionScheduleBuilder starts a builder for the given auction form.
func NewAuctionScheduleBuilder(formID string) *AuctionScheduleBuilder {
	return &AuctionScheduleBuilder{
		formID:  formID,
		runType: types.RunTypeIntradayAuction,
		rnd:     defaultRand(),
	}
}

// WithRunType sets the run type reported for this auction run.
func (b *AuctionScheduleBuilder) WithRunType(rt types.RunType) *AuctionScheduleBuilder {
	b.runType = rt
	return b
}

// WithCallStart sets the wall-clock time the call phase opens.
func (b *AuctionScheduleBuilder) WithCallStart(t time.Time) *AuctionScheduleBuilder {
	b.callStart = t
	return b
}

// WithMinimumCallDuration sets the minimum length of the call phase.
func (b *AuctionScheduleBuilder) WithMinimumCallDuration(d time.Duration) *AuctionScheduleBuilder {
	b.minCall = d
	return b
}

// WithMaxRandomExtension bounds the uniform random extension, in
// milliseconds, added to the minimum call duration. The extension is drawn
// from [0, max).
func (b *AuctionScheduleBuilder) WithMaxRandomExtension(millis int64) *AuctionScheduleBuilder {
	b.maxExtMillis = millis
	return b
}

// WithOrderbookBalancing appends a balancing phase after price
// determination.
func (b *AuctionScheduleBuilder) WithOrderbookBalancing(on bool) *AuctionScheduleBuilder {
	b.withBalancing = on
	return b
}

// WithRand injects the random source, for reproducible schedules.
func (b *AuctionScheduleBuilder) WithRand(r Rand) *AuctionScheduleBuilder {
	b.rnd = r
	return b
}

// Build produces the trigger sequence. Configuration errors are fatal to
// the session being built.
func (b *AuctionScheduleBuilder) Build() ([]types.TradingPhaseTrigger, error) {
	if b.minCall < 0 {
		return nil, errors.Wrap(ErrInvalidCallDuration, b.formID)
	}
	if b.maxExtMillis < 0 || b.maxExtMillis > maxExtensionMillis {
		return nil, errors.Wrapf(ErrRandomBoundTooLarge, "%s: %d ms", b.formID, b.maxExtMillis)
	}
	callDuration := b.minCall
	if b.maxExtMillis > 0 {
		callDuration += time.Duration(b.rnd.Int63n(b.maxExtMillis)) * time.Millisecond
	}
	callStop := b.callStart.Add(callDuration)

	triggers := []types.TradingPhaseTrigger{
		types.NewFixedTimeTrigger(b.formID, types.AuctionStateCallRunning, b.runType, b.callStart),
		types.NewFixedTimeTrigger(b.formID, types.AuctionStateCallStopped, b.runType, callStop),
		types.NewWaitForStateTrigger(b.formID, types.AuctionStatePriceDeterminationRunning, b.runType,
			b.formID, types.AuctionStateCallStopped),
	}
	if b.withBalancing {
		triggers = append(triggers,
			types.NewWaitForStateTrigger(b.formID, types.AuctionStateOrderbookBalancingRunning, b.runType,
				b.formID, types.AuctionStatePriceDeterminationStopped),
			types.NewWaitForStateTrigger(b.formID, types.AuctionStateInactive, b.runType,
				b.formID, types.AuctionStateOrderbookBalancingStopped),
		)
		return triggers, nil
	}
	triggers = append(triggers,
		types.NewWaitForStateTrigger(b.formID, types.AuctionStateInactive, b.runType,
			b.formID, types.AuctionStatePriceDeterminationStopped),
	)
	return triggers, nil
}

// ContinuousScheduleBuilder declares a continuous-trading start/stop pair.
type ContinuousScheduleBuilder struct {
	formID string
	start  time.Time
	stop   time.Time
}

// NewContinuousScheduleBuilder starts a builder for the continuous form.
func NewContinuousScheduleBuilder(formID string) *ContinuousScheduleBuilder {
	return &ContinuousScheduleBuilder{formID: formID}
}

// WithStart sets the wall-clock time continuous trading begins.
func (b *ContinuousScheduleBuilder) WithStart(t time.Time) *ContinuousScheduleBuilder {
	b.start = t
	return b
}

// WithStop sets the wall-clock time continuous trading halts.
func (b *ContinuousScheduleBuilder) WithStop(t time.Time) *ContinuousScheduleBuilder {
	b.stop = t
	return b
}

// ErrStopBeforeStart signals a continuous schedule stopping before it
// starts.
var ErrStopBeforeStart = errors.New("continuous trading stop precedes start")

// Build produces the trigger pair.
func (b *ContinuousScheduleBuilder) Build() ([]types.TradingPhaseTrigger, error) {
	if b.stop.Before(b.start) {
		return nil, errors.Wrap(ErrStopBeforeStart, b.formID)
	}
	return []types.TradingPhaseTrigger{
		types.NewFixedTimeTrigger(b.formID, types.ContinuousTradingStateRunning, types.RunTypeContinuousTrading, b.start),
		types.NewFixedTimeTrigger(b.formID, types.ContinuousTradingStateStopped, types.RunTypeContinuousTrading, b.stop),
	}, nil
}
