package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/broker"
	"github.com/halcyonmkt/halcyon/events"
	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/markets"
	"github.com/halcyonmkt/halcyon/types"
)

// ErrFixedTimeInPast signals a fixed-time trigger already behind the clock
// at schedule start. Past fixed times are a configuration error, never
// silently skipped.
var ErrFixedTimeInPast = errors.New("fixed-time trigger is in the past")

// EventBroker is the slice of the broker the runner needs.
type EventBroker interface {
	Subscribe(s broker.Subscriber) int
	Unsubscribe(k int)
}

// TransitionRecord is one observed state change, kept for inspection.
type TransitionRecord struct {
	FormID   string
	Previous types.TradingFormState
	Current  types.TradingFormState
	At       time.Time
}

// waitEntry is one outstanding wait-for-state trigger together with its
// resolved command.
type waitEntry struct {
	trigger types.TradingPhaseTrigger
	cmd     command
}

// Runner drives one market through its calendar. Fixed-time triggers are
// armed as one-shot timers; wait-for-state triggers sit in a FIFO queue of
// which only the head is ever eligible to fire, preserving declaration
// order across forms. Every firing is funnelled through the executor's
// single event worker, so all state-changing operations on the market are
// totally ordered.
type Runner struct {
	*broker.SubscriberBase
	log      *logging.Logger
	config   Config
	market   *markets.Market
	calendar *TradingCalendar
	ts       TimeService
	exec     Executor
	brk      EventBroker

	// waits and transitions are touched only on the event worker: wait
	// dispatch happens synchronously inside the state-changed
	// notification, which itself originates there
	waits       []waitEntry
	transitions []TransitionRecord

	subID   int
	running bool
}

// NewRunner wires a runner for one market. The executor is injected so
// tests can drive the schedule synchronously.
func NewRunner(log *logging.Logger, config Config, market *markets.Market, calendar *TradingCalendar, brk EventBroker, ts TimeService, exec Executor) *Runner {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Runner{
		SubscriberBase: broker.NewSubscriberBase(context.Background(), 0, true),
		log:            log,
		config:         config,
		market:         market,
		calendar:       calendar,
		ts:             ts,
		exec:           exec,
		brk:            brk,
	}
}

// Start arms the day's schedule. On a date outside the trading calendar it
// does nothing at all: no timers, no listeners, no notifications.
func (r *Runner) Start() error {
	now := r.ts.Now()
	if !r.calendar.IsTradingDay(now) {
		r.log.Info("not a trading day, market stays idle",
			logging.String("market-id", r.market.ID()),
			logging.Time("date", now))
		return nil
	}

	type fixedEntry struct {
		cmd   command
		delay time.Duration
		at    time.Time
	}
	var fixed []fixedEntry
	for _, sched := range r.calendar.Schedules() {
		for _, trigger := range sched.Triggers {
			cmd, err := resolveCommand(r.market, trigger)
			if err != nil {
				// unmapped targets are dropped, not fatal
				r.log.Warn("dropping trigger with unmapped target state",
					logging.String("trigger", trigger.String()),
					logging.Error(err))
				continue
			}
			if trigger.Initiator == types.InitiatorTypeWaitForState {
				r.waits = append(r.waits, waitEntry{trigger: trigger, cmd: cmd})
				continue
			}
			delay, err := delayUntil(now, *trigger.FixedTime)
			if err != nil {
				return errors.Wrapf(err, "trigger %s", trigger)
			}
			fixed = append(fixed, fixedEntry{cmd: cmd, delay: delay, at: *trigger.FixedTime})
		}
	}
	sort.SliceStable(fixed, func(i, j int) bool { return fixed[i].at.Before(fixed[j].at) })

	r.subID = r.brk.Subscribe(r)
	r.exec.Start()
	for _, fe := range fixed {
		fe := fe
		r.exec.Schedule(fe.delay, func() {
			r.execute(fe.cmd)
		})
	}
	r.running = true
	r.log.Info("trading schedule armed",
		logging.String("market-id", r.market.ID()),
		logging.Int("fixed-triggers", len(fixed)),
		logging.Int("wait-triggers", len(r.waits)))
	return nil
}

// Stop shuts both workers down. Pending timers and not-yet-dequeued
// commands are discarded; there is no compensation for a transition that
// was mid-flight.
func (r *Runner) Stop() {
	if !r.running {
		return
	}
	r.running = false
	r.brk.Unsubscribe(r.subID)
	r.exec.Stop()
	r.Halt()
}

// execute runs one command on the event worker. Transition errors are
// local to the command: logged, swallowed, never allowed to halt the
// worker or abort the remaining schedule.
func (r *Runner) execute(cmd command) {
	if err := cmd.run(); err != nil {
		r.log.Error("scheduled command failed",
			logging.String("trigger", cmd.trigger.String()),
			logging.Error(err))
	}
}

// Push receives state-changed events synchronously from the broker. The
// transition is recorded; when it matches the head of the wait queue the
// head's command is submitted to the event worker. Changes matching a
// non-head wait trigger produce no action.
func (r *Runner) Push(evts ...events.Event) {
	for _, evt := range evts {
		sc, ok := evt.(*events.StateChanged)
		if !ok {
			continue
		}
		r.transitions = append(r.transitions, TransitionRecord{
			FormID:   sc.FormID(),
			Previous: sc.Previous(),
			Current:  sc.Current(),
			At:       sc.Timestamp(),
		})
		if len(r.waits) == 0 {
			continue
		}
		head := r.waits[0]
		if head.trigger.WaitForFormID != sc.FormID() || head.trigger.WaitForState != sc.Current() {
			continue
		}
		r.waits = r.waits[1:]
		r.exec.Submit(func() {
			r.execute(head.cmd)
		})
	}
}

// Types subscribes the runner to state-changed events only.
func (r *Runner) Types() []events.Type {
	return []events.Type{events.StateChangedEvent}
}

// Transitions returns the state changes observed so far.
func (r *Runner) Transitions() []TransitionRecord {
	return r.transitions
}

// PendingWaitTriggers returns how many wait-for-state triggers are still
// outstanding.
func (r *Runner) PendingWaitTriggers() int {
	return len(r.waits)
}

// delayUntil computes the timer delay in whole milliseconds of total
// elapsed time. A fixed time behind the clock is a scheduling error.
func delayUntil(now, at time.Time) (time.Duration, error) {
	millis := at.Sub(now).Milliseconds()
	if millis < 0 {
		return 0, errors.Wrap(ErrFixedTimeInPast, at.Format(time.RFC3339))
	}
	return time.Duration(millis) * time.Millisecond, nil
}
