package schedule

import (
	"time"

	"github.com/pkg/errors"

	"github.com/halcyonmkt/halcyon/types"
)

var (
	// ErrFirstTriggerNotFixedTime signals a schedule that starts on a
	// wait-for-state trigger; a form cannot be kicked off by waiting on a
	// state nothing will ever produce.
	ErrFirstTriggerNotFixedTime = errors.New("first trigger of a schedule must be fixed-time")
	// ErrEmptySchedule signals a schedule with no triggers at all.
	ErrEmptySchedule = errors.New("schedule has no triggers")
)

const dayFormat = "2006-01-02"

// FormSchedule is the ordered trigger sequence for one trading form.
type FormSchedule struct {
	FormID   string
	Triggers []types.TradingPhaseTrigger
}

// TradingCalendar is the declarative description of a trading session: the
// set of dates trading runs at all, plus the per-form trigger sequences.
// It is built once before the session starts and read-only afterwards.
type TradingCalendar struct {
	days      map[string]struct{}
	schedules []FormSchedule
}

// NewTradingCalendar builds a calendar permitting trading on exactly the
// given dates. Membership is exact calendar-date equality, there is no
// business-day inference.
func NewTradingCalendar(days []time.Time) *TradingCalendar {
	c := &TradingCalendar{
		days: make(map[string]struct{}, len(days)),
	}
	for _, d := range days {
		c.days[d.Format(dayFormat)] = struct{}{}
	}
	return c
}

// IsTradingDay reports whether trading runs on the given date.
func (c *TradingCalendar) IsTradingDay(date time.Time) bool {
	_, ok := c.days[date.Format(dayFormat)]
	return ok
}

// AddSchedule appends a form's trigger sequence. The calendar takes
// exclusive ownership of the slice.
func (c *TradingCalendar) AddSchedule(formID string, triggers []types.TradingPhaseTrigger) error {
	if len(triggers) == 0 {
		return errors.Wrap(ErrEmptySchedule, formID)
	}
	if triggers[0].Initiator != types.InitiatorTypeFixedTime {
		return errors.Wrap(ErrFirstTriggerNotFixedTime, formID)
	}
	c.schedules = append(c.schedules, FormSchedule{
		FormID:   formID,
		Triggers: triggers,
	})
	return nil
}

// Schedules returns all form schedules in declaration order.
func (c *TradingCalendar) Schedules() []FormSchedule {
	return c.schedules
}
