package todo

import (
	"fmt"
	"time"

	"github.com/colonyops/todomanage/internal/core/validate"
	"github.com/hay-kot/criterio"
)

// ScheduleChoice selects the day an item is scheduled for.
type ScheduleChoice string

const (
	Today    ScheduleChoice = "today"
	Tomorrow ScheduleChoice = "tomorrow"
	Custom   ScheduleChoice = "custom"
)

// Schedule is a choice plus the calendar date used by Custom.
type Schedule struct {
	Choice ScheduleChoice
	Date   string // YYYY-MM-DD, Custom only
}

// ParseSchedule builds a Schedule from user input. An empty choice means
// today. Errors are ValidationErrors.
func ParseSchedule(choice, date string) (Schedule, error) {
	s := Schedule{Choice: ScheduleChoice(choice), Date: date}
	if s.Choice == "" {
		s.Choice = Today
	}
	if err := s.validate(); err != nil {
		return Schedule{}, AsValidation(err)
	}
	return s, nil
}

func (s Schedule) validate() error {
	switch s.Choice {
	case "", Today, Tomorrow:
		return nil
	case Custom:
		return validate.DateField("date", s.Date)
	default:
		return criterio.NewFieldErrors("schedule",
			fmt.Errorf("invalid schedule %q: must be one of today, tomorrow, custom", s.Choice))
	}
}

// IsToday reports whether the schedule keeps the item on the current day.
func (s Schedule) IsToday() bool {
	return s.Choice == "" || s.Choice == Today
}

// Resolve returns the target instant for the schedule. Today is now, tomorrow
// is now plus one day and a custom date keeps the current local time of day.
func (s Schedule) Resolve(now time.Time, loc *time.Location) (time.Time, error) {
	if err := s.validate(); err != nil {
		return time.Time{}, AsValidation(err)
	}

	switch s.Choice {
	case Tomorrow:
		return now.AddDate(0, 0, 1), nil
	case Custom:
		d, err := time.ParseInLocation(validate.DateLayout, s.Date, loc)
		if err != nil {
			return time.Time{}, AsValidation(criterio.NewFieldErrors("date", err))
		}
		local := now.In(loc)
		return time.Date(d.Year(), d.Month(), d.Day(),
			local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc), nil
	default:
		return now, nil
	}
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns local midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
