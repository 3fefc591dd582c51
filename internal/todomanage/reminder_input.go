package todomanage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/validate"
)

// MaxOffset bounds how far before the target a reminder may be set.
const MaxOffset = 10 * 365 * 24 * time.Hour

// ReminderInput selects when a reminder fires: either an absolute time or an
// offset before the item's target date. Exactly one must be set.
type ReminderInput struct {
	// At is an RFC 3339 instant or a local "2006-01-02 15:04" time.
	At string
	// Before is an offset such as "45m", "2h" or "1d".
	Before string
}

var reminderLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseReminderTime parses an absolute reminder time. Inputs without a zone
// are read in loc.
func ParseReminderTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("reminder time is required")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = parseLocal(s, loc)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time %q: use RFC 3339 or YYYY-MM-DD HH:MM", s)
	}
	if err := validate.Instant(t); err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time: %w", err)
	}
	return t.UTC(), nil
}

func parseLocal(s string, loc *time.Location) (time.Time, error) {
	var err error
	for _, layout := range reminderLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ParseOffset parses an offset made of a positive integer and one of the
// units m, h or d, no longer than MaxOffset.
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid offset %q: use a number followed by m, h or d", s)
	}

	var unit time.Duration
	switch s[len(s)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid offset %q: unit must be m, h or d", s)
	}

	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid offset %q: use a positive number followed by m, h or d", s)
	}
	if n > int64(MaxOffset/unit) {
		return 0, fmt.Errorf("invalid offset %q: at most %d%c", s, int64(MaxOffset/unit), s[len(s)-1])
	}
	return time.Duration(n) * unit, nil
}

// resolve returns the UTC instant the reminder fires at for an item
// targeting target.
func (in ReminderInput) resolve(target time.Time, loc *time.Location) (time.Time, error) {
	var (
		at  time.Time
		err error
	)
	switch {
	case in.At != "" && in.Before != "":
		err = errors.New("set either an absolute time or an offset, not both")
	case in.At != "":
		at, err = ParseReminderTime(in.At, loc)
	case in.Before != "":
		var d time.Duration
		if d, err = ParseOffset(in.Before); err == nil {
			at = target.Add(-d).UTC()
			err = validate.Instant(at)
		}
	default:
		err = errors.New("reminder time is required")
	}
	if err != nil {
		return time.Time{}, todo.AsValidation(criterio.NewFieldErrors("reminder", err))
	}
	return at, nil
}
