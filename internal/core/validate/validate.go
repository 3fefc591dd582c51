// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// DateLayout is the accepted format for calendar dates.
const DateLayout = "2006-01-02"

// Instants are persisted as Unix nanoseconds; only this range round-trips.
var (
	EarliestInstant = time.Unix(0, math.MinInt64).UTC()
	LatestInstant   = time.Unix(0, math.MaxInt64).UTC()
)

// dateSlack keeps a whole calendar day in any zone inside the storable range.
const dateSlack = 48 * time.Hour

// Instant validates that t can be stored without overflowing.
func Instant(t time.Time) error {
	if t.Before(EarliestInstant) || t.After(LatestInstant) {
		return fmt.Errorf("%s is outside the supported range %s to %s",
			t.Format(time.RFC3339), EarliestInstant.Format(DateLayout), LatestInstant.Format(DateLayout))
	}
	return nil
}

// Title validates a todo title is non-empty after trimming whitespace.
func Title(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("title required")
	}
	return nil
}

// TitleField returns a criterio validator for titles.
func TitleField(field, title string) error {
	return criterio.Run(field, title, Title)
}

// Date validates a YYYY-MM-DD calendar date.
func Date(s string) error {
	if s == "" {
		return fmt.Errorf("date is required")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	if d.Before(EarliestInstant.Add(dateSlack)) || d.After(LatestInstant.Add(-dateSlack)) {
		return fmt.Errorf("date %q is outside the supported range %s to %s",
			s, EarliestInstant.Add(dateSlack).Format(DateLayout), LatestInstant.Add(-dateSlack).Format(DateLayout))
	}
	return nil
}

// DateField returns a criterio validator for calendar dates.
func DateField(field, s string) error {
	return criterio.Run(field, s, Date)
}

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._@-]*$`)

// UserID validates a user identifier.
func UserID(id string) error {
	if id == "" {
		return fmt.Errorf("user is required")
	}
	if !userIDPattern.MatchString(id) {
		return fmt.Errorf("invalid user %q: use letters, digits, '.', '_', '@' or '-'", id)
	}
	return nil
}

// UserIDField returns a criterio validator for user identifiers.
func UserIDField(field, id string) error {
	return criterio.Run(field, id, UserID)
}
