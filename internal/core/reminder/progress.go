package reminder

import "time"

// MaxNotifications is the number of notifications a reminder fires before it
// closes itself.
const MaxNotifications = 3

// Interval is the minimum spacing between notifications, measured from the
// first notification rather than the previous one.
const Interval = 30 * time.Minute

// ProgressKind tags the delivery progress of a reminder.
type ProgressKind int

const (
	NotStarted ProgressKind = iota
	InProgress
	Closed
)

func (k ProgressKind) String() string {
	switch k {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Progress counts delivered notifications and remembers when the first one
// went out. The zero value is NotStarted. Advance is the only way to move it
// forward, so the anchor is set exactly when the count becomes positive.
type Progress struct {
	count  int
	anchor time.Time
}

// RestoreProgress rebuilds a Progress from stored columns. The count is
// clamped to [0, MaxNotifications] and an anchor stored alongside a zero
// count is dropped. Rows written before the anchor existed may carry a
// positive count without one; such progress never becomes due again.
func RestoreProgress(count int, anchor *time.Time) Progress {
	count = min(max(count, 0), MaxNotifications)
	p := Progress{count: count}
	if count > 0 && anchor != nil {
		p.anchor = anchor.UTC()
	}
	return p
}

// Count is the number of notifications delivered so far.
func (p Progress) Count() int { return p.count }

// Anchor returns the time of the first notification.
func (p Progress) Anchor() (time.Time, bool) {
	if p.anchor.IsZero() {
		return time.Time{}, false
	}
	return p.anchor, true
}

// Kind reports the progress variant.
func (p Progress) Kind() ProgressKind {
	switch {
	case p.count == 0:
		return NotStarted
	case p.count >= MaxNotifications:
		return Closed
	default:
		return InProgress
	}
}

// Advance records one more delivered notification at now. The anchor is set
// when missing, which for well formed progress only happens on the first
// call. The count never exceeds MaxNotifications.
func (p Progress) Advance(now time.Time) Progress {
	if p.anchor.IsZero() {
		p.anchor = now.UTC()
	}
	if p.count < MaxNotifications {
		p.count++
	}
	return p
}

// Threshold is the minimum time since the anchor before the next
// notification may fire.
func (p Progress) Threshold() time.Duration {
	return time.Duration(p.count) * Interval
}
