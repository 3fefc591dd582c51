package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func armed(at time.Time) Reminder {
	var r Reminder
	r.Set(at)
	return r
}

func TestProgress(t *testing.T) {
	t.Run("zero value is not started", func(t *testing.T) {
		var p Progress
		assert.Equal(t, NotStarted, p.Kind())
		_, ok := p.Anchor()
		assert.False(t, ok)
	})

	t.Run("advance sets anchor once and caps count", func(t *testing.T) {
		var p Progress
		p = p.Advance(base)
		p = p.Advance(base.Add(30 * time.Minute))
		p = p.Advance(base.Add(60 * time.Minute))
		p = p.Advance(base.Add(90 * time.Minute))

		assert.Equal(t, MaxNotifications, p.Count())
		assert.Equal(t, Closed, p.Kind())
		anchor, ok := p.Anchor()
		require.True(t, ok)
		assert.Equal(t, base, anchor)
	})

	t.Run("restore clamps and drops orphan anchor", func(t *testing.T) {
		at := base
		assert.Equal(t, MaxNotifications, RestoreProgress(7, &at).Count())
		assert.Equal(t, 0, RestoreProgress(-2, nil).Count())

		p := RestoreProgress(0, &at)
		_, ok := p.Anchor()
		assert.False(t, ok)
	})

	t.Run("legacy progress without anchor", func(t *testing.T) {
		p := RestoreProgress(1, nil)
		assert.Equal(t, InProgress, p.Kind())
		_, ok := p.Anchor()
		assert.False(t, ok)
	})
}

func TestEvaluateBackoff(t *testing.T) {
	r := armed(base.Add(-time.Minute))

	require.Equal(t, Fire, r.Evaluate(base))
	r.MarkSent(base)
	assert.Equal(t, 1, r.Progress.Count())

	assert.Equal(t, Skip, r.Evaluate(base.Add(29*time.Minute)))
	assert.Equal(t, Fire, r.Evaluate(base.Add(30*time.Minute)))
	r.MarkSent(base.Add(30 * time.Minute))

	assert.Equal(t, Skip, r.Evaluate(base.Add(59*time.Minute)))
	assert.Equal(t, Fire, r.Evaluate(base.Add(60*time.Minute)))
	r.MarkSent(base.Add(60 * time.Minute))

	assert.Equal(t, MaxNotifications, r.Progress.Count())
	assert.False(t, r.Enabled)
	assert.True(t, r.Sent)
	assert.Equal(t, Skip, r.Evaluate(base.Add(24*time.Hour)))
}

func TestEvaluate(t *testing.T) {
	anchor := base.Add(-2 * time.Hour)

	tests := []struct {
		name string
		r    Reminder
		now  time.Time
		want Decision
	}{
		{
			name: "disabled",
			r:    Reminder{},
			now:  base,
			want: Skip,
		},
		{
			name: "not yet due",
			r:    armed(base.Add(time.Minute)),
			now:  base,
			want: Skip,
		},
		{
			name: "due exactly now is not yet due",
			r:    armed(base),
			now:  base,
			want: Skip,
		},
		{
			name: "first notification has no backoff",
			r:    armed(base.Add(-time.Second)),
			now:  base,
			want: Fire,
		},
		{
			name: "exhausted candidate auto-closes",
			r: Reminder{
				Enabled:  true,
				At:       &anchor,
				Progress: RestoreProgress(3, &anchor),
			},
			now:  base,
			want: AutoCloseNow,
		},
		{
			name: "in progress without anchor never fires",
			r: Reminder{
				Enabled:  true,
				At:       &anchor,
				Progress: RestoreProgress(1, nil),
			},
			now:  base,
			want: Skip,
		},
		{
			name: "sent reminders are ignored",
			r: Reminder{
				Enabled: true,
				Sent:    true,
				At:      &anchor,
			},
			now:  base,
			want: Skip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Evaluate(tt.now))
		})
	}
}

func TestMarkSentMonotonic(t *testing.T) {
	r := armed(base)
	prev := 0
	for i := range 6 {
		r.MarkSent(base.Add(time.Duration(i) * time.Minute))
		c := r.Progress.Count()
		assert.GreaterOrEqual(t, c, prev)
		assert.LessOrEqual(t, c, MaxNotifications)
		prev = c
	}
	assert.False(t, r.Enabled)
	assert.True(t, r.Sent)
}

func TestCancelAndClear(t *testing.T) {
	t.Run("cancel resets counters", func(t *testing.T) {
		r := armed(base)
		r.MarkSent(base)
		r.MarkSent(base.Add(30 * time.Minute))

		require.True(t, r.Cancel())
		assert.False(t, r.Enabled)
		assert.True(t, r.Sent)
		assert.Equal(t, 0, r.Progress.Count())
		_, ok := r.Progress.Anchor()
		assert.False(t, ok)
	})

	t.Run("cancel without enabled reminder is a no-op", func(t *testing.T) {
		r := Reminder{}
		assert.False(t, r.Cancel())
		assert.Equal(t, Reminder{}, r)
	})

	t.Run("auto-close keeps the count", func(t *testing.T) {
		r := armed(base)
		for range MaxNotifications {
			r.MarkSent(base)
		}
		assert.Equal(t, MaxNotifications, r.Progress.Count())
	})

	t.Run("set then clear equals never set", func(t *testing.T) {
		r := armed(base)
		r.Clear()
		assert.Equal(t, Reminder{}, r)
	})

	t.Run("set resets earlier progress", func(t *testing.T) {
		r := armed(base)
		r.MarkSent(base)
		r.Set(base.Add(time.Hour))
		assert.True(t, r.Enabled)
		assert.False(t, r.Sent)
		assert.Equal(t, 0, r.Progress.Count())
	})
}

func TestShouldAutoClose(t *testing.T) {
	burst := armed(base)
	burst.MarkSent(base)
	burst.MarkSent(base.Add(10 * time.Minute))
	burst.MarkSent(base.Add(20 * time.Minute))

	assert.True(t, burst.ShouldAutoClose(base.Add(30*time.Minute)))
	assert.False(t, burst.ShouldAutoClose(base.Add(31*time.Minute)))

	partial := armed(base)
	partial.MarkSent(base)
	assert.False(t, partial.ShouldAutoClose(base))
}

func TestState(t *testing.T) {
	r := Reminder{}
	assert.Equal(t, StateDisabled, r.State(base))

	r.Set(base.Add(time.Hour))
	assert.Equal(t, StateArmed, r.State(base))
	assert.Equal(t, StateDueFirst, r.State(base.Add(2*time.Hour)))

	sent := base.Add(2 * time.Hour)
	r.MarkSent(sent)
	assert.Equal(t, StateWaiting, r.State(sent.Add(10*time.Minute)))
	assert.Equal(t, StateDueNth, r.State(sent.Add(30*time.Minute)))

	r.MarkSent(sent.Add(30 * time.Minute))
	r.MarkSent(sent.Add(60 * time.Minute))
	assert.Equal(t, StateClosed, r.State(sent.Add(2*time.Hour)))
}

func TestDueMessage(t *testing.T) {
	tests := []struct {
		delivered int
		want      string
		last      bool
	}{
		{0, "Your task 'Pay rent' is due! (1st reminder)", false},
		{1, "Your task 'Pay rent' is due! (2nd reminder)", false},
		{2, "Your task 'Pay rent' is due! (final reminder - will auto-close after this)", true},
	}

	for _, tt := range tests {
		d := Due{Title: "Pay rent", Delivered: tt.delivered}
		assert.Equal(t, "Reminder: Pay rent", d.Headline())
		assert.Equal(t, tt.want, d.Message())
		assert.Equal(t, tt.last, d.IsLast())
	}
}
