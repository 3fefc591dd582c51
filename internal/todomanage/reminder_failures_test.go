package todomanage

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/data/stores"
)

var errUnavailable = errors.New("storage unavailable")

// failingItems fails UpdateReminder for the listed items.
type failingItems struct {
	todo.Store
	fail map[int64]bool
}

func (f *failingItems) UpdateReminder(ctx context.Context, id int64, fn func(*reminder.Reminder) error) (todo.Item, error) {
	if f.fail[id] {
		return todo.Item{}, errUnavailable
	}
	return f.Store.UpdateReminder(ctx, id, fn)
}

// failingNotes fails Save for notifications of the listed items.
type failingNotes struct {
	notify.Store
	fail map[int64]bool
}

func (f *failingNotes) Save(ctx context.Context, n notify.Notification) error {
	if f.fail[n.TodoID] {
		return errUnavailable
	}
	return f.Store.Save(ctx, n)
}

func newFailingReminders(app *App, items *failingItems, notes *failingNotes, log zerolog.Logger) *ReminderService {
	acc := access{items: items, shares: stores.NewShareStore(app.DB)}
	return NewReminderService(items, notes, acc, app.Bus, app.Clock, log)
}

func exhaust(t *testing.T, app *App, id int64) {
	t.Helper()
	anchor := t0.Add(-90 * time.Minute)
	_, err := app.Reminders.items.UpdateReminder(context.Background(), id, func(r *reminder.Reminder) error {
		r.Progress = reminder.RestoreProgress(3, &anchor)
		return nil
	})
	require.NoError(t, err)
}

func TestReminderService_PendingSkipsFailedAutoClose(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t)

	stuck := createWithReminder(t, app, "alice", t0.Add(-2*time.Hour))
	closable := createWithReminder(t, app, "alice", t0.Add(-2*time.Hour))
	fresh := createWithReminder(t, app, "alice", t0.Add(-time.Minute))
	exhaust(t, app, stuck.ID)
	exhaust(t, app, closable.ID)

	var logs bytes.Buffer
	items := &failingItems{Store: stores.NewTodoStore(app.DB), fail: map[int64]bool{stuck.ID: true}}
	notes := &failingNotes{Store: stores.NewNotifyStore(app.DB)}
	svc := newFailingReminders(app, items, notes, zerolog.New(&logs))

	due, err := svc.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, fresh.ID, due[0].TodoID)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "auto-close reminder failed")
	assert.Contains(t, logs.String(), errUnavailable.Error())

	got, err := app.Todos.Get(ctx, "alice", stuck.ID)
	require.NoError(t, err)
	assert.True(t, got.Reminder.Enabled, "failed close leaves the reminder for the next poll")

	got, err = app.Todos.Get(ctx, "alice", closable.ID)
	require.NoError(t, err)
	assert.False(t, got.Reminder.Enabled)
	assert.True(t, got.Reminder.Sent)

	// The next poll retries once storage recovers.
	delete(items.fail, stuck.ID)
	due, err = svc.Pending(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, due, 1)

	got, err = app.Todos.Get(ctx, "alice", stuck.ID)
	require.NoError(t, err)
	assert.False(t, got.Reminder.Enabled)
	assert.Equal(t, 3, got.Reminder.Progress.Count())
}

func TestReminderService_ProcessContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t)

	ok := createWithReminder(t, app, "alice", t0.Add(-time.Minute))
	unsaved := createWithReminder(t, app, "alice", t0.Add(-time.Minute))
	unmarked := createWithReminder(t, app, "bob", t0.Add(-time.Minute))

	noteStore := stores.NewNotifyStore(app.DB)
	items := &failingItems{Store: stores.NewTodoStore(app.DB), fail: map[int64]bool{unmarked.ID: true}}
	notes := &failingNotes{Store: noteStore, fail: map[int64]bool{unsaved.ID: true}}
	svc := newFailingReminders(app, items, notes, zerolog.Nop())

	report, err := svc.Process(ctx, "")
	require.NoError(t, err)

	require.Len(t, report.Sent, 1)
	assert.Equal(t, ok.ID, report.Sent[0].TodoID)

	require.Len(t, report.Failures, 2)
	failed := map[int64]string{}
	for _, f := range report.Failures {
		failed[f.TodoID] = f.Error
	}
	assert.Contains(t, failed[unsaved.ID], "save notification")
	assert.Contains(t, failed[unmarked.ID], "mark sent")

	counts := map[int64]int{}
	for _, id := range []int64{ok.ID, unsaved.ID} {
		got, err := app.Todos.Get(ctx, "alice", id)
		require.NoError(t, err)
		counts[id] = got.Reminder.Progress.Count()
	}
	assert.Equal(t, 1, counts[ok.ID])
	assert.Equal(t, 0, counts[unsaved.ID], "an unsaved notification is not counted")

	got, err := app.Todos.Get(ctx, "bob", unmarked.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Reminder.Progress.Count())

	n, err := noteStore.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
