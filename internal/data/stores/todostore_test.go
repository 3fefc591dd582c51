package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func createItem(t *testing.T, store *TodoStore, owner, title string, at time.Time) todo.Item {
	t.Helper()
	item := todo.Item{OwnerID: owner, Title: title, ModifiedAt: at}
	require.NoError(t, store.Create(context.Background(), &item))
	return item
}

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestTodoStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create records a new event and points at it", func(t *testing.T) {
		database := openTestDB(t)
		store := NewTodoStore(database)
		events := NewEventStore(database)

		item := todo.Item{
			OwnerID:     "alice",
			Title:       "Buy milk",
			Details:     "two **litres**",
			DetailsHTML: "<p>two <strong>litres</strong></p>",
			ModifiedAt:  t0,
		}
		require.NoError(t, store.Create(ctx, &item))
		require.NotZero(t, item.ID)
		require.NotZero(t, item.CurrentEventID)

		got, err := store.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.OwnerID)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "two **litres**", got.Details)
		assert.Equal(t, item.DetailsHTML, got.DetailsHTML)
		assert.True(t, got.CreatedAt.Equal(t0))
		assert.True(t, got.ModifiedAt.Equal(t0))
		assert.True(t, got.TargetAt.Equal(t0))
		assert.Equal(t, item.CurrentEventID, got.CurrentEventID)

		st, ok, err := events.CurrentStatus(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, status.New, st)

		history, err := events.History(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, history[0].Timestamp.Equal(t0))
	})

	t.Run("get not found", func(t *testing.T) {
		store := NewTodoStore(openTestDB(t))

		_, err := store.Get(ctx, 999)
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})

	t.Run("apply moves modified and current status together", func(t *testing.T) {
		database := openTestDB(t)
		store := NewTodoStore(database)
		events := NewEventStore(database)
		item := createItem(t, store, "alice", "Buy milk", t0)

		tomorrow := t0.AddDate(0, 0, 1)
		ev, err := store.Apply(ctx, item.ID, todo.Transition{
			Status:   status.Reassign,
			At:       tomorrow,
			TargetAt: &tomorrow,
			Content:  &todo.Content{Title: "Buy oat milk"},
		})
		require.NoError(t, err)
		assert.Equal(t, status.Reassign, ev.Status)

		got, err := store.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", got.Title)
		assert.True(t, got.ModifiedAt.Equal(tomorrow))
		assert.True(t, got.TargetAt.Equal(tomorrow))
		assert.True(t, got.CreatedAt.Equal(t0))
		assert.Equal(t, ev.ID, got.CurrentEventID)

		st, _, err := events.CurrentStatus(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, status.Reassign, st)
	})

	t.Run("apply on missing item", func(t *testing.T) {
		store := NewTodoStore(openTestDB(t))

		_, err := store.Apply(ctx, 42, todo.Transition{Status: status.Done, At: t0})
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})

	t.Run("apply rolls back every write when one fails", func(t *testing.T) {
		tests := []struct {
			name    string
			trigger string
		}{
			{
				name:    "event insert rejected",
				trigger: `CREATE TRIGGER reject_write BEFORE INSERT ON event BEGIN SELECT RAISE(ABORT, 'event rejected'); END`,
			},
			{
				name:    "pointer update rejected",
				trigger: `CREATE TRIGGER reject_write BEFORE UPDATE OF modified_at ON todo_item BEGIN SELECT RAISE(ABORT, 'update rejected'); END`,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				database := openTestDB(t)
				store := NewTodoStore(database)
				events := NewEventStore(database)
				item := createItem(t, store, "alice", "Buy milk", t0)

				before, err := store.Get(ctx, item.ID)
				require.NoError(t, err)

				_, err = database.Conn().ExecContext(ctx, tt.trigger)
				require.NoError(t, err)

				target := t0.Add(48 * time.Hour)
				_, err = store.Apply(ctx, item.ID, todo.Transition{
					Status:   status.Reassign,
					At:       target,
					Content:  &todo.Content{Title: "Buy oat milk"},
					TargetAt: &target,
				})
				require.Error(t, err)
				assert.True(t, todo.IsStorage(err))

				after, err := store.Get(ctx, item.ID)
				require.NoError(t, err)
				assert.Equal(t, "Buy milk", after.Title)
				assert.True(t, after.ModifiedAt.Equal(before.ModifiedAt))
				assert.True(t, after.TargetAt.Equal(before.TargetAt))
				assert.Equal(t, before.CurrentEventID, after.CurrentEventID)

				history, err := events.History(ctx, item.ID)
				require.NoError(t, err)
				assert.Len(t, history, 1)

				st, ok, err := events.CurrentStatus(ctx, item.ID)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, status.New, st)
			})
		}
	})

	t.Run("list filters by owner and modified window", func(t *testing.T) {
		store := NewTodoStore(openTestDB(t))
		createItem(t, store, "alice", "yesterday", t0.AddDate(0, 0, -1))
		createItem(t, store, "alice", "today early", t0)
		createItem(t, store, "alice", "today late", t0.Add(3*time.Hour))
		createItem(t, store, "bob", "not mine", t0)

		all, err := store.List(ctx, todo.ListFilter{OwnerID: "alice"})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "today late", all[0].Title, "newest first")

		day, err := store.List(ctx, todo.ListFilter{
			OwnerID:      "alice",
			ModifiedFrom: t0.Truncate(24 * time.Hour),
			ModifiedTo:   t0.Truncate(24 * time.Hour).AddDate(0, 0, 1),
		})
		require.NoError(t, err)
		assert.Len(t, day, 2)
	})

	t.Run("reminder round trip", func(t *testing.T) {
		store := NewTodoStore(openTestDB(t))
		item := createItem(t, store, "alice", "Pay rent", t0)

		at := t0.Add(time.Hour)
		_, err := store.UpdateReminder(ctx, item.ID, func(r *reminder.Reminder) error {
			r.Set(at)
			r.MarkSent(t0.Add(2 * time.Hour))
			return nil
		})
		require.NoError(t, err)

		got, err := store.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Reminder.Enabled)
		require.NotNil(t, got.Reminder.At)
		assert.True(t, got.Reminder.At.Equal(at))
		assert.Equal(t, 1, got.Reminder.Progress.Count())
		anchor, ok := got.Reminder.Progress.Anchor()
		require.True(t, ok)
		assert.True(t, anchor.Equal(t0.Add(2*time.Hour)))
	})

	t.Run("reminder callback error writes nothing", func(t *testing.T) {
		store := NewTodoStore(openTestDB(t))
		item := createItem(t, store, "alice", "Pay rent", t0)
		boom := errors.New("boom")

		_, err := store.UpdateReminder(ctx, item.ID, func(r *reminder.Reminder) error {
			r.Set(t0)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := store.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, got.Reminder.Enabled)
	})

	t.Run("reminder candidates", func(t *testing.T) {
		store := NewTodoStore(openTestDB(t))
		a := createItem(t, store, "alice", "a", t0)
		b := createItem(t, store, "bob", "b", t0)
		createItem(t, store, "alice", "no reminder", t0)

		for _, id := range []int64{a.ID, b.ID} {
			_, err := store.UpdateReminder(ctx, id, func(r *reminder.Reminder) error {
				r.Set(t0)
				return nil
			})
			require.NoError(t, err)
		}

		all, err := store.ListReminderCandidates(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := store.ListReminderCandidates(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, a.ID, mine[0].ID)
	})

	t.Run("delete removes events and kiv entry", func(t *testing.T) {
		database := openTestDB(t)
		store := NewTodoStore(database)
		events := NewEventStore(database)
		kivs := NewKIVStore(database)
		item := createItem(t, store, "alice", "Buy milk", t0)

		_, err := kivs.Enter(ctx, item.ID, "alice", t0)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, item.ID))

		_, err = store.Get(ctx, item.ID)
		assert.ErrorIs(t, err, todo.ErrNotFound)

		history, err := events.History(ctx, item.ID)
		require.NoError(t, err)
		assert.Empty(t, history)

		_, ok, err := kivs.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.ErrorIs(t, store.Delete(ctx, item.ID), todo.ErrNotFound)
	})
}
