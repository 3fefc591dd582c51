package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/colonyops/todomanage/internal/data/db"
	"github.com/colonyops/todomanage/internal/data/stores"
	"github.com/colonyops/todomanage/internal/todomanage"
)

type fakeProcessor struct {
	calls  int
	owners []string
	err    error
}

func (f *fakeProcessor) Process(_ context.Context, owner string) (todomanage.ProcessReport, error) {
	f.calls++
	f.owners = append(f.owners, owner)
	if f.err != nil {
		return todomanage.ProcessReport{}, f.err
	}
	return todomanage.ProcessReport{
		RanAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Sent:     []notify.Notification{{ID: "n1"}, {ID: "n2"}},
		Failures: []todomanage.ProcessFailure{{TodoID: 3, Error: "boom"}},
	}, nil
}

func newKV(t *testing.T) *stores.KVStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestSweeper_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("processes every owner and stores a report", func(t *testing.T) {
		store := newKV(t)
		proc := &fakeProcessor{}
		s := New(proc, store, time.Minute, zerolog.Nop())

		report, err := s.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{""}, proc.owners)
		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 1, report.Failed)
		assert.False(t, report.Skipped)

		last, ok, err := LastReport(ctx, store)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, report.Sent, last.Sent)
		assert.Equal(t, report.Holder, last.Holder)
		assert.True(t, report.RanAt.Equal(last.RanAt))
	})

	t.Run("lease holder renews, others skip", func(t *testing.T) {
		store := newKV(t)
		first := &fakeProcessor{}
		second := &fakeProcessor{}
		a := New(first, store, time.Minute, zerolog.Nop())
		b := New(second, store, time.Minute, zerolog.Nop())

		_, err := a.RunOnce(ctx)
		require.NoError(t, err)

		report, err := b.RunOnce(ctx)
		require.NoError(t, err)
		assert.True(t, report.Skipped)
		assert.Zero(t, second.calls)

		_, err = a.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, first.calls)
	})

	t.Run("process failure is recorded", func(t *testing.T) {
		store := newKV(t)
		s := New(&fakeProcessor{err: errors.New("db gone")}, store, time.Minute, zerolog.Nop())

		_, err := s.RunOnce(ctx)
		require.Error(t, err)

		last, ok, err := LastReport(ctx, store)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "db gone", last.LastErr)
	})

	t.Run("no report before the first run", func(t *testing.T) {
		_, ok, err := LastReport(ctx, newKV(t))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	store := newKV(t)
	proc := &fakeProcessor{}
	s := New(proc, store, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, ok, _ := LastReport(context.Background(), store)
		return ok
	}, time.Second, 10*time.Millisecond, "first sweep runs immediately")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
