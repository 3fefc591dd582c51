package todomanage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/todomanage/internal/core/config"
	"github.com/colonyops/todomanage/internal/core/eventbus/testbus"
	"github.com/colonyops/todomanage/internal/data/db"
)

// t0 is a Tuesday.
var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestApp(t *testing.T) (*App, *testClock, *testbus.Bus) {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tc := &testClock{now: t0}
	tb := testbus.New(t)
	cfg := config.DefaultConfig()

	app := NewApp(&cfg, database, tb.EventBus, Clock{Now: tc.Now, Location: time.UTC}, zerolog.Nop())
	return app, tc, tb
}
