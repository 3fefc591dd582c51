package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/core/config"
	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/data/db"
	"github.com/colonyops/todomanage/internal/todomanage"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type harness struct {
	flags *Flags
	app   *todomanage.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	bus := eventbus.New(64)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)

	cfg := config.DefaultConfig()
	cfg.User = "alice"

	clock := todomanage.Clock{Now: func() time.Time { return t0 }, Location: time.UTC}

	return &harness{
		flags: &Flags{Config: &cfg},
		app:   todomanage.NewApp(&cfg, database, bus, clock, zerolog.Nop()),
	}
}

// run executes args against a fresh command tree and returns stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return h.runInput(t, "", args...)
}

func (h *harness) runInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := &cli.Command{
		Name:      "todomanage",
		Reader:    strings.NewReader(stdin),
		Writer:    &out,
		ErrWriter: &errOut,
	}
	root = NewTodoCmd(h.flags, h.app).Register(root)
	root = NewKivCmd(h.flags, h.app).Register(root)
	root = NewShareCmd(h.flags, h.app).Register(root)
	root = NewReminderCmd(h.flags, h.app).Register(root)

	err := root.Run(context.Background(), append([]string{"todomanage"}, args...))
	return out.String(), err
}

func TestTodoCommands(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "todo", "add", "--title", "Pay rent", "--details", "before **noon**")
	require.NoError(t, err)
	assert.Equal(t, "created 1\n", out)

	out, err = h.run(t, "todo", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "new")

	out, err = h.run(t, "todo", "done", "1")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = h.run(t, "todo", "status", "1")
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)

	_, err = h.run(t, "todo", "status", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid id "abc"`)
}

func TestTodoCommands_RequiresUser(t *testing.T) {
	h := newHarness(t)
	h.flags.Config.User = ""

	_, err := h.run(t, "todo", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user")

	h.flags.User = "bob"
	out, err := h.run(t, "todo", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No items")
}

func TestTodoCommands_SharedIsReadOnly(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "todo", "add", "--title", "Quarterly report")
	require.NoError(t, err)
	_, err = h.run(t, "share", "grant", "bob")
	require.NoError(t, err)

	h.flags.User = "bob"
	out, err := h.run(t, "todo", "shared")
	require.NoError(t, err)
	assert.Contains(t, out, "Quarterly report")
	assert.Contains(t, out, "alice")

	_, err = h.run(t, "todo", "done", "1")
	require.ErrorIs(t, err, todo.ErrNotFound)
}

func TestTodoCommands_Import(t *testing.T) {
	h := newHarness(t)

	input := `[
		{"title": "Water plants", "schedule": "tomorrow"},
		{"title": "Book flights", "details": "window seat", "remind_at": "2026-03-10 15:00"}
	]`

	out, err := h.runInput(t, input, "todo", "import")
	require.NoError(t, err)
	assert.Equal(t, "created 1\ncreated 2\n", out)

	out, err = h.run(t, "todo", "ls", "--day", "tomorrow")
	require.NoError(t, err)
	assert.Contains(t, out, "Water plants")
	assert.NotContains(t, out, "Book flights")

	out, err = h.run(t, "reminder", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Book flights")

	_, err = h.runInput(t, `[{"title": "x", "colour": "red"}]`, "todo", "import")
	require.Error(t, err)
}

func TestImportDocument(t *testing.T) {
	doc := importDocument(importItem{
		Title:    `Call "Sam"`,
		Details:  "line one\nline two",
		Schedule: "custom",
		Date:     "2026-03-12",
		RemindAt: "2026-03-12 08:30",
	})

	fm, body := todo.ParseDocument(doc)
	assert.Equal(t, `Call "Sam"`, fm.Title)
	assert.Equal(t, "custom", fm.Schedule)
	assert.Equal(t, "2026-03-12", fm.Date)
	assert.Equal(t, "2026-03-12 08:30", fm.RemindAt)
	assert.Equal(t, "line one\nline two", strings.TrimSpace(body))
}

func TestArgID(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int64
		wantErr string
	}{
		{name: "valid", args: []string{"42"}, want: 42},
		{name: "missing", args: nil, wantErr: "usage: x <id>"},
		{name: "negative", args: []string{"-3"}, wantErr: "invalid id"},
		{name: "text", args: []string{"one"}, wantErr: "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int64
			var gotErr error
			c := &cli.Command{
				Name:      "x",
				Writer:    &bytes.Buffer{},
				ErrWriter: &bytes.Buffer{},
				Action: func(_ context.Context, c *cli.Command) error {
					got, gotErr = argID(c, "x <id>")
					return nil
				},
			}
			require.NoError(t, c.Run(context.Background(), append([]string{"x", "--"}, tt.args...)))

			if tt.wantErr != "" {
				require.Error(t, gotErr)
				assert.Contains(t, gotErr.Error(), tt.wantErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
