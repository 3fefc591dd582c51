package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, time.Minute, cfg.Reminders.PollInterval)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
timezone: Asia/Singapore
user: alice
database:
  max_open_conns: 4
reminders:
  poll_interval: 30s
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Asia/Singapore", cfg.Timezone)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns, "unset keys keep defaults")
	assert.Equal(t, 30*time.Second, cfg.Reminders.PollInterval)
	assert.Equal(t, "Asia/Singapore", cfg.Location().String())
}

func TestLoad_Includes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
user: bob
theme: gruvbox
database:
  max_open_conns: 2
  max_idle_conns: 1
`)
	writeFile(t, dir, "override.yaml", `
database:
  max_idle_conns: 2
`)
	path := writeFile(t, dir, "config.yaml", `
includes: [base.yaml, override.yaml]
user: alice
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User, "main file wins over includes")
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, 2, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Database.MaxIdleConns, "later includes override earlier ones")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "timezone: [", wantErr: "parse config file"},
		{name: "unknown timezone", content: "timezone: Mars/Olympus", wantErr: "not a known location"},
		{name: "missing include", content: "includes: [nope.yaml]", wantErr: "read include"},
		{name: "negative poll", content: "reminders:\n  poll_interval: -1m", wantErr: "poll_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := Load(path, t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiresDataDir(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate())

	cfg.DataDir = t.TempDir()
	require.NoError(t, cfg.Validate())
}

func TestValidateDeep(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.User = "alice"
		require.NoError(t, cfg.ValidateDeep(""))
	})

	t.Run("reports every field", func(t *testing.T) {
		dir := t.TempDir()
		dataFile := writeFile(t, dir, "data", "not a dir")

		cfg := DefaultConfig()
		cfg.DataDir = dataFile
		cfg.Theme = "neon"
		cfg.User = "not a user!"
		cfg.Reminders.PollInterval = 0

		err := cfg.ValidateDeep(dir)
		require.Error(t, err)

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)

		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field)
		}
		assert.ElementsMatch(t, []string{"config_file", "data_dir", "theme", "user", "reminders.poll_interval"}, fields)
	})
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.MaxIdleConns = 20
	cfg.Reminders.PollInterval = 10 * time.Millisecond

	warnings := cfg.Warnings()
	categories := make([]string, 0, len(warnings))
	for _, w := range warnings {
		categories = append(categories, w.Category)
	}
	assert.Equal(t, []string{"User", "Reminders", "Database"}, categories)
}
