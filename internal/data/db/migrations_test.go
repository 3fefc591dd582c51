package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func openRawConn(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), FileName)
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	statuses, err := Status(ctx, database.Conn())
	require.NoError(t, err)

	migrations, err := loadMigrations()
	require.NoError(t, err)

	require.Len(t, statuses, len(migrations))
	for i, m := range migrations {
		assert.Equal(t, m.Version, statuses[i].Version)
		assert.NotNil(t, statuses[i].AppliedAt, "migration %d should be applied", m.Version)
	}

	for _, table := range []string{"status", "todo_item", "event", "kiv_entry", "todo_share", "notification", "kv_store"} {
		_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM "+table+" LIMIT 0")
		require.NoError(t, err, "%s table should exist", table)
	}
}

func TestMigrateUp_SeedsStatuses(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	rows, err := database.Conn().QueryContext(ctx, "SELECT id, name FROM status ORDER BY id")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	got := map[int]string{}
	for rows.Next() {
		var (
			id   int
			name string
		)
		require.NoError(t, rows.Scan(&id, &name))
		got[id] = name
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, map[int]string{5: "new", 6: "done", 7: "failed", 8: "re-assign", 9: "kiv"}, got)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := migrateUp(ctx, database.Conn())
	assert.NoError(t, err, "second migrateUp should be idempotent")
}

func TestMigrateUp_KivUniquePerItem(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO todo_item (id, owner_id, title, created_at, modified_at, target_at)
		VALUES (1, 'alice', 'Buy milk', 1, 1, 1)
	`)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, "INSERT INTO kiv_entry (todo_id, user_id, entered_at) VALUES (1, 'alice', 1)")
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, "INSERT INTO kiv_entry (todo_id, user_id, entered_at) VALUES (1, 'alice', 2)")
	assert.Error(t, err, "a second kiv row for the same item should violate uniqueness")
}

func TestMigrateDown(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO todo_item (owner_id, title, created_at, modified_at, target_at)
		VALUES ('alice', 'Buy milk', 1, 1, 1)
	`)
	require.NoError(t, err)

	// Revert the kv store and the sharing and notifications migrations.
	err = MigrateDown(ctx, conn, 2)
	require.NoError(t, err)

	for _, table := range []string{"kv_store", "notification", "todo_share"} {
		_, err = conn.ExecContext(ctx, "SELECT 1 FROM "+table+" LIMIT 0")
		require.Error(t, err, "%s should not exist after down migration", table)
	}

	var count int
	err = conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM todo_item").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "todo row should be preserved")

	statuses, err := Status(ctx, conn)
	require.NoError(t, err)
	assert.Nil(t, statuses[len(statuses)-1].AppliedAt)
	assert.Nil(t, statuses[len(statuses)-2].AppliedAt)
	assert.NotNil(t, statuses[len(statuses)-3].AppliedAt)
}

func TestMigrateDown_InvalidN(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	err := MigrateDown(ctx, conn, 0)
	require.Error(t, err, "n=0 should fail")

	err = MigrateDown(ctx, conn, -1)
	require.Error(t, err, "n=-1 should fail")
}

func TestMigrateDown_TooMany(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	migrations, err := loadMigrations()
	require.NoError(t, err)

	err = MigrateDown(ctx, database.Conn(), len(migrations)+1)
	assert.Error(t, err, "requesting more down migrations than applied should fail")
}

func TestLoadMigrations_Valid(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version,
			"migrations should be in ascending version order")
	}

	for _, m := range migrations {
		assert.NotEmpty(t, m.UpSQL, "migration %d up SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %d down SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.Name, "migration %d name should not be empty", m.Version)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename      string
		wantVersion   int
		wantName      string
		wantDirection string
		wantErr       bool
	}{
		{"0001_init.up.sql", 1, "init", "up", false},
		{"0001_init.down.sql", 1, "init", "down", false},
		{"0002_kiv_entry.up.sql", 2, "kiv_entry", "up", false},
		{"0100_big_version.down.sql", 100, "big_version", "down", false},
		{"bad.sql", 0, "", "", true},
		{"0001_init.sql", 0, "", "", true},
		{"0000_zero.up.sql", 0, "", "", true},
		{"-1_negative.up.sql", 0, "", "", true},
		{"abc_notnumber.up.sql", 0, "", "", true},
		{"0001_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDirection, direction)
		})
	}
}
