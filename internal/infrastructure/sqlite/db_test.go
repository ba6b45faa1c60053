package sqlite

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "rulekit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0700), info.Mode().Perm())
	}
}

func TestNewDB_RunsMigrations(t *testing.T) {
	db := newTestDB(t)

	var tableName string
	err := db.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='ui_resources'",
	).Scan(&tableName)
	require.NoError(t, err, "ui_resources table should exist after migrations")

	var indexName string
	err = db.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_ui_resources_fetched_at'",
	).Scan(&indexName)
	require.NoError(t, err)

	var version int
	var dirty bool
	require.NoError(t, db.conn.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty))
	require.Equal(t, 2, version)
	require.False(t, dirty)
}

func TestNewDB_ReopenIsIdempotentAndBacksUp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec(
		"INSERT INTO ui_resources (id, content, size, fetched_at) VALUES (?, ?, ?, ?)",
		"static/a.js", []byte("x"), 1, 1000,
	)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	var count int
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM ui_resources").Scan(&count))
	require.Equal(t, 1, count)

	info, err := os.Stat(dbPath + ".bak")
	require.NoError(t, err, "backup should exist after reopening")
	require.Greater(t, info.Size(), int64(0))
}

func TestNewDB_Pragmas(t *testing.T) {
	db := newTestDB(t)

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout)
}

func TestDB_Connection(t *testing.T) {
	db := newTestDB(t)
	require.Same(t, db.conn, db.Connection())
	require.NoError(t, db.Connection().Ping())
}
