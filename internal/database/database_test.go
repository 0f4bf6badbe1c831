package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Database = config.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "bugsquash.db"),
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		BusyTimeout:     5000,
		ForeignKeys:     true,
		ConnMaxLife:     time.Minute,
		QueryTimeout:    time.Second,
	}
	return cfg
}

func TestBuildSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", buildSQLiteDSN(&config.DatabaseConfig{Path: ":memory:"}))

	dsn := buildSQLiteDSN(&config.DatabaseConfig{
		Path:            "/tmp/x.db",
		BusyTimeout:     5000,
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		ForeignKeys:     true,
	})
	assert.Contains(t, dsn, "file:/tmp/x.db?")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.NotContains(t, dsn, "_cache_size")
}

func TestNotInitialized(t *testing.T) {
	require.NoError(t, CloseDB())

	_, err := DB()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = RunMigrations()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitAndMigrate(t *testing.T) {
	loggy.NewNoopLogger()
	require.NoError(t, InitDB(testConfig(t)))
	defer CloseDB()

	applied, err := RunMigrations()
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	// Second run is a no-op
	applied, err = RunMigrations()
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	conn, err := DB()
	require.NoError(t, err)

	var name string
	err = conn.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name='slots'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "slots", name)

	require.NoError(t, RevertMigrations(1))
	err = conn.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name='slots'").Scan(&name)
	assert.Error(t, err)

	assert.Error(t, RevertMigrations(0))
}
