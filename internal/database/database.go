// Package database provides SQLite database management for BugSquash
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"github.com/tildaslashalef/bugsquash/internal/migrations"
)

var (
	// ErrNotInitialized is returned when the database has not been initialized
	ErrNotInitialized = errors.New("database not initialized")

	db     *sql.DB
	dbLock sync.Mutex
)

// DB returns the database connection
func DB() (*sql.DB, error) {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db == nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// InitDB opens the database connection once
func InitDB(cfg *config.Config) error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db != nil {
		return nil
	}

	loggy.Info("Initializing database", "path", cfg.Database.Path)

	conn, err := sql.Open("sqlite3", buildSQLiteDSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	conn.SetConnMaxLifetime(cfg.Database.ConnMaxLife)
	conn.SetMaxOpenConns(1) // SQLite supports only one writer at a time
	conn.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db = conn
	loggy.Info("Database initialized successfully")
	return nil
}

// buildSQLiteDSN builds a SQLite DSN with additional parameters
func buildSQLiteDSN(cfg *config.DatabaseConfig) string {
	if cfg.Path == ":memory:" || strings.HasPrefix(cfg.Path, "file::memory:") {
		return cfg.Path
	}

	params := url.Values{}
	params.Add("_busy_timeout", strconv.Itoa(cfg.BusyTimeout))
	params.Add("_journal_mode", cfg.JournalMode)
	params.Add("_synchronous", cfg.SynchronousMode)
	if cfg.CacheSize != 0 {
		params.Add("_cache_size", strconv.Itoa(cfg.CacheSize))
	}
	params.Add("_foreign_keys", strconv.FormatBool(cfg.ForeignKeys))

	return fmt.Sprintf("file:%s?%s", cfg.Path, params.Encode())
}

// CloseDB closes the database connection
func CloseDB() error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db == nil {
		return nil
	}

	err := db.Close()
	db = nil
	return err
}

// newMigrator builds a migrate instance over the embedded migrations
func newMigrator() (*migrate.Migrate, error) {
	conn, err := DB()
	if err != nil {
		return nil, err
	}

	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	src, err := migrations.GetSource()
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// currentVersion returns the applied schema version, 0 when none
func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// RunMigrations applies all pending migrations and returns how many were applied
func RunMigrations() (int, error) {
	m, err := newMigrator()
	if err != nil {
		return 0, err
	}
	// Closing the migrator would close the shared connection via the sqlite3 driver

	before, _, err := currentVersion(m)
	if err != nil {
		return 0, err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		loggy.Error("Failed to apply migrations", "error", err)
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, dirty, err := currentVersion(m)
	if err != nil {
		return 0, err
	}

	loggy.Info("Database migration complete", "version", after, "dirty", dirty)
	return int(after - before), nil
}

// RevertMigrations reverts migrations back by the specified number of steps
func RevertMigrations(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}

	m, err := newMigrator()
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		loggy.Error("Failed to revert migrations", "error", err)
		return fmt.Errorf("failed to revert migrations: %w", err)
	}

	version, dirty, err := currentVersion(m)
	if err != nil {
		return err
	}

	loggy.Info("Database migration reversion complete", "version", version, "dirty", dirty)
	return nil
}
