package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

// SlotRepository stores whole string values under a key
type SlotRepository interface {
	// Get returns the value stored under key; ok is false when the slot is empty
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key, value string) error

	// Delete removes the slot; deleting an empty slot is not an error
	Delete(ctx context.Context, key string) error
}

// SQLSlotRepository implements SlotRepository on the slots table
type SQLSlotRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	logger       *loggy.Logger
	builder      sq.StatementBuilderType
}

// NewSQLSlotRepository creates a new SQL slot repository. Each query is
// bounded by queryTimeout; zero leaves only the caller's deadline.
func NewSQLSlotRepository(db *sql.DB, queryTimeout time.Duration, logger *loggy.Logger) *SQLSlotRepository {
	return &SQLSlotRepository{
		db:           db,
		queryTimeout: queryTimeout,
		logger:       logger,
		builder:      sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (r *SQLSlotRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// Get retrieves a slot value by key
func (r *SQLSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := r.builder.Select("value").
		From("slots").
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building get slot query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var value string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("executing get slot query: %w", err)
	}

	return value, true, nil
}

// Set inserts or replaces a slot value
func (r *SQLSlotRepository) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()

	query, args, err := r.builder.Insert("slots").
		Columns("key", "value", "created_at", "updated_at").
		Values(key, value, now, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building set slot query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing set slot query: %w", err)
	}

	return nil
}

// Delete removes a slot
func (r *SQLSlotRepository) Delete(ctx context.Context, key string) error {
	query, args, err := r.builder.Delete("slots").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete slot query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing delete slot query: %w", err)
	}

	return nil
}
