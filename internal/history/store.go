// Package history keeps a capped, newest-first log of recent analyses
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
	"github.com/tildaslashalef/bugsquash/internal/ulid"
)

// Defaults applied when the configuration leaves a value unset
const (
	DefaultSlotKey    = "bugsquash_history"
	DefaultCapacity   = 10
	DefaultInputLimit = 200
)

// Store is the history log. The whole list lives in a single slot and is
// rewritten on every change.
type Store struct {
	repo       SlotRepository
	key        string
	capacity   int
	inputLimit int
	now        func() time.Time
	logger     *loggy.Logger

	mu sync.Mutex
}

// NewStore creates a history store on top of repo
func NewStore(repo SlotRepository, cfg config.HistoryConfig, logger *loggy.Logger) *Store {
	s := &Store{
		repo:       repo,
		key:        cfg.SlotKey,
		capacity:   cfg.Capacity,
		inputLimit: cfg.InputLimit,
		now:        time.Now,
		logger:     logger,
	}
	if s.key == "" {
		s.key = DefaultSlotKey
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	if s.inputLimit <= 0 {
		s.inputLimit = DefaultInputLimit
	}
	return s
}

// List returns the stored items, newest first. A missing or unreadable slot
// yields an empty list.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add prepends item, assigning its ID and timestamp, and drops the oldest
// entries beyond capacity. The stored item is returned.
func (s *Store) Add(ctx context.Context, item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}

	item.ID = ulid.HistoryID()
	item.Timestamp = s.now().UnixMilli()
	item.Input = truncate(item.Input, s.inputLimit)

	updated := make([]Item, 0, len(items)+1)
	updated = append(updated, item)
	updated = append(updated, items...)
	if len(updated) > s.capacity {
		updated = updated[:s.capacity]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return Item{}, fmt.Errorf("encoding history: %w", err)
	}
	if err := s.repo.Set(ctx, s.key, string(data)); err != nil {
		return Item{}, fmt.Errorf("saving history: %w", err)
	}

	return item, nil
}

// Clear removes every entry
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]Item, error) {
	raw, ok, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if !ok || raw == "" {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("Discarding unreadable history", "key", s.key, "error", err)
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// truncate cuts s to at most limit runes
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
