package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/bugsquash/internal/config"
	"github.com/tildaslashalef/bugsquash/internal/database"
	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

func newTestStore(repo SlotRepository) *Store {
	return NewStore(repo, config.HistoryConfig{}, loggy.NewNoopLogger())
}

func TestStoreEmpty(t *testing.T) {
	store := newTestStore(newMemorySlotRepository())

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStoreAddNewestFirst(t *testing.T) {
	store := newTestStore(newMemorySlotRepository())
	fixed := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	first, err := store.Add(ctx, Item{Input: "first", RootCause: "a", Score: 80, Severity: "low"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ID, "hist-"))
	assert.Equal(t, fixed.UnixMilli(), first.Timestamp)

	_, err = store.Add(ctx, Item{Input: "second", Issue: IssueSummary{Title: "Bug", Number: 4, Repo: "your-repo"}})
	require.NoError(t, err)

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Input)
	assert.Equal(t, 4, items[0].Issue.Number)
	assert.Equal(t, "first", items[1].Input)
	assert.Equal(t, 80, items[1].Score)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestStoreCapacity(t *testing.T) {
	store := newTestStore(newMemorySlotRepository())
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, err := store.Add(ctx, Item{Input: fmt.Sprintf("bug %d", i)})
		require.NoError(t, err)
	}

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, DefaultCapacity)
	assert.Equal(t, "bug 10", items[0].Input)
	assert.Equal(t, "bug 1", items[9].Input)
}

func TestStoreTruncatesInput(t *testing.T) {
	store := newTestStore(newMemorySlotRepository())

	item, err := store.Add(context.Background(), Item{Input: strings.Repeat("é", 250)})
	require.NoError(t, err)
	assert.Equal(t, DefaultInputLimit, len([]rune(item.Input)))
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(newMemorySlotRepository())
	ctx := context.Background()

	_, err := store.Add(ctx, Item{Input: "x"})
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Clear(ctx))
}

func TestStoreCorruptSlot(t *testing.T) {
	repo := newMemorySlotRepository()
	store := newTestStore(repo)
	ctx := context.Background()

	for _, raw := range []string{"{not json", `{"id": "x"}`, "null"} {
		require.NoError(t, repo.Set(ctx, DefaultSlotKey, raw))

		items, err := store.List(ctx)
		require.NoError(t, err, raw)
		assert.Empty(t, items, raw)
		assert.NotNil(t, items, raw)
	}

	// A corrupt slot is overwritten by the next add
	_, err := store.Add(ctx, Item{Input: "fresh"})
	require.NoError(t, err)
	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestStoreConcurrentAdds(t *testing.T) {
	store := NewStore(newMemorySlotRepository(), config.HistoryConfig{Capacity: 50}, loggy.NewNoopLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Add(ctx, Item{Input: fmt.Sprintf("bug %d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestStoreOnSQLite(t *testing.T) {
	cfg := config.New()
	cfg.Database = config.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "history.db"),
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		BusyTimeout:     5000,
		ConnMaxLife:     time.Minute,
	}
	require.NoError(t, database.InitDB(cfg))
	defer database.CloseDB()

	_, err := database.RunMigrations()
	require.NoError(t, err)

	db, err := database.DB()
	require.NoError(t, err)

	store := newTestStore(NewSQLSlotRepository(db, 0, loggy.NewNoopLogger()))
	ctx := context.Background()

	_, err = store.Add(ctx, Item{Input: "one"})
	require.NoError(t, err)
	_, err = store.Add(ctx, Item{Input: "two"})
	require.NoError(t, err)

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "two", items[0].Input)

	require.NoError(t, store.Clear(ctx))
	items, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
