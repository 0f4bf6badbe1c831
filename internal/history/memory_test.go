package history

import (
	"context"
	"sync"
)

// memorySlotRepository keeps slots in process memory
type memorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

func newMemorySlotRepository() *memorySlotRepository {
	return &memorySlotRepository{slots: make(map[string]string)}
}

func (r *memorySlotRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.slots[key]
	return value, ok, nil
}

func (r *memorySlotRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key] = value
	return nil
}

func (r *memorySlotRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, key)
	return nil
}
