package session

import (
	"context"
	"sync"
)

// MemoryTier is the ephemeral tier: entries live only for the current
// process, the analog of a tab-scoped browser session. Also used as a
// stand-in for the durable tier in tests.
type MemoryTier struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{entries: make(map[string][]byte)}
}

func (t *MemoryTier) Get(_ context.Context, key string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	value, ok := t.entries[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (t *MemoryTier) Put(_ context.Context, entries map[string][]byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, value := range entries {
		stored := make([]byte, len(value))
		copy(stored, value)
		t.entries[key] = stored
	}
	return nil
}

func (t *MemoryTier) Clear(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string][]byte)
	return nil
}
