package state

import (
	"context"
	"sync"
)

// MemorySlot keeps slot payloads in process memory. Used when no database is
// configured and in tests.
type MemorySlot struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{slots: make(map[string][]byte)}
}

func (m *MemorySlot) Load(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemorySlot) Save(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[name] = stored
	return nil
}
