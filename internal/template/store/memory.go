package store

import (
	"context"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// Memory keeps slots in process memory. It is the default backend and the one tests use.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[slot]
	if !ok {
		return nil, template.ErrNotFound
	}

	return slices.Clone(data), nil
}

func (m *Memory) Set(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[slot] = slices.Clone(data)

	return nil
}
