package property

import (
	"context"
	"sync"
)

type Memory struct {
	mu    sync.RWMutex
	items map[string]Property
}

func NewMemory(props ...Property) *Memory {
	m := &Memory{items: make(map[string]Property, len(props))}
	for _, p := range props {
		m.items[p.ID] = p
	}
	return m
}

func (m *Memory) Get(_ context.Context, id string) (Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	return p, nil
}
