package store

import (
	"context"
	"sync"
)

// Memory keeps rows in process memory.
type Memory struct {
	mu   sync.Mutex
	rows map[string][]Row
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string][]Row)}
}

func (m *Memory) DeleteAll(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, owner)
	return nil
}

func (m *Memory) Create(_ context.Context, owner string, r Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Owner = owner
	m.rows[owner] = append(m.rows[owner], r)
	return nil
}

func (m *Memory) List(_ context.Context, owner string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.rows[owner]...), nil
}
