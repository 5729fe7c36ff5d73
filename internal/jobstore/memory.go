package jobstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps render records in process memory. It is the default
// backend and the one tests use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.records[rec.RenderID] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, renderID string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[renderID]
	return rec, ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, renderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, renderID)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
