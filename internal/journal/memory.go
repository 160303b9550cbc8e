package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryJournal keeps entries in memory. Used in tests and journal-less runs.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemory() *MemoryJournal {
	return &MemoryJournal{entries: make([]Entry, 0, 256)}
}

func (m *MemoryJournal) LogOperation(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryJournal) Operations(ctx context.Context, op string, start, end time.Time) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entry
	for _, e := range m.entries {
		if op != "" && e.Op != op {
			continue
		}
		if e.Time.Before(start) || e.Time.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryJournal) Close() error { return nil }
