package persistence

import (
	"sort"
	"sync"

	"github.com/duskforge/labyrinth/internal/engine"
	"github.com/duskforge/labyrinth/internal/entity"
)

// MemoryStore is an in-process SaveStore + LeaderboardStore, for tests and
// for running the server without a database (spec's "every component must
// be runnable without a live Postgres instance" supplement). It satisfies
// the exact same interfaces as CharacterStore/LeaderboardStore.
type MemoryStore struct {
	mu      sync.Mutex
	saves   map[string]entity.Record
	entries []engine.LeaderboardEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{saves: make(map[string]entity.Record)}
}

func (m *MemoryStore) Save(deviceID string, rec entity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[deviceID] = rec
	return nil
}

func (m *MemoryStore) Load(deviceID string) (entity.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.saves[deviceID]
	return rec, ok, nil
}

func (m *MemoryStore) Delete(deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, deviceID)
	return nil
}

func (m *MemoryStore) Append(entry engine.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryStore) Recent(limit int) ([]engine.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]engine.LeaderboardEntry, len(m.entries))
	copy(out, m.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
