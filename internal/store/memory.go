package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps the history in process memory. Readers run concurrently;
// writers are exclusive.
type MemoryStore struct {
	mu        sync.RWMutex
	records   map[ExecutionID]Record
	latest    ExecutionID
	hasLatest bool
	runtime   *RuntimeConfig
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[ExecutionID]Record)}
}

// AddRecord stores a copy of r and makes it the latest record.
func (s *MemoryStore) AddRecord(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil {
		s.records = make(map[ExecutionID]Record)
	}
	s.records[r.ID] = r.Clone()
	s.latest = r.ID
	s.hasLatest = true
	return nil
}

// Record returns a copy of the record with the given id.
func (s *MemoryStore) Record(_ context.Context, id ExecutionID) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return Record{}, false, nil
	}
	return r.Clone(), true, nil
}

// LatestID returns the id of the last added record.
func (s *MemoryStore) LatestID(context.Context) (ExecutionID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest, s.hasLatest, nil
}

// Records returns copies of all records ordered by id.
func (s *MemoryStore) Records(context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// RuntimeConfig returns the last configuration passed to SetRuntimeConfig.
func (s *MemoryStore) RuntimeConfig(context.Context) (RuntimeConfig, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runtime == nil {
		return RuntimeConfig{}, false, nil
	}
	return cloneRuntimeConfig(*s.runtime), true, nil
}

// SetRuntimeConfig replaces the stored configuration.
func (s *MemoryStore) SetRuntimeConfig(_ context.Context, cfg RuntimeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := cloneRuntimeConfig(cfg)
	s.runtime = &dup
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func cloneRuntimeConfig(cfg RuntimeConfig) RuntimeConfig {
	cfg.Command = append([]string(nil), cfg.Command...)
	return cfg
}
