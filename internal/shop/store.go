package shop

import (
	"net/url"
	"sync"
)

// Store is the owner of the shop URL query. The controller reads the
// current filters from it and writes every committed change back.
type Store interface {
	Get() url.Values
	Set(url.Values)
}

// MemoryStore keeps the query in memory. Get and Set copy, so callers never
// share the underlying map.
type MemoryStore struct {
	mu     sync.RWMutex
	values url.Values
}

func NewMemoryStore(initial url.Values) *MemoryStore {
	return &MemoryStore{values: copyValues(initial)}
}

func (s *MemoryStore) Get() url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyValues(s.values)
}

func (s *MemoryStore) Set(v url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = copyValues(v)
}

func copyValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
