package flagstore

import (
	"context"
	"sync"
)

// MemFlagStore keeps review flags in process memory. Suitable for tests and
// single-process deployments without redis.
type MemFlagStore struct {
	mu   sync.Mutex
	data map[string][]string
}

func NewMemFlagStore() *MemFlagStore {
	return &MemFlagStore{
		data: make(map[string][]string),
	}
}

func (s *MemFlagStore) Get(ctx context.Context, contentHash string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[contentHash]
	if !ok {
		return []string{}, nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemFlagStore) Add(ctx context.Context, contentHash string, flags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.data[contentHash]
	v = append(v, flags...)
	s.data[contentHash] = dedupeStrings(v)
	return nil
}

// does not error if flags are not present
func (s *MemFlagStore) Remove(ctx context.Context, contentHash string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]bool)
	for _, f := range s.data[contentHash] {
		m[f] = true
	}
	for _, f := range flags {
		delete(m, f)
	}
	out := []string{}
	for f := range m {
		out = append(out, f)
	}
	s.data[contentHash] = out
	return nil
}

func dedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}
