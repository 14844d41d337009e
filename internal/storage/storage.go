package storage

import (
	"fmt"
	"sync"

	"github.com/jmir-tools/acekit/internal/results"
)

// FieldStore collects per-field reconciliation results from concurrent workers.
type FieldStore struct {
	fields map[string]results.FieldResult
	mu     sync.RWMutex
}

func New() *FieldStore {
	return &FieldStore{
		fields: make(map[string]results.FieldResult),
	}
}

func (s *FieldStore) Get(field string) (results.FieldResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, exists := s.fields[field]
	return res, exists
}

func (s *FieldStore) Set(field string, res results.FieldResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[field] = res
}

func (s *FieldStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

// Ordered returns the results for fields in the given order. A field with no
// stored result is an error.
func (s *FieldStore) Ordered(fields []string) ([]results.FieldResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]results.FieldResult, 0, len(fields))
	for _, f := range fields {
		res, ok := s.fields[f]
		if !ok {
			return nil, fmt.Errorf("no result stored for field %q", f)
		}
		out = append(out, res)
	}
	return out, nil
}
