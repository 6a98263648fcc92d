// Package memstore is an in-memory ontology feed for tests and embedding hosts.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
)

// Source is a mutable record set. Snapshots taken with Records are independent
// of later changes.
type Source struct {
	mu      sync.RWMutex
	records []ontology.Record
	byTerm  map[string][]int
}

// New creates an empty source.
func New() *Source {
	return &Source{byTerm: make(map[string][]int)}
}

// Add validates and appends records.
func (s *Source) Add(records ...ontology.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		key := strings.ToLower(r.Term)
		s.byTerm[key] = append(s.byTerm[key], len(s.records))
		s.records = append(s.records, copyRecord(r))
	}
	return nil
}

// Find returns the records stored under term, case-insensitively.
func (s *Source) Find(term string) []ontology.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byTerm[strings.ToLower(term)]
	out := make([]ontology.Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, copyRecord(s.records[i]))
	}
	return out
}

// Terms returns the distinct stored terms, sorted.
func (s *Source) Terms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.records))
	var out []string
	for _, r := range s.records {
		if !seen[r.Term] {
			seen[r.Term] = true
			out = append(out, r.Term)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored records.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records implements ontology.Source.
func (s *Source) Records(ctx context.Context) ([]ontology.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ontology.Record, len(s.records))
	for i, r := range s.records {
		out[i] = copyRecord(r)
	}
	return out, nil
}

func copyRecord(r ontology.Record) ontology.Record {
	out := r
	if r.Slots != nil {
		out.Slots = append([]ontology.SlotOverride(nil), r.Slots...)
	}
	return out
}
