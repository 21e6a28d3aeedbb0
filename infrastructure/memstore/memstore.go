// Package memstore provides in-memory implementations of the vote and
// result stores, used by tests and for local runs against file-loaded
// fixtures.
package memstore

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/ahrav/go-mandate/internal/domain"
	"github.com/ahrav/go-mandate/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.VoteStore   = (*Store)(nil)
	_ ports.ResultStore = (*Store)(nil)
)

// Store holds reference data, vote snapshots, and computed results in
// memory. It is safe for concurrent use; results are replaced
// atomically per year.
type Store struct {
	mu        sync.RWMutex
	ref       *domain.ReferenceData
	snapshots map[int]*domain.VoteSnapshot
	results   map[int]*domain.Result
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		snapshots: make(map[int]*domain.VoteSnapshot),
		results:   make(map[int]*domain.Result),
	}
}

// SetReferenceData installs the reference snapshot served by
// GetReferenceData.
func (s *Store) SetReferenceData(ref *domain.ReferenceData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ref = ref
}

// SetVoteSnapshot installs the vote snapshot served for its year.
func (s *Store) SetVoteSnapshot(snap *domain.VoteSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Year] = snap
}

// GetReferenceData implements ports.VoteStore.
func (s *Store) GetReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ref == nil {
		return nil, ports.NewStoreError("get_reference_data", "", ports.ErrNotFound)
	}
	return s.ref, nil
}

// GetVoteAggregates implements ports.VoteStore.
func (s *Store) GetVoteAggregates(ctx context.Context, year int) (*domain.VoteSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[year]
	if !ok {
		return nil, ports.NewStoreError("get_vote_aggregates", yearKey(year), ports.ErrNotFound)
	}
	return snap, nil
}

// ReplaceResult implements ports.ResultStore with replace-on-write
// semantics: readers observe either the previous result or the new one,
// never a mixture.
func (s *Store) ReplaceResult(ctx context.Context, result *domain.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.Year] = result
	return nil
}

// GetResult implements ports.ResultStore.
func (s *Store) GetResult(ctx context.Context, year int) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[year]
	if !ok {
		return nil, ports.NewStoreError("get_result", yearKey(year), ports.ErrNotFound)
	}
	return result, nil
}

// Years implements ports.ResultStore.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	years := make([]int, 0, len(s.results))
	for year := range s.results {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func yearKey(year int) string {
	return "year=" + strconv.Itoa(year)
}
