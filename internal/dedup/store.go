package dedup

import (
	"sync"
	"time"
)

// Provenance records where a hash was first seen. The store keeps hashes
// and this minimal metadata only; no raw code is retained.
type Provenance struct {
	FirstSeenPath string    `json:"first_seen_path"`
	FirstSeenAt   time.Time `json:"first_seen_timestamp"`
}

// SeenStore is the persistent set of previously admitted hashes. It keeps
// two independent key sets: exact content hashes and structural
// fingerprints. Records are append-only; an existing key is never
// overwritten.
//
// Implementations must make Insert atomic across both keys so two callers
// racing on the same unit cannot both win.
type SeenStore interface {
	// Seen reports, without modifying the store, whether either key is
	// already present.
	Seen(exact, structural string) (exactHit, structuralHit bool, err error)

	// Insert records both keys if neither is present. It returns true when
	// this call admitted the unit, false when another caller already had.
	Insert(exact, structural string, rec Provenance) (won bool, err error)

	// Close releases the underlying store.
	Close() error
}

// MemStore is an in-memory SeenStore for tests and single-run use.
type MemStore struct {
	mu         sync.Mutex
	exact      map[string]Provenance
	structural map[string]Provenance
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		exact:      make(map[string]Provenance),
		structural: make(map[string]Provenance),
	}
}

// Seen reports membership of either key.
func (s *MemStore) Seen(exact, structural string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exactHit := s.exact[exact]
	_, structuralHit := s.structural[structural]
	return exactHit, structuralHit, nil
}

// Insert atomically records both keys if neither exists.
func (s *MemStore) Insert(exact, structural string, rec Provenance) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exact[exact]; ok {
		return false, nil
	}
	if _, ok := s.structural[structural]; ok {
		return false, nil
	}
	s.exact[exact] = rec
	s.structural[structural] = rec
	return true, nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }
