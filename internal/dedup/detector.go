// Package dedup implements the two-tier duplicate detector: an exact
// content-hash tier and a structural-fingerprint tier over a persistent
// cross-run store, fronted by an in-process hot cache.
package dedup

import (
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/codecorpus/internal/extract"
)

// Status is the duplicate verdict for a unit.
type Status int

const (
	// New means neither key has been seen before.
	New Status = iota
	// ExactDuplicate means the content hash matched a previous unit.
	ExactDuplicate
	// NearDuplicate means the structural fingerprint matched: same shape,
	// different identifiers or formatting. Still rejected — it adds no
	// training signal.
	NearDuplicate
)

// String returns the status label used in statistics and logs.
func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case ExactDuplicate:
		return "exact_duplicate"
	case NearDuplicate:
		return "near_duplicate"
	default:
		return "unknown"
	}
}

// defaultHotCacheSize bounds the in-process cache of seen keys.
const defaultHotCacheSize = 100_000

// Detector answers whether a unit is new, checking the exact tier first
// and the structural tier second. The persistent store is the source of
// truth; the otter cache only short-circuits repeat lookups of keys
// already known to be seen.
type Detector struct {
	store SeenStore
	hot   otter.Cache[string, struct{}]
}

// NewDetector creates a detector over the given store.
func NewDetector(store SeenStore) (*Detector, error) {
	hot, err := otter.MustBuilder[string, struct{}](defaultHotCacheSize).Build()
	if err != nil {
		return nil, err
	}
	return &Detector{store: store, hot: hot}, nil
}

// Check reports the unit's duplicate status without recording anything.
// Two concurrent callers may both observe New for the same unit; Commit
// is the serialization point.
func (d *Detector) Check(unit extract.CodeUnit) (Status, error) {
	if d.hot.Has(exactKey(unit)) {
		return ExactDuplicate, nil
	}
	if d.hot.Has(structuralKey(unit)) {
		return NearDuplicate, nil
	}

	exactHit, structuralHit, err := d.store.Seen(unit.ContentHash, unit.StructuralFingerprint)
	if err != nil {
		return New, err
	}
	switch {
	case exactHit:
		d.hot.Set(exactKey(unit), struct{}{})
		return ExactDuplicate, nil
	case structuralHit:
		d.hot.Set(structuralKey(unit), struct{}{})
		return NearDuplicate, nil
	}
	return New, nil
}

// Commit atomically records the unit's keys. It returns New when this
// call admitted the unit; a duplicate status means a concurrent caller
// won the race and the unit must be counted as a duplicate after all.
//
// The pipeline calls Commit only after storage has acknowledged the
// unit's batch (write-then-record), so a unit is never marked seen
// without having been persisted.
func (d *Detector) Commit(unit extract.CodeUnit) (Status, error) {
	won, err := d.store.Insert(unit.ContentHash, unit.StructuralFingerprint, Provenance{
		FirstSeenPath: unit.SourcePath,
		FirstSeenAt:   time.Now().UTC(),
	})
	if err != nil {
		return New, err
	}

	d.hot.Set(exactKey(unit), struct{}{})
	d.hot.Set(structuralKey(unit), struct{}{})

	if won {
		return New, nil
	}
	// The race loser re-checks which tier matched for accurate accounting.
	exactHit, _, err := d.store.Seen(unit.ContentHash, unit.StructuralFingerprint)
	if err != nil {
		return ExactDuplicate, err
	}
	if exactHit {
		return ExactDuplicate, nil
	}
	return NearDuplicate, nil
}

// Close releases the hot cache and the underlying store.
func (d *Detector) Close() error {
	d.hot.Close()
	return d.store.Close()
}

func exactKey(unit extract.CodeUnit) string {
	return "e:" + unit.ContentHash
}

func structuralKey(unit extract.CodeUnit) string {
	return "s:" + unit.StructuralFingerprint
}
