package dedup

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketExact      = []byte("exact")
	bucketStructural = []byte("structural")
)

// BoltStore implements SeenStore backed by bbolt (embedded B+ tree).
// Two buckets hold the exact and structural keys with JSON-serialized
// provenance values. Inserts run in a single update transaction, which is
// the at-most-once admission point: a crash mid-write cannot leave one
// key set updated without the other.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the dedup database at the given path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketExact); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketStructural)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Seen checks both key sets in one read transaction.
func (s *BoltStore) Seen(exact, structural string) (bool, bool, error) {
	var exactHit, structuralHit bool

	err := s.db.View(func(tx *bolt.Tx) error {
		exactHit = tx.Bucket(bucketExact).Get([]byte(exact)) != nil
		structuralHit = tx.Bucket(bucketStructural).Get([]byte(structural)) != nil
		return nil
	})
	if err != nil {
		return false, false, err
	}
	return exactHit, structuralHit, nil
}

// Insert records both keys if neither is present. bbolt serializes update
// transactions, so concurrent inserts of the same unit resolve to exactly
// one winner. Existing records are never overwritten (append-only).
func (s *BoltStore) Insert(exact, structural string, rec Provenance) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal provenance: %w", err)
	}

	won := false
	err = s.db.Update(func(tx *bolt.Tx) error {
		eb := tx.Bucket(bucketExact)
		sb := tx.Bucket(bucketStructural)

		if eb.Get([]byte(exact)) != nil || sb.Get([]byte(structural)) != nil {
			return nil
		}
		if err := eb.Put([]byte(exact), data); err != nil {
			return err
		}
		if err := sb.Put([]byte(structural), data); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// Provenance returns the first-seen record for an exact hash, or nil if
// the hash is unknown.
func (s *BoltStore) Provenance(exact string) (*Provenance, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := tx.Bucket(bucketExact).Get([]byte(exact)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var rec Provenance
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal provenance: %w", err)
	}
	return &rec, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
