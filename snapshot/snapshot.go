// Package snapshot persists versioned, checksummed captures of collection
// contents. A Keeper drains a collection into an envelope blob (Cap'n Proto
// packed encoding, optionally zstd-compressed) and hands it to a Store;
// stores are pluggable (in-memory, bbolt file, S3-compatible object
// storage). Versions are monotonically increasing and never reused.
package snapshot

import (
	"context"
	"errors"
	"hash/fnv"
	"time"
)

// ErrNotFound is returned when the requested version is not in the store.
var ErrNotFound = errors.New("snapshot: version not found")

// Snapshot is one immutable capture of a collection's contents.
type Snapshot struct {
	Version  int64     `json:"version"`
	Count    int       `json:"count"`
	Data     []byte    `json:"data"`
	Checksum uint64    `json:"checksum"`
	TakenAt  time.Time `json:"taken_at"`
}

// Checksum returns the FNV-1a 64-bit hash of data, the integrity check
// stored alongside every snapshot.
func Checksum(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

// clone returns an independent copy so callers cannot mutate stored
// state through returned pointers.
func (s *Snapshot) clone() *Snapshot {
	cp := *s
	cp.Data = make([]byte, len(s.Data))
	copy(cp.Data, s.Data)
	return &cp
}

// Store is the persistence contract for snapshots. Implementations are
// safe for concurrent use.
type Store interface {
	// Put persists snap. Overwriting an existing version is an error.
	Put(ctx context.Context, snap *Snapshot) error

	// Get returns the snapshot at version, or ErrNotFound.
	Get(ctx context.Context, version int64) (*Snapshot, error)

	// Latest returns the highest stored version, or 0 when the store is
	// empty.
	Latest(ctx context.Context) (int64, error)

	// Versions returns all stored versions in ascending order.
	Versions(ctx context.Context) ([]int64, error)

	// Remove deletes the snapshot at version, or returns ErrNotFound.
	Remove(ctx context.Context, version int64) error
}
