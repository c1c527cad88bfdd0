package snapshot

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("snapshots")

// BoltStore persists snapshots in a single-file bbolt database. Versions
// are stored under big-endian keys so cursor order is version order.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if absent) the snapshot database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("snapshot: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshot: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

func versionKey(version int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(version))
	return key
}

func (b *BoltStore) Put(_ context.Context, snap *Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal version %d: %w", snap.Version, err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		key := versionKey(snap.Version)
		if bucket.Get(key) != nil {
			return fmt.Errorf("snapshot: version %d already stored", snap.Version)
		}
		return bucket.Put(key, value)
	})
}

func (b *BoltStore) Get(_ context.Context, version int64) (*Snapshot, error) {
	var snap *Snapshot
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(boltBucket).Get(versionKey(version))
		if value == nil {
			return ErrNotFound
		}
		snap = &Snapshot{}
		return json.Unmarshal(value, snap)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (b *BoltStore) Latest(_ context.Context) (int64, error) {
	var latest int64
	err := b.db.View(func(tx *bolt.Tx) error {
		key, _ := tx.Bucket(boltBucket).Cursor().Last()
		if key != nil {
			latest = int64(binary.BigEndian.Uint64(key))
		}
		return nil
	})
	return latest, err
}

func (b *BoltStore) Versions(_ context.Context) ([]int64, error) {
	var out []int64
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltBucket).Cursor()
		for key, _ := c.First(); key != nil; key, _ = c.Next() {
			out = append(out, int64(binary.BigEndian.Uint64(key)))
		}
		return nil
	})
	return out, err
}

func (b *BoltStore) Remove(_ context.Context, version int64) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		key := versionKey(version)
		if bucket.Get(key) == nil {
			return ErrNotFound
		}
		return bucket.Delete(key)
	})
}
