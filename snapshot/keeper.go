package snapshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Source is the collection surface the Keeper captures from. The
// fastcol collection facades satisfy it.
type Source[E any] interface {
	DoWhile(pred func(E) bool) bool
}

// Sink is the collection surface the Keeper restores into.
type Sink[E any] interface {
	Add(e E) bool
}

// Keeper binds a snapshot Store and an element Codec into a capture and
// restore workflow with monotonic versioning.
type Keeper[E any] struct {
	store    Store
	codec    Codec[E]
	logger   *slog.Logger
	compress bool
}

// KeeperOpt configures a Keeper.
type KeeperOpt[E any] func(*Keeper[E])

// WithKeeperLogger sets the logger for the keeper.
func WithKeeperLogger[E any](logger *slog.Logger) KeeperOpt[E] {
	return func(k *Keeper[E]) {
		k.logger = logger
	}
}

// WithCompression toggles zstd compression of snapshot blobs.
func WithCompression[E any](on bool) KeeperOpt[E] {
	return func(k *Keeper[E]) {
		k.compress = on
	}
}

// NewKeeper creates a Keeper over the given store and codec.
func NewKeeper[E any](store Store, codec Codec[E], opts ...KeeperOpt[E]) *Keeper[E] {
	k := &Keeper[E]{
		store:  store,
		codec:  codec,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Capture drains src in traversal order into a new snapshot and returns
// its version.
func (k *Keeper[E]) Capture(ctx context.Context, src Source[E]) (int64, error) {
	latest, err := k.store.Latest(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot: resolve latest version: %w", err)
	}
	version := latest + 1

	var payloads []string
	var encodeErr error
	src.DoWhile(func(e E) bool {
		p, err := k.codec.Encode(e)
		if err != nil {
			encodeErr = fmt.Errorf("snapshot: encode element: %w", err)
			return false
		}
		payloads = append(payloads, p)
		return true
	})
	if encodeErr != nil {
		return 0, encodeErr
	}

	data, err := packPayloads(version, payloads, k.compress)
	if err != nil {
		return 0, err
	}
	snap := &Snapshot{
		Version:  version,
		Count:    len(payloads),
		Data:     data,
		Checksum: Checksum(data),
		TakenAt:  time.Now().UTC(),
	}
	if err := k.store.Put(ctx, snap); err != nil {
		return 0, fmt.Errorf("snapshot: store version %d: %w", version, err)
	}

	k.logger.Info("captured snapshot",
		"version", version,
		"elements", snap.Count,
		"bytes", len(data),
		"compressed", k.compress)
	return version, nil
}

// Restore decodes the snapshot at version into dst and returns the number
// of elements dst accepted.
func (k *Keeper[E]) Restore(ctx context.Context, version int64, dst Sink[E]) (int, error) {
	snap, err := k.store.Get(ctx, version)
	if err != nil {
		return 0, fmt.Errorf("snapshot: load version %d: %w", version, err)
	}
	if got := Checksum(snap.Data); got != snap.Checksum {
		return 0, fmt.Errorf("snapshot: checksum mismatch for version %d: %x != %x",
			version, got, snap.Checksum)
	}

	packedVersion, payloads, err := unpackPayloads(snap.Data)
	if err != nil {
		return 0, err
	}
	if packedVersion != version {
		return 0, fmt.Errorf("snapshot: envelope carries version %d, requested %d",
			packedVersion, version)
	}

	accepted := 0
	for i, p := range payloads {
		e, err := k.codec.Decode(p)
		if err != nil {
			return accepted, fmt.Errorf("snapshot: decode element %d: %w", i, err)
		}
		if dst.Add(e) {
			accepted++
		}
	}

	k.logger.Info("restored snapshot",
		"version", version,
		"elements", len(payloads),
		"accepted", accepted)
	return accepted, nil
}

// Diff compares two versions and returns the element payloads present
// only in v1 (removed) and only in v2 (added). Duplicate payloads are
// counted, not collapsed.
func (k *Keeper[E]) Diff(ctx context.Context, v1, v2 int64) (removed, added []string, err error) {
	p1, err := k.payloads(ctx, v1)
	if err != nil {
		return nil, nil, err
	}
	p2, err := k.payloads(ctx, v2)
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int, len(p1))
	for _, p := range p1 {
		counts[p]++
	}
	for _, p := range p2 {
		if counts[p] > 0 {
			counts[p]--
		} else {
			added = append(added, p)
		}
	}
	for _, p := range p1 {
		if counts[p] > 0 {
			counts[p]--
			removed = append(removed, p)
		}
	}

	k.logger.Info("diffed snapshots",
		"from", v1,
		"to", v2,
		"added", len(added),
		"removed", len(removed))
	return removed, added, nil
}

func (k *Keeper[E]) payloads(ctx context.Context, version int64) ([]string, error) {
	snap, err := k.store.Get(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load version %d: %w", version, err)
	}
	_, payloads, err := unpackPayloads(snap.Data)
	return payloads, err
}
