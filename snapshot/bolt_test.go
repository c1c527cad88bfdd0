package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// TestBoltStore_RoundTrip covers the file-backed store end to end.
func TestBoltStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots.db")

	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer store.Close()

	if latest, err := store.Latest(ctx); err != nil || latest != 0 {
		t.Errorf("Latest() on empty = %d, %v; want 0, nil", latest, err)
	}

	for v := int64(1); v <= 5; v++ {
		if err := store.Put(ctx, testSnapshot(v, "payload")); err != nil {
			t.Fatalf("Put(%d): %v", v, err)
		}
	}
	if err := store.Put(ctx, testSnapshot(3, "dup")); err == nil {
		t.Error("Put(3) twice succeeded, want error")
	}

	snap, err := store.Get(ctx, 4)
	if err != nil {
		t.Fatalf("Get(4): %v", err)
	}
	if snap.Version != 4 || snap.Checksum != Checksum(snap.Data) {
		t.Errorf("Get(4) returned version %d with bad checksum", snap.Version)
	}

	if _, err := store.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(42) error = %v, want ErrNotFound", err)
	}

	if latest, _ := store.Latest(ctx); latest != 5 {
		t.Errorf("Latest() = %d, want 5", latest)
	}
	versions, _ := store.Versions(ctx)
	if len(versions) != 5 || versions[0] != 1 || versions[4] != 5 {
		t.Errorf("Versions() = %v, want [1..5]", versions)
	}

	if err := store.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove(1): %v", err)
	}
	if err := store.Remove(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(1) twice error = %v, want ErrNotFound", err)
	}
}

// TestBoltStore_SurvivesReopen verifies persistence across close and
// reopen.
func TestBoltStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots.db")

	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	if err := store.Put(ctx, testSnapshot(7, "durable")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	snap, err := reopened.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get(7) after reopen: %v", err)
	}
	if string(snap.Data) != "durable" {
		t.Errorf("data after reopen = %q, want durable", snap.Data)
	}
	if latest, _ := reopened.Latest(ctx); latest != 7 {
		t.Errorf("Latest() after reopen = %d, want 7", latest)
	}
}
