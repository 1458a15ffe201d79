package cache

import (
	"testing"
	"time"
)

func TestSnapshotIsStale(t *testing.T) {
	fetched := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{FetchedAt: fetched}
	maxAge := 5 * time.Minute

	if snap.IsStale(maxAge, fetched.Add(4*time.Minute)) {
		t.Error("snapshot within max age should be fresh")
	}
	if snap.IsStale(maxAge, fetched.Add(5*time.Minute)) {
		t.Error("snapshot exactly at max age should still be fresh")
	}
	if !snap.IsStale(maxAge, fetched.Add(5*time.Minute+time.Second)) {
		t.Error("snapshot past max age should be stale")
	}
}
