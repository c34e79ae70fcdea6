package store

import (
	"path/filepath"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if err := c.Put(42, Entry{Move: "e5", Score: 7, Depth: 4}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cached entry")
	}
	if got.Move != "e5" || got.Score != 7 || got.Depth != 4 {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get(999)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected no entry for an unset key")
	}
}

func TestPutKeepsDeeperEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if err := c.Put(1, Entry{Move: "b5", Score: 1, Depth: 6}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(1, Entry{Move: "h5", Score: 2, Depth: 2}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got.Move != "b5" || got.Depth != 6 {
		t.Fatalf("shallower Put should not have overwritten the deeper entry, got %+v", got)
	}
}
