package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/wrongu/QuoridorV2/internal/game"
)

func TestSaveAndLoadGameRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(filepath.Join(dir, "games.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	g := game.New()
	for _, mv := range []string{"b5", "h5", "a1v"} {
		if err := g.ExecMove(mv, true, false); err != nil {
			t.Fatalf("ExecMove(%s): %v", mv, err)
		}
	}

	id, err := a.SaveGame(g, time.Now())
	if err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a non-empty generated ID")
	}

	loaded, err := a.LoadGame(id)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if loaded.HashKey() != g.HashKey() {
		t.Fatalf("reloaded game hash does not match original")
	}

	n, err := a.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 archived game, got %d", n)
	}
}

func TestLoadUnknownID(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(filepath.Join(dir, "games.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if _, err := a.Load("does-not-exist"); err == nil {
		t.Fatalf("expected an error loading an unknown ID")
	}
}
