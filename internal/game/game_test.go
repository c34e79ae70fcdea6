package game

import (
	"strings"
	"testing"
)

func TestOpeningMoveLegality(t *testing.T) {
	g := New()
	if !g.IsLegal("a4") {
		t.Fatalf("a4 should be legal: (0,3) is a sideways step from (0,4)")
	}
	if g.IsLegal("a5") {
		t.Fatalf("a5 should be illegal: (0,4) is player 0's own cell")
	}
	if !g.IsLegal("b5") {
		t.Fatalf("b5 should be legal: moves pawn from (0,4) to (1,4)")
	}
	if err := g.ExecMove("b5", true, false); err != nil {
		t.Fatalf("ExecMove(b5) failed: %v", err)
	}
	if g.Player(0).Position.String() != "b5" {
		t.Fatalf("expected player 0 at b5, got %v", g.Player(0).Position)
	}
}

func TestCutOffForbidden(t *testing.T) {
	g := New()
	// Box player 0 (at a5) into the cells a4..a7: two horizontal walls under
	// them and a vertical wall on the left leave a7-a8 as the only exit.
	walls := []string{"a4h", "a6h", "a3v"}
	for _, w := range walls {
		if err := g.ExecMove(w, true, false); err != nil {
			t.Fatalf("expected %s to be legal, got %v", w, err)
		}
		// Hand the turn straight back so player 0 places every wall.
		g.current = Opponent(g.current)
	}
	if g.IsLegal("a7v") {
		t.Fatalf("a7v should fully enclose player 0 and be illegal")
	}
	if err := g.ExecMove("a7v", true, false); err == nil {
		t.Fatalf("expected IllegalMove placing a7v")
	}
	for i := 0; i < NumPlayers; i++ {
		if !g.pathGraphs[i].HasPath(g.players[i].Position) {
			t.Fatalf("player %d should still have a path after rejected a7v", i)
		}
	}
}

func TestWallUndoRestoresOpenWalls(t *testing.T) {
	g := New()
	snapshot := make(map[string]struct{}, len(g.openWalls))
	for w := range g.openWalls {
		snapshot[w.String()] = struct{}{}
	}

	if err := g.ExecMove("d4h", true, false); err != nil {
		t.Fatalf("ExecMove(d4h): %v", err)
	}
	g.Undo(true)

	if len(snapshot) != len(g.openWalls) {
		t.Fatalf("open-walls size changed: before=%d after=%d", len(snapshot), len(g.openWalls))
	}
	for w := range g.openWalls {
		if _, ok := snapshot[w.String()]; !ok {
			t.Fatalf("open wall %v was not open before d4h", w)
		}
	}
}

func TestUndoIdempotence(t *testing.T) {
	g := New()
	before := g.HashKey()
	if err := g.ExecMove("b5", true, false); err != nil {
		t.Fatal(err)
	}
	g.Undo(true)
	if g.HashKey() != before {
		t.Fatalf("hash key changed after exec+undo: before=%x after=%x", before, g.HashKey())
	}
}

func TestHashCanonicity(t *testing.T) {
	g1 := New()
	g2 := New()

	seq1 := []string{"b5", "h5", "a5", "i5"}
	for _, mv := range seq1 {
		if err := g1.ExecMove(mv, true, false); err != nil {
			t.Fatal(err)
		}
	}
	// A different sequence (sideways steps and back) that also ends at the
	// starting positions with player 0 to move.
	seq2 := []string{"a4", "i4", "a5", "i5"}
	for _, mv := range seq2 {
		if err := g2.ExecMove(mv, true, false); err != nil {
			t.Fatal(err)
		}
	}
	if g1.HashKey() != g2.HashKey() {
		t.Fatalf("different move sequences reaching the same state produced different hashes")
	}
}

func TestLegalityTotality(t *testing.T) {
	g := New()
	inputs := []string{"", "a", "abcd", "zz", "a4h!", "xx9"}
	for _, in := range inputs {
		// Must simply return a bool, never panic.
		_ = g.IsLegal(in)
	}
	if g.IsLegal("toolong") {
		t.Fatalf("overlong strings must be illegal")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := New()
	moves := []string{"b5", "h5", "a1v", "d4h"}
	for _, mv := range moves {
		if err := g.ExecMove(mv, true, false); err != nil {
			t.Fatalf("ExecMove(%s): %v", mv, err)
		}
	}

	var sb strings.Builder
	if err := g.Save(&sb); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.HashKey() != g.HashKey() {
		t.Fatalf("loaded game hash differs from original")
	}
}

func TestEndgameFastPathMove(t *testing.T) {
	g := New()
	if _, ok := g.EndgameFastPathMove(); ok {
		t.Fatalf("fast path should not apply while either player still has walls")
	}

	g.players[0].WallsRemaining = 0
	g.players[1].WallsRemaining = 0

	mv, ok := g.EndgameFastPathMove()
	if !ok {
		t.Fatalf("expected a fast-path move once both players are out of walls")
	}
	if !g.IsLegal(mv) {
		t.Fatalf("fast-path move %q is not legal", mv)
	}

	want, pathOK := g.pathGraphs[g.current].GetPath(g.players[g.current].Position).Next()
	if !pathOK {
		t.Fatalf("expected a path from the current player's position")
	}
	if mv != want.String() {
		t.Fatalf("fast-path move %q does not match the greedy shortest-path step %q", mv, want.String())
	}
}

func TestLoadRejectsWrongPlayerCount(t *testing.T) {
	_, err := Load(strings.NewReader("3\nb5\n"))
	if err == nil {
		t.Fatalf("expected error loading a 3-player save file")
	}
}

func TestJumpAndDiagonal(t *testing.T) {
	g := New()
	// Walk the two pawns toward each other along column 4 (index). Strict
	// alternation starting with player 0 gives player 0 four moves and
	// player 1 three for this seven-move sequence, landing player 0 at
	// e5 (row 4) and player 1 at f5 (row 5) with player 1 to move next.
	moves := []string{"b5", "h5", "c5", "g5", "d5", "f5", "e5"}
	for _, mv := range moves {
		if err := g.ExecMove(mv, true, false); err != nil {
			t.Fatalf("setup move %s: %v", mv, err)
		}
	}
	if g.Player(0).Position.String() != "e5" {
		t.Fatalf("expected player 0 at e5, got %v", g.Player(0).Position)
	}
	if g.Player(1).Position.String() != "f5" {
		t.Fatalf("expected player 1 at f5, got %v", g.Player(1).Position)
	}
	if g.CurrentPlayer() != 1 {
		t.Fatalf("expected player 1 to move, got player %d", g.CurrentPlayer())
	}

	// Player 1 at f5 is blocked straight ahead by player 0 at e5, so the
	// unobstructed straight jump lands one cell further: d5.
	if !g.IsLegal("d5") {
		t.Fatalf("straight jump over opponent (d5) should be legal")
	}
	if g.IsLegal("e4") || g.IsLegal("e6") {
		t.Fatalf("diagonal jumps should not be legal while the straight jump is open")
	}

	// d5h cuts the edge directly behind player 0 (d5-e5), the wall spec.md
	// scenario 3 calls for: it must turn the straight jump illegal and open
	// up both diagonal jumps instead. Player 0 then places a far-away wall so
	// the turn comes back to player 1 with the pawns still adjacent.
	if err := g.ExecMove("d5h", true, false); err != nil {
		t.Fatalf("wall behind opponent should be placeable: %v", err)
	}
	if err := g.ExecMove("a1h", true, false); err != nil {
		t.Fatalf("player 0's far-away wall should be placeable: %v", err)
	}
	if g.IsLegal("d5") {
		t.Fatalf("straight jump should be illegal once the wall blocks the landing cell")
	}
	if !g.IsLegal("e4") {
		t.Fatalf("diagonal jump to e4 should be legal once the straight jump is blocked")
	}
	if !g.IsLegal("e6") {
		t.Fatalf("diagonal jump to e6 should be legal once the straight jump is blocked")
	}
}
