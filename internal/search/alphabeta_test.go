package search

import (
	"context"
	"testing"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
)

func TestAlphaBetaPicksAMove(t *testing.T) {
	g := game.New()
	res, err := AlphaBetaSearch(context.Background(), g, eval.SimpleValue, 2)
	if err != nil {
		t.Fatalf("AlphaBetaSearch: %v", err)
	}
	if res.Move == "" {
		t.Fatalf("expected a move to be chosen")
	}
	if !g.IsLegal(res.Move) {
		t.Fatalf("chosen move %q is not legal", res.Move)
	}
}

func TestAlphaBetaLeavesGameUnmodified(t *testing.T) {
	g := game.New()
	before := g.HashKey()
	if _, err := AlphaBetaSearch(context.Background(), g, eval.SimpleValue, 2); err != nil {
		t.Fatalf("AlphaBetaSearch: %v", err)
	}
	if g.HashKey() != before {
		t.Fatalf("search must fully unwind its temp moves, hash changed from %x to %x", before, g.HashKey())
	}
}

func TestAlphaBetaRespectsCancellation(t *testing.T) {
	g := game.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := AlphaBetaSearch(ctx, g, eval.SimpleValue, 3)
	if err == nil {
		t.Fatalf("expected context cancellation error")
	}
	// Even on early cancellation, no partial move (an illegal one) should
	// have leaked into Result if no candidate was ever evaluated.
	if res.Move != "" && !g.IsLegal(res.Move) {
		t.Fatalf("partial result move %q is not legal", res.Move)
	}
}

func TestAlphaBetaTakesImmediateWin(t *testing.T) {
	g := game.New()
	// Walk player 0 straight down column 5 to h5, one step from its goal row
	// (row 8), while player 1 steps aside into the low columns; player 0 is
	// then to move.
	moves := []string{"b5", "i4", "c5", "i3", "d5", "i2", "e5", "i1", "f5", "h1", "g5", "i1", "h5", "h1"}
	for _, mv := range moves {
		if err := g.ExecMove(mv, true, false); err != nil {
			t.Fatalf("setup move %s: %v", mv, err)
		}
	}
	res, err := AlphaBetaSearch(context.Background(), g, eval.SimpleValue, 2)
	if err != nil {
		t.Fatalf("AlphaBetaSearch: %v", err)
	}
	if res.Move == "" {
		t.Fatalf("expected a move")
	}
	if res.Move != "i5" {
		t.Fatalf("expected the winning move i5, got %q", res.Move)
	}
}
