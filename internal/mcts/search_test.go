package mcts

import (
	"context"
	"testing"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
	"github.com/wrongu/QuoridorV2/internal/oracle"
)

func TestSearchProducesAValidPolicy(t *testing.T) {
	g := game.New()
	tree, err := New(g, oracle.NewUniform())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	target, err := tree.Search(context.Background(), 1.5, 64)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var total float64
	for _, p := range target {
		if p < 0 {
			t.Fatalf("policy target has negative mass: %f", p)
		}
		total += p
	}
	if total < 0.999 || total > 1.001 {
		t.Fatalf("policy target should sum to 1, got %f", total)
	}
}

func TestSearchLeavesStateUnmodified(t *testing.T) {
	g := game.New()
	tree, err := New(g, oracle.NewUniform())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := g.HashKey()
	if _, err := tree.Search(context.Background(), 1.0, 32); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if g.HashKey() != before {
		t.Fatalf("search mutated the live state: before=%x after=%x", before, g.HashKey())
	}
}

// TestSearchBacksUpTerminalWin exercises the terminal-backup branch of
// singleSearch directly: a position one pawn step from victory, searched
// with a single evaluation, must back up the win to the root's visit count
// for that exact move.
func TestSearchBacksUpTerminalWin(t *testing.T) {
	g := game.New()

	// Walk player 0 straight up column 4 to h5 (one step from the goal row),
	// then wall off its backward and sideways neighbors so the only legal
	// pawn move left is the winning step to i5. Player 1 is walked out of
	// the way into the low columns so its moves never interact with either
	// player 0's path or the walls.
	p0moves := []string{"b5", "c5", "d5", "e5", "f5", "g5", "h5", "g5h", "h4v", "h5v"}
	p1moves := []string{"i4", "i3", "i2", "i1", "i2", "i1", "i2", "i1", "i2", "i1"}
	for i := range p0moves {
		if err := g.ExecMove(p0moves[i], true, false); err != nil {
			t.Fatalf("setup move %s: %v", p0moves[i], err)
		}
		if err := g.ExecMove(p1moves[i], true, false); err != nil {
			t.Fatalf("setup move %s: %v", p1moves[i], err)
		}
	}
	if g.CurrentPlayer() != 0 {
		t.Fatalf("expected player 0 to move, got player %d", g.CurrentPlayer())
	}
	if !g.IsLegal("i5") {
		t.Fatalf("i5 should be the winning move into player 0's goal row")
	}

	tree, err := New(g, oracle.NewUniform())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := tree.Search(context.Background(), 1.0, 1); err != nil {
		t.Fatalf("Search: %v", err)
	}

	plane, row, col, err := eval.ActionToCoordinate("i5", 0)
	if err != nil {
		t.Fatalf("ActionToCoordinate: %v", err)
	}
	idx := plane*eval.GridSize*eval.GridSize + row*eval.GridSize + col

	if tree.root.counts[idx] != 1 {
		t.Fatalf("expected the single evaluation to back up count 1 for i5, got %f", tree.root.counts[idx])
	}
	if tree.root.totalReward[idx] != 1 {
		t.Fatalf("expected a terminal win to back up reward +1 for i5, got %f", tree.root.totalReward[idx])
	}
}

func TestStepAndPrunePrunesSiblings(t *testing.T) {
	g := game.New()
	tree, err := New(g, oracle.NewUniform())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := tree.Search(context.Background(), 1.0, 64); err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Pick whatever move has the most visits to actually play.
	root := tree.root
	best := 0
	for i, c := range root.counts {
		if c > root.counts[best] {
			best = i
		}
	}
	mv, err := eval.IndexToAction(best, g.CurrentPlayer())
	if err != nil {
		t.Fatalf("IndexToAction: %v", err)
	}
	if !g.IsLegal(mv) {
		// Fall back to any legal move if the most-visited index wasn't legal
		// (possible if the uniform oracle put non-trivial mass on a move that
		// later became illegal through play, though it shouldn't here).
		mv = g.AllLegalMoves(false)[0]
	}

	sizeBefore := len(tree.nodeByKey)
	if err := tree.StepAndPrune(mv); err != nil {
		t.Fatalf("StepAndPrune: %v", err)
	}
	if len(tree.nodeByKey) > sizeBefore {
		t.Fatalf("tree grew after pruning: before=%d after=%d", sizeBefore, len(tree.nodeByKey))
	}
	if tree.root.key != g.HashKey() {
		t.Fatalf("tree root did not follow the executed move")
	}
}
