package mcts

import (
	"context"
	"fmt"
	"math"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
	"github.com/wrongu/QuoridorV2/internal/oracle"
)

// Tree is one Monte Carlo Tree Search session rooted at a particular game
// state. Nodes are kept in a hash-keyed registry rather than owned
// exclusively by a parent, so transpositions reached by different move
// orders share one node and its accumulated statistics.
//
// Grounded on mcts.py's MonteCarloTreeSearch.
type Tree struct {
	oracle    oracle.Oracle
	state     *game.Game
	root      *node
	nodeByKey map[uint64]*node
}

// New builds a search tree rooted at state's current position, evaluating
// the root once up front via o.
func New(state *game.Game, o oracle.Oracle) (*Tree, error) {
	policy, value, err := o.Evaluate(state)
	if err != nil {
		return nil, fmt.Errorf("mcts: evaluating root: %w", err)
	}
	root := newNode(state, policy, value)
	return &Tree{
		oracle:    o,
		state:     state,
		root:      root,
		nodeByKey: map[uint64]*node{root.key: root},
	}, nil
}

// Player returns the player to move at the tree's root.
func (t *Tree) Player() int { return t.root.player }

// Search runs nEvals simulated playouts from the root with exploration
// constant cPuct and returns the resulting visit-count policy target. ctx
// is checked between simulations so a caller can bound search time; a
// cancelled context stops after the simulation in flight and returns
// whatever policy target has accumulated so far.
func (t *Tree) Search(ctx context.Context, cPuct float64, nEvals int) ([eval.PolicyLen]float64, error) {
	if t.state.HashKey() != t.root.key {
		return [eval.PolicyLen]float64{}, fmt.Errorf("mcts: state has drifted from tree root")
	}

	for i := 0; i < nEvals; i++ {
		select {
		case <-ctx.Done():
			return t.root.policyTarget(), nil
		default:
		}
		if _, err := t.singleSearch(ctx, t.state, cPuct); err != nil {
			return [eval.PolicyLen]float64{}, err
		}
		if t.state.HashKey() != t.root.key {
			return [eval.PolicyLen]float64{}, fmt.Errorf("mcts: simulation leaked a mutation into the live state")
		}
	}
	return t.root.policyTarget(), nil
}

// singleSearch runs one simulated playout from g (which must hash-match a
// registered node) down to a leaf, expanding it if new, and backs up the
// resulting value along the path taken.
func (t *Tree) singleSearch(ctx context.Context, g *game.Game, cPuct float64) (float64, error) {
	n, ok := t.nodeByKey[g.HashKey()]
	if !ok {
		return 0, fmt.Errorf("mcts: no node registered for current state")
	}

	// Once both players are out of walls, the legal move set collapses to
	// pathfinding: take the greedy shortest-path step instead of running
	// PUCT selection over the full move set. Grounded on ai.py's
	// monte_carlo_tree_search.
	action, ok := g.EndgameFastPathMove()
	if !ok {
		u := n.upperConf(cPuct)
		var err error
		action, err = argmaxAction(u, n.player)
		if err != nil {
			return 0, err
		}
	}

	tm, err := g.Begin(action)
	if err != nil {
		return 0, fmt.Errorf("mcts: selected action %q was illegal: %w", action, err)
	}
	defer tm.Done()

	var backupVal float64
	if winner := g.GetWinner(); winner != -1 {
		if winner == n.player {
			backupVal = 1
		} else {
			backupVal = -1
		}
	} else if child, seen := t.nodeByKey[g.HashKey()]; !seen {
		policy, value, err := t.oracle.Evaluate(g)
		if err != nil {
			return 0, fmt.Errorf("mcts: evaluating leaf: %w", err)
		}
		newChild := newNode(g, policy, value)
		t.nodeByKey[newChild.key] = newChild
		n.addChild(action, newChild)
		backupVal = -float64(value)
	} else {
		n.addChild(action, child)
		childVal, err := t.singleSearch(ctx, g, cPuct)
		if err != nil {
			return 0, err
		}
		backupVal = -childVal
	}

	n.backup(action, n.player, backupVal)
	return backupVal, nil
}

// argmaxAction returns the highest-scoring legal action in u (illegal
// entries are already -Inf from node.upperConf). Ties break on the lowest
// flat index, which is deterministic but arbitrary.
func argmaxAction(u [eval.PolicyLen]float64, player int) (string, error) {
	best := -1
	for i, v := range u {
		if best == -1 || v > u[best] {
			best = i
		}
	}
	if best == -1 || math.IsInf(u[best], -1) {
		return "", fmt.Errorf("mcts: no legal action available")
	}
	return eval.IndexToAction(best, player)
}

// StepAndPrune advances the tree by actually executing action on the
// underlying state, then discards every branch of the tree not reachable
// from the resulting position -- the tree only ever grows along the path
// actually played.
func (t *Tree) StepAndPrune(action string) error {
	if t.state.HashKey() != t.root.key {
		return fmt.Errorf("mcts: state has drifted from tree root")
	}
	if err := t.state.ExecMove(action, true, false); err != nil {
		return fmt.Errorf("mcts: StepAndPrune: %w", err)
	}

	newRoot, ok := t.nodeByKey[t.state.HashKey()]
	if !ok {
		policy, value, err := t.oracle.Evaluate(t.state)
		if err != nil {
			return fmt.Errorf("mcts: evaluating new root: %w", err)
		}
		newRoot = newNode(t.state, policy, value)
		t.nodeByKey[newRoot.key] = newRoot
	}

	newRoot.flagSubtree(true)
	deleted := t.root.deleteUnflaggedSubtree()
	newRoot.flagSubtree(false)

	for d := range deleted {
		delete(t.nodeByKey, d.key)
	}
	t.root = newRoot
	return nil
}
