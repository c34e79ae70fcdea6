// Package mcts implements AlphaZero-style Monte Carlo Tree Search with PUCT
// selection over the Quoridor game tree, backed by a pluggable oracle for
// leaf (policy, value) evaluation.
//
// Grounded on mcts.py's TreeNode/MonteCarloTreeSearch, translated from its
// tensor-shaped counts/reward/policy/legal-mask arrays into flat
// [eval.PolicyLen]float64 arrays.
package mcts

import (
	"math"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
)

// node is one explored position in the search tree. It is looked up by
// canonical hash rather than owned by a single parent pointer, since
// transpositions mean more than one parent action can lead to the same
// node.
type node struct {
	counts      [eval.PolicyLen]float64
	totalReward [eval.PolicyLen]float64
	policy      [eval.PolicyLen]float32
	value       float32
	legalMask   [eval.PolicyLen]float32
	player      int
	key         uint64

	children map[string]*node
	flagged  bool
}

func newNode(g *game.Game, policy [eval.PolicyLen]float32, value float32) *node {
	legal := g.AllLegalMoves(false)
	return &node{
		policy:    policy,
		value:     value,
		legalMask: eval.EncodeActionsToPlanes(legal, g.CurrentPlayer()),
		player:    g.CurrentPlayer(),
		key:       g.HashKey(),
		children:  make(map[string]*node),
	}
}

func (n *node) addChild(action string, child *node) {
	n.children[action] = child
}

// upperConf returns the PUCT selection score for every action: average
// reward plus an exploration bonus proportional to prior policy and
// inversely proportional to visit count, with illegal actions masked to
// -Inf so they can never be selected.
func (n *node) upperConf(cPuct float64) [eval.PolicyLen]float64 {
	var totalCounts float64
	for _, c := range n.counts {
		totalCounts += c
	}
	sqrtTotal := math.Sqrt(totalCounts)

	var u [eval.PolicyLen]float64
	for i := range u {
		if n.legalMask[i] == 0 {
			u[i] = math.Inf(-1)
			continue
		}
		avgReward := n.totalReward[i] / (n.counts[i] + 1e-6)
		u[i] = avgReward + cPuct*float64(n.policy[i])*sqrtTotal/(1+n.counts[i])
	}
	return u
}

// policyTarget returns the visit-count distribution used as the improved
// policy target for training: counts normalized to sum to 1.
func (n *node) policyTarget() [eval.PolicyLen]float64 {
	var total float64
	for _, c := range n.counts {
		total += c
	}
	var out [eval.PolicyLen]float64
	if total == 0 {
		return out
	}
	for i, c := range n.counts {
		out[i] = c / total
	}
	return out
}

func (n *node) backup(action string, player int, value float64) {
	plane, row, col, err := eval.ActionToCoordinate(action, player)
	if err != nil {
		return
	}
	idx := plane*eval.GridSize*eval.GridSize + row*eval.GridSize + col
	n.totalReward[idx] += value
	n.counts[idx]++
}

// flagSubtree marks n and every descendant as reachable from the new root;
// deleteUnflaggedSubtree uses the flag to decide what to prune.
func (n *node) flagSubtree(flagged bool) {
	n.flagged = flagged
	for _, c := range n.children {
		c.flagSubtree(flagged)
	}
}

// deleteUnflaggedSubtree removes every unflagged descendant (and n itself,
// if unflagged) from the tree, returning the set of nodes that were
// deleted so the caller can drop them from its hash->node lookup too.
func (n *node) deleteUnflaggedSubtree() map[*node]struct{} {
	deleted := make(map[*node]struct{})
	if !n.flagged {
		deleted[n] = struct{}{}
	}
	for action, child := range n.children {
		if !child.flagged {
			for d := range child.deleteUnflaggedSubtree() {
				deleted[d] = struct{}{}
			}
			delete(n.children, action)
		}
	}
	return deleted
}
