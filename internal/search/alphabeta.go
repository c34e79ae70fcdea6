// Package search implements depth-limited alpha-beta minimax over the
// Quoridor game tree, using game.Game's TempMove guard for reversible
// descent instead of cloning state at every node.
//
// Grounded on ai.py's alphabeta_search. The original has a well-known bug:
// its outer loop tracks (v, mv) as "best" but then returns the loop
// variable mv instead of best[1], so it always returns the *last* legal
// move considered rather than the argmax. AlphaBetaSearch here returns the
// actual best move.
package search

import (
	"context"
	"math"

	"github.com/wrongu/QuoridorV2/internal/game"
)

// EvalFunc scores a position from the given player's perspective. The
// default is eval.SimpleValue; search takes it as a parameter so callers
// can swap in an oracle-backed value head without this package depending
// on one.
type EvalFunc func(g *game.Game, player int) int

const infinity = math.MaxInt32 / 2

// Result is one completed alpha-beta search: the chosen move (empty if
// none was legal), its score from the root player's perspective, and how
// many distinct positions were actually explored (post transposition
// filtering).
type Result struct {
	Move    string
	Score   int
	Visited int
}

type searcher struct {
	g        *game.Game
	evalFn   EvalFunc
	player   int
	maxDepth int
	visited  map[uint64]bool
}

// AlphaBetaSearch runs a depth-limited alpha-beta search to maxDepth plies
// from g's current position and returns the best move for the player to
// move, found via full alpha-beta minimax with a transposition filter: once
// a position's hash has been visited anywhere in this search, it is never
// explored again. ctx is checked between root candidates so a caller can
// bound search wall-clock time; a cancelled context stops expanding further
// root moves and returns the best result found so far.
func AlphaBetaSearch(ctx context.Context, g *game.Game, evalFn EvalFunc, maxDepth int) (Result, error) {
	s := &searcher{
		g:        g,
		evalFn:   evalFn,
		player:   g.CurrentPlayer(),
		maxDepth: maxDepth,
		visited:  map[uint64]bool{g.HashKey(): true},
	}

	if mv, ok := g.EndgameFastPathMove(); ok {
		return Result{Move: mv, Score: evalFn(g, s.player), Visited: 1}, nil
	}

	best := Result{Score: -infinity}
	for _, mv := range g.AllLegalMoves(false) {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		tm, err := g.Begin(mv)
		if err != nil {
			return best, err
		}
		hsh := g.HashKey()
		if s.visited[hsh] {
			tm.Done()
			continue
		}
		s.visited[hsh] = true

		v := s.minValue(-infinity, infinity, 0)
		tm.Done()

		if best.Move == "" || v > best.Score {
			best = Result{Move: mv, Score: v, Visited: len(s.visited)}
		}
	}
	best.Visited = len(s.visited)
	return best, nil
}

func (s *searcher) cutoff(depth int) bool {
	return depth > s.maxDepth || s.g.GetWinner() != -1
}

// movesToConsider is the branching factor at one search node: the full
// legal move set, unless both players are already out of walls, in which
// case it collapses to the single greedy pathfinding step.
func (s *searcher) movesToConsider() []string {
	if mv, ok := s.g.EndgameFastPathMove(); ok {
		return []string{mv}
	}
	return s.g.AllLegalMoves(false)
}

func (s *searcher) maxValue(alpha, beta, depth int) int {
	if s.cutoff(depth) {
		return s.evalFn(s.g, s.player)
	}
	v := -infinity
	for _, mv := range s.movesToConsider() {
		tm, err := s.g.Begin(mv)
		if err != nil {
			continue
		}
		hsh := s.g.HashKey()
		if s.visited[hsh] {
			tm.Done()
			continue
		}
		s.visited[hsh] = true

		v = max(v, s.minValue(alpha, beta, depth+1))
		tm.Done()

		if v >= beta {
			return v
		}
		alpha = max(alpha, v)
	}
	return v
}

func (s *searcher) minValue(alpha, beta, depth int) int {
	if s.cutoff(depth) {
		return s.evalFn(s.g, s.player)
	}
	v := infinity
	for _, mv := range s.movesToConsider() {
		tm, err := s.g.Begin(mv)
		if err != nil {
			continue
		}
		hsh := s.g.HashKey()
		if s.visited[hsh] {
			tm.Done()
			continue
		}
		s.visited[hsh] = true

		v = min(v, s.maxValue(alpha, beta, depth+1))
		tm.Done()

		if v <= alpha {
			return v
		}
		beta = min(beta, v)
	}
	return v
}
