package eval

import "github.com/wrongu/QuoridorV2/internal/game"

// MoveProb pairs a legal move string with its probability mass.
type MoveProb struct {
	Move string
	Prob float64
}

// SimplePolicy is the uniform fallback policy: every legal move (using the
// cheap partial legality check, same as the original) gets equal weight.
// Grounded on features.py's simple_policy.
func SimplePolicy(g *game.Game) []MoveProb {
	moves := g.AllLegalMoves(true)
	if len(moves) == 0 {
		return nil
	}
	p := 1.0 / float64(len(moves))
	out := make([]MoveProb, len(moves))
	for i, mv := range moves {
		out[i] = MoveProb{Move: mv, Prob: p}
	}
	return out
}
