package oracle

import (
	"math"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
)

// Uniform is the dependency-free fallback oracle: its policy is uniform
// over the legal moves (eval.SimplePolicy) and its value is eval.SimpleValue
// squashed into [-1, 1] with tanh. Used whenever no trained net is
// configured, and as the seed oracle in tests.
type Uniform struct {
	// Scale controls how quickly the heuristic value saturates towards
	// +-1; a larger scale keeps mid-game evaluations closer to 0.
	Scale float64
}

// NewUniform returns a Uniform oracle with a scale tuned for simple_value's
// typical magnitude (wall_diff - 4*path_diff, roughly in [-40, 40] outside
// of a won position).
func NewUniform() *Uniform {
	return &Uniform{Scale: 20.0}
}

func (u *Uniform) Evaluate(g *game.Game) (policy [eval.PolicyLen]float32, value float32, err error) {
	cur := g.CurrentPlayer()
	for _, mp := range eval.SimplePolicy(g) {
		plane, row, col, perr := eval.ActionToCoordinate(mp.Move, cur)
		if perr != nil {
			continue
		}
		policy[plane*eval.GridSize*eval.GridSize+row*eval.GridSize+col] = float32(mp.Prob)
	}

	scale := u.Scale
	if scale <= 0 {
		scale = 20.0
	}
	v := math.Tanh(float64(eval.SimpleValue(g, cur)) / scale)
	return policy, float32(v), nil
}
