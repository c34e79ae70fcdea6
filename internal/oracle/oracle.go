// Package oracle provides the (policy, value) function MCTS needs to
// evaluate leaves: a pluggable interface, a dependency-free heuristic
// fallback, and an ONNX-backed adapter for a trained net.
package oracle

import (
	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
)

// Oracle evaluates a position from the perspective of its current player:
// a (3,9,9) policy tensor (see package eval for the plane layout) and a
// scalar value in [-1, 1], where +1 means the current player is winning.
type Oracle interface {
	Evaluate(g *game.Game) (policy [eval.PolicyLen]float32, value float32, err error)
}
