package eval

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/wrongu/QuoridorV2/internal/board"
	"github.com/wrongu/QuoridorV2/internal/game"
)

// Board-state and policy tensors are flat float32 planes, matching the
// teacher's flat-array tensor convention rather than pulling in a tensor
// library neither this module nor the rest of the pack needs.
const (
	GridSize        = board.Size
	StatePlaneCount = 6
	StateLen        = StatePlaneCount * GridSize * GridSize

	PolicyPlaneCount = 3
	PolicyLen        = PolicyPlaneCount * GridSize * GridSize
)

// FlipYPerspective flips a row coordinate so that, regardless of which
// player is "current", that player's own goal is always the last row. It is
// its own inverse. Vertical walls are labeled by their top-left corner, so
// flipping one to the other player's perspective uses 7-row rather than
// 8-row -- see quornn.py's flip_y_perspective for the derivation.
func FlipYPerspective(row, currentPlayer int, isVWall bool) int {
	if currentPlayer == 0 {
		return row
	}
	if isVWall {
		return (GridSize - 2) - row
	}
	return (GridSize - 1) - row
}

// EncodeStateToPlanes renders g into the 6x9x9 state tensor consumed by an
// oracle's value/policy net: plane 0 is the current player's 1-hot position,
// plane 1 is flooded with their remaining wall count, planes 2-3 mirror that
// for the opponent, and planes 4-5 are 1-hot horizontal/vertical wall masks.
// Every plane is oriented from the current player's perspective.
func EncodeStateToPlanes(g *game.Game) [StateLen]float32 {
	var out [StateLen]float32
	plane := GridSize * GridSize
	cur := g.CurrentPlayer()

	curState := g.Player(cur)
	curRow := FlipYPerspective(curState.Position.Row, cur, false)
	out[0*plane+curRow*GridSize+curState.Position.Col] = 1
	for i := 0; i < plane; i++ {
		out[1*plane+i] = float32(curState.WallsRemaining)
	}

	opp := game.Opponent(cur)
	oppState := g.Player(opp)
	oppRow := FlipYPerspective(oppState.Position.Row, cur, false)
	out[2*plane+oppRow*GridSize+oppState.Position.Col] = 1
	for i := 0; i < plane; i++ {
		out[3*plane+i] = float32(oppState.WallsRemaining)
	}

	for _, w := range g.PlayedWalls() {
		if w.Orient == board.Horizontal {
			r := FlipYPerspective(w.Row, cur, false)
			out[4*plane+r*GridSize+w.Col] = 1
			out[4*plane+r*GridSize+w.Col+1] = 1
		} else {
			r := FlipYPerspective(w.Row, cur, true)
			out[5*plane+r*GridSize+w.Col] = 1
			out[5*plane+(r+1)*GridSize+w.Col] = 1
		}
	}
	return out
}

// ActionToCoordinate returns the (plane, row, col) index of action into a
// (3,9,9) policy tensor: plane 0 is pawn movement, plane 1 horizontal walls,
// plane 2 vertical walls, all oriented from currentPlayer's perspective.
func ActionToCoordinate(action string, currentPlayer int) (plane, row, col int, err error) {
	switch len(action) {
	case 2:
		loc, perr := board.ParseLocation(action)
		if perr != nil {
			return 0, 0, 0, perr
		}
		return 0, FlipYPerspective(loc.Row, currentPlayer, false), loc.Col, nil
	case 3:
		w, perr := board.ParseWall(action)
		if perr != nil {
			return 0, 0, 0, perr
		}
		if w.Orient == board.Horizontal {
			return 1, FlipYPerspective(w.Row, currentPlayer, false), w.Col, nil
		}
		return 2, FlipYPerspective(w.Row, currentPlayer, true), w.Col, nil
	default:
		return 0, 0, 0, fmt.Errorf("eval: invalid action %q", action)
	}
}

// EncodeActionsToPlanes 1-hot encodes every move in actions into a (3,9,9)
// policy tensor, unioning them if more than one is given.
func EncodeActionsToPlanes(actions []string, currentPlayer int) [PolicyLen]float32 {
	var out [PolicyLen]float32
	plane := GridSize * GridSize
	for _, mv := range actions {
		p, r, c, err := ActionToCoordinate(mv, currentPlayer)
		if err != nil {
			continue
		}
		out[p*plane+r*GridSize+c] = 1
	}
	return out
}

// IndexToAction is the inverse of ActionToCoordinate's flat index: given a
// flattened (3,9,9) policy index, return the action string it represents.
func IndexToAction(idx, currentPlayer int) (string, error) {
	if idx < 0 || idx >= PolicyLen {
		return "", fmt.Errorf("eval: policy index %d out of bounds", idx)
	}
	plane := GridSize * GridSize
	p, rem := idx/plane, idx%plane
	row, col := rem/GridSize, rem%GridSize
	switch p {
	case 0:
		loc := board.Location{Row: FlipYPerspective(row, currentPlayer, false), Col: col}
		return loc.String(), nil
	case 1:
		loc := board.Location{Row: FlipYPerspective(row, currentPlayer, false), Col: col}
		w := board.Wall{Row: loc.Row, Col: loc.Col, Orient: board.Horizontal}
		return w.String(), nil
	default:
		loc := board.Location{Row: FlipYPerspective(row, currentPlayer, true), Col: col}
		w := board.Wall{Row: loc.Row, Col: loc.Col, Orient: board.Vertical}
		return w.String(), nil
	}
}

// SampleAction draws one action from a (3,9,9) policy tensor of non-negative
// weights. Callers are expected to have already zeroed illegal entries (by
// multiplying against a legal-move mask from EncodeActionsToPlanes) before
// calling this -- it performs no legality check itself. temperature near
// zero takes the argmax instead of sampling, to avoid the numerical blow-up
// of raising near-zero probabilities to a near-infinite power.
func SampleAction(policy [PolicyLen]float32, currentPlayer int, temperature float64, rng *rand.Rand) (string, error) {
	if temperature < 1e-6 {
		best := 0
		for i := 1; i < PolicyLen; i++ {
			if policy[i] > policy[best] {
				best = i
			}
		}
		return IndexToAction(best, currentPlayer)
	}

	weights := make([]float64, PolicyLen)
	var total float64
	for i, v := range policy {
		w := math.Pow(float64(v), 1/temperature)
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return "", fmt.Errorf("eval: policy has no positive mass to sample from")
	}

	draw := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if draw <= cum {
			return IndexToAction(i, currentPlayer)
		}
	}
	return IndexToAction(PolicyLen-1, currentPlayer)
}
