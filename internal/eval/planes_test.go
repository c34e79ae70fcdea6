package eval

import (
	"math/rand"
	"testing"

	"github.com/wrongu/QuoridorV2/internal/game"
)

func TestFlipYPerspectiveIsSelfInverse(t *testing.T) {
	for row := 0; row < GridSize; row++ {
		for _, vwall := range []bool{false, true} {
			if vwall && row >= GridSize-1 {
				continue
			}
			flipped := FlipYPerspective(row, 1, vwall)
			back := FlipYPerspective(flipped, 1, vwall)
			if back != row {
				t.Fatalf("FlipYPerspective not self-inverse for row=%d vwall=%v: got %d back", row, vwall, back)
			}
		}
	}
}

func TestActionRoundTripsThroughPolicyIndex(t *testing.T) {
	g := game.New()
	for _, cur := range []int{0, 1} {
		for _, mv := range g.AllLegalMoves(false) {
			plane, row, col, err := ActionToCoordinate(mv, cur)
			if err != nil {
				t.Fatalf("ActionToCoordinate(%s): %v", mv, err)
			}
			idx := plane*GridSize*GridSize + row*GridSize + col
			got, err := IndexToAction(idx, cur)
			if err != nil {
				t.Fatalf("IndexToAction: %v", err)
			}
			if got != mv {
				t.Fatalf("round trip mismatch for %s (player %d): got %s", mv, cur, got)
			}
		}
	}
}

func TestSampleActionArgmaxAtZeroTemperature(t *testing.T) {
	g := game.New()
	moves := g.AllLegalMoves(true)
	mask := EncodeActionsToPlanes(moves, g.CurrentPlayer())

	var policy [PolicyLen]float32
	best := moves[0]
	plane, row, col, _ := ActionToCoordinate(best, g.CurrentPlayer())
	policy[plane*GridSize*GridSize+row*GridSize+col] = 1

	for i := range policy {
		policy[i] *= mask[i]
	}

	got, err := SampleAction(policy, g.CurrentPlayer(), 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("SampleAction: %v", err)
	}
	if got != best {
		t.Fatalf("expected argmax move %s, got %s", best, got)
	}
}

func TestSimpleValueOpeningIsEven(t *testing.T) {
	g := game.New()
	if SimpleValue(g, 0) != 0 {
		t.Fatalf("opening position should be dead even, got %d", SimpleValue(g, 0))
	}
}

func TestSimplePolicyUniform(t *testing.T) {
	g := game.New()
	mp := SimplePolicy(g)
	if len(mp) == 0 {
		t.Fatalf("expected nonempty policy at game start")
	}
	total := 0.0
	for _, m := range mp {
		total += m.Prob
	}
	if total < 0.999 || total > 1.001 {
		t.Fatalf("policy mass should sum to 1, got %f", total)
	}
}
