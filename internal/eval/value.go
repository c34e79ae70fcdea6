// Package eval holds the default evaluation and policy hooks the search
// and MCTS packages fall back on when no trained oracle is wired in, plus
// the tensor encoders an oracle's neural net would consume.
//
// Grounded on features.py's simple_value/simple_policy.
package eval

import "github.com/wrongu/QuoridorV2/internal/game"

// SimpleValue scores the position from player's perspective: the wall-count
// lead over the single best-stocked opponent, minus 4 times the shortest-
// path-length deficit behind the single closest-to-winning opponent, with a
// flat +1000 bonus if player has already won. It is grounded verbatim on
// features.py's simple_value and, unlike a learned value head, never needs
// an oracle to be wired in.
func SimpleValue(g *game.Game, player int) int {
	myPath := g.PathGraph(player).Distance(g.Player(player).Position)

	bestOppPath := -1
	bestOppWalls := -1
	for i := 0; i < game.NumPlayers; i++ {
		if i == player {
			continue
		}
		oppPath := g.PathGraph(i).Distance(g.Player(i).Position)
		if bestOppPath == -1 || oppPath < bestOppPath {
			bestOppPath = oppPath
		}
		if g.Player(i).WallsRemaining > bestOppWalls {
			bestOppWalls = g.Player(i).WallsRemaining
		}
	}

	pathDiff := myPath - bestOppPath
	wallDiff := g.Player(player).WallsRemaining - bestOppWalls

	score := wallDiff - 4*pathDiff
	if g.GetWinner() == player {
		score += 1000
	}
	return score
}
