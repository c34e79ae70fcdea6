// cmd/phase_battle measures how a search-depth advantage performs when
// introduced only during one phase of the game (opening, midgame, or
// endgame), holding both sides at a shallow baseline depth otherwise.
//
// Grounded on the teacher's cmd/phase_ablation/main.go: sample a starting
// position for a target phase, then duel a phase-restricted deeper
// searcher against an always-shallow baseline. The teacher segments
// phases by board fill ratio (a Hexxagon-specific signal); here the phase
// signal is walls remaining, Quoridor's natural analogue -- most walls
// still in hand is "opening", few or none left is "endgame".
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
	"github.com/wrongu/QuoridorV2/internal/search"
)

var (
	baseDepth   = flag.Int("base_depth", 2, "baseline search depth used outside the target phase, and by the opponent always")
	boostDepth  = flag.Int("boost_depth", 4, "search depth the boosted player uses during the target phase")
	samples     = flag.Int("n", 50, "positions sampled per phase")
	randomOpen  = flag.Int("random_open", 2, "random moves per side played before advancing to the target phase")
	think       = flag.Duration("think", 2*time.Second, "per-move time budget")
	seed        = flag.Int64("seed", time.Now().UnixNano(), "rng seed")
)

// wallsPerPlayer mirrors the engine's fixed starting wall count (10 per
// side, 20 total); it is not exported by package game since no operation
// needs it at runtime, only this phase-sampling heuristic does.
const wallsPerPlayer = 10

// wallsRatio is the fraction of total walls still unplayed; 1.0 at the
// start of the game, shrinking toward 0 as walls are placed.
func wallsRatio(g *game.Game) float64 {
	remaining := g.Player(0).WallsRemaining + g.Player(1).WallsRemaining
	return float64(remaining) / float64(2*wallsPerPlayer)
}

// sampleStateForPhase plays randomOpen random moves per side (2*randomOpen
// plies) to break symmetry,
// then advances with shallow alpha-beta search until wallsRatio reaches
// the target phase's band.
func sampleStateForPhase(rng *rand.Rand, phase string) *game.Game {
	g := game.New()
	for i := 0; i < *randomOpen*2; i++ {
		moves := g.AllLegalMoves(false)
		if len(moves) == 0 || g.GetWinner() != -1 {
			break
		}
		mv := moves[rng.Intn(len(moves))]
		if err := g.ExecMove(mv, false, false); err != nil {
			break
		}
	}

	for step := 0; step < 200 && g.GetWinner() == -1; step++ {
		r := wallsRatio(g)
		switch phase {
		case "opening":
			if r >= 0.75 {
				return g
			}
		case "endgame":
			if r <= 0.25 {
				return g
			}
		case "midgame":
			if r < 0.75 && r > 0.25 {
				return g
			}
		}
		res, err := search.AlphaBetaSearch(context.Background(), g, eval.SimpleValue, 2)
		if err != nil && res.Move == "" {
			break
		}
		if err := g.ExecMove(res.Move, false, false); err != nil {
			break
		}
	}
	return g
}

// duel plays from g with player 0 always at baseDepth, and player 1 at
// boostDepth only while the game remains in phase, baseDepth otherwise.
// It returns +1 if the baseline (player 0) wins, -1 if the boosted player
// wins, 0 for a draw.
func duel(g *game.Game, phase string, thinkTime time.Duration) int {
	const maxPlies = 300
	for ply := 0; ply < maxPlies && g.GetWinner() == -1; ply++ {
		cur := g.CurrentPlayer()
		depth := *baseDepth
		if cur == 1 && wallsRatio(g) > 0 && inPhase(g, phase) {
			depth = *boostDepth
		}

		ctx, cancel := context.WithTimeout(context.Background(), thinkTime)
		res, err := search.AlphaBetaSearch(ctx, g, eval.SimpleValue, depth)
		cancel()
		if err != nil && res.Move == "" {
			break
		}
		if err := g.ExecMove(res.Move, false, false); err != nil {
			break
		}
	}

	switch g.GetWinner() {
	case 0:
		return 1
	case 1:
		return -1
	default:
		return 0
	}
}

func inPhase(g *game.Game, phase string) bool {
	r := wallsRatio(g)
	switch phase {
	case "opening":
		return r >= 0.75
	case "endgame":
		return r <= 0.25
	default:
		return r < 0.75 && r > 0.25
	}
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	phases := []string{"opening", "midgame", "endgame"}
	for _, phase := range phases {
		baseWins, boostWins, draws := 0, 0, 0
		for i := 0; i < *samples; i++ {
			st := sampleStateForPhase(rng, phase)
			switch duel(st, phase, *think) {
			case 1:
				baseWins++
			case -1:
				boostWins++
			default:
				draws++
			}
		}
		total := baseWins + boostWins + draws
		winRate := 0.0
		if total > 0 {
			winRate = 100 * float64(boostWins) / float64(total)
		}
		fmt.Printf("[%s] baseline wins=%d boosted wins=%d draws=%d | boosted win rate=%.1f%%\n",
			phase, baseWins, boostWins, draws, winRate)
	}
}
