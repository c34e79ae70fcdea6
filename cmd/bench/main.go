// cmd/bench benchmarks the alpha-beta searcher: how many positions per
// second it explores across a batch of randomly-played-out openings.
//
// Grounded on the teacher's cmd/bench_perf/main.go (random positions,
// repeated timed passes, throughput in positions/sec).
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

func randomOpening(rng *rand.Rand, plies int) *game.Game {
	g := game.New()
	for i := 0; i < plies; i++ {
		moves := g.AllLegalMoves(false)
		if len(moves) == 0 {
			break
		}
		mv := moves[rng.Intn(len(moves))]
		if err := g.ExecMove(mv, false, false); err != nil {
			break
		}
		if g.GetWinner() != -1 {
			break
		}
	}
	return g
}

func main() {
	numPositions := flag.Int("positions", 200, "number of random opening positions to bench against")
	depth := flag.Int("depth", 3, "alpha-beta search depth")
	seed := flag.Int64("seed", 1, "rng seed for generating openings")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	positions := make([]*game.Game, *numPositions)
	for i := range positions {
		plies := rng.Intn(20) + 4
		positions[i] = randomOpening(rng, plies)
	}

	start := time.Now()
	totalVisited := 0
	for _, g := range positions {
		res, err := search.AlphaBetaSearch(context.Background(), g, eval.SimpleValue, *depth)
		if err != nil && res.Move == "" {
			continue
		}
		totalVisited += res.Visited
	}
	elapsed := time.Since(start)

	nsPerSearch := float64(elapsed.Nanoseconds()) / float64(len(positions))
	positionsPerSec := float64(totalVisited) / elapsed.Seconds()
	fmt.Printf("=== AlphaBeta Benchmark ===\n")
	fmt.Printf("positions=%d depth=%d\n", len(positions), *depth)
	fmt.Printf("avg search time: %.0f us/search\n", nsPerSearch/1000)
	fmt.Printf("throughput: %.0f visited-positions/sec (total visited=%d)\n", positionsPerSec, totalVisited)
}
