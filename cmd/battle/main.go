// cmd/battle pits two alpha-beta search depths against each other over a
// series of games, alternating who moves first, and records a per-ply CSV
// trace of the path-distance differential.
//
// Grounded on the teacher's cmd/battle_eval_nn/main.go (alternating-first
// head-to-head match runner + per-ply CSV sampling of a scalar
// differential), adapted from a piece-count differential to Quoridor's
// path-distance differential.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/wrongu/QuoridorV2/internal/archive"
	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
	"github.com/wrongu/QuoridorV2/internal/search"
	"github.com/wrongu/QuoridorV2/internal/store"
)

type frameRow struct {
	gameNum  int
	ply      int
	pathDiff int
	mover    string
}

// cachedSearch consults cache for a position already searched to at least
// depth before running AlphaBetaSearch, and records the result afterward.
// cache may be nil, in which case every ply is searched fresh -- the battle
// runner plays the same handful of openings over and over across hundreds
// of games, so the cache saves real work on repeated transpositions.
func cachedSearch(ctx context.Context, g *game.Game, cache *store.PositionCache, depth int) (search.Result, error) {
	hash := g.HashKey()
	if cache != nil {
		if entry, ok, err := cache.Get(hash); err == nil && ok && entry.Depth >= depth && g.IsLegal(entry.Move) {
			return search.Result{Move: entry.Move, Score: entry.Score}, nil
		}
	}
	res, err := search.AlphaBetaSearch(ctx, g, eval.SimpleValue, depth)
	if err != nil && res.Move == "" {
		return res, err
	}
	if cache != nil {
		_ = cache.Put(hash, store.Entry{Move: res.Move, Score: res.Score, Depth: depth})
	}
	return res, nil
}

// playOneGame runs depthA's searcher against depthB's, alternating which
// plays player 0 depending on aFirst, and returns +1 if A won, -1 if B
// won, 0 for a ply-limit draw, plus the per-ply trace. If games is non-nil
// the finished game is archived regardless of outcome.
func playOneGame(depthA, depthB int, aFirst bool, thinkTime time.Duration, cache *store.PositionCache, games *archive.Archive) (result int, frames []frameRow) {
	g := game.New()
	startedAt := time.Now()
	frames = make([]frameRow, 0, 128)

	const maxPlies = 400
	for ply := 0; ply < maxPlies && g.GetWinner() == -1; ply++ {
		cur := g.CurrentPlayer()

		aIsMover := (cur == 0) == aFirst
		depth := depthB
		tag := "B"
		if aIsMover {
			depth = depthA
			tag = "A"
		}

		ctx, cancel := context.WithTimeout(context.Background(), thinkTime)
		res, err := cachedSearch(ctx, g, cache, depth)
		cancel()
		if err != nil && res.Move == "" {
			break
		}
		if err := g.ExecMove(res.Move, false, false); err != nil {
			break
		}

		myPath := g.PathGraph(cur).Distance(g.Player(cur).Position)
		opp := 1 - cur
		oppPath := g.PathGraph(opp).Distance(g.Player(opp).Position)
		frames = append(frames, frameRow{ply: ply + 1, pathDiff: oppPath - myPath, mover: tag})
	}

	if games != nil {
		if _, err := games.SaveGame(g, startedAt); err != nil {
			log.Printf("battle: archiving game: %v", err)
		}
	}

	winner := g.GetWinner()
	switch {
	case winner == -1:
		return 0, frames
	case (winner == 0) == aFirst:
		return 1, frames
	default:
		return -1, frames
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	return w.WriteAll(rows)
}

func main() {
	numGames := flag.Int("games", 100, "number of games to play")
	depthA := flag.Int("depth_a", 2, "search depth for player A")
	depthB := flag.Int("depth_b", 3, "search depth for player B")
	think := flag.Duration("think", 2*time.Second, "per-move time budget")
	outCSV := flag.String("out", "battle_samples.csv", "per-ply CSV trace output path")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed (unused directly, kept for reproducible future opening randomization)")
	cacheDir := flag.String("cache", "", "badger position-cache directory shared across the whole match (disabled if empty)")
	archivePath := flag.String("archive", "", "sqlite path to record every finished game (disabled if empty)")
	flag.Parse()
	_ = rand.NewSource(*seed)

	var cache *store.PositionCache
	if *cacheDir != "" {
		c, err := store.Open(*cacheDir)
		if err != nil {
			log.Fatalf("battle: opening position cache %s: %v", *cacheDir, err)
		}
		defer c.Close()
		cache = c
	}

	var games *archive.Archive
	if *archivePath != "" {
		a, err := archive.Open(*archivePath)
		if err != nil {
			log.Fatalf("battle: opening archive %s: %v", *archivePath, err)
		}
		defer a.Close()
		games = a
	}

	aWins, bWins, draws := 0, 0, 0
	rows := [][]string{{"game", "ply", "path_diff", "mover"}}

	for gnum := 1; gnum <= *numGames; gnum++ {
		aFirst := gnum%2 == 1
		result, frames := playOneGame(*depthA, *depthB, aFirst, *think, cache, games)
		switch result {
		case 1:
			aWins++
		case -1:
			bWins++
		default:
			draws++
		}
		for _, fr := range frames {
			rows = append(rows, []string{
				strconv.Itoa(gnum),
				strconv.Itoa(fr.ply),
				strconv.Itoa(fr.pathDiff),
				fr.mover,
			})
		}
		if gnum%10 == 0 {
			log.Printf("progress %d/%d | A wins: %d  B wins: %d  draws: %d", gnum, *numGames, aWins, bWins, draws)
		}
	}

	fmt.Printf("=== depth %d vs depth %d ===\n", *depthA, *depthB)
	fmt.Printf("games=%d A wins=%d B wins=%d draws=%d\n", *numGames, aWins, bWins, draws)
	if err := writeCSV(*outCSV, rows); err != nil {
		log.Fatalf("battle: writing CSV: %v", err)
	}
	fmt.Printf("per-ply trace written to %s\n", *outCSV)
}
