// cmd/quoridor drives a Quoridor match from a terminal: two humans, or a
// human against the alpha-beta searcher, reading moves line by line and
// printing the resulting board after every ply.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/wrongu/QuoridorV2/internal/archive"
	"github.com/wrongu/QuoridorV2/internal/board"
	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
	"github.com/wrongu/QuoridorV2/internal/search"
	"github.com/wrongu/QuoridorV2/internal/store"
)

func main() {
	loadFrom := flag.String("load", "", "resume a match from a save file")
	saveTo := flag.String("save", "", "write the match to a save file on exit")
	vsAI := flag.Int("ai", -1, "if 0 or 1, that player is driven by the alpha-beta searcher")
	depth := flag.Int("depth", 3, "alpha-beta search depth when -ai is set")
	thinkTime := flag.Duration("think", 5*time.Second, "time budget per AI move")
	cacheDir := flag.String("cache", "", "badger position-cache directory for AI moves (disabled if empty)")
	archivePath := flag.String("archive", "", "sqlite path to record the finished game (disabled if empty)")
	flag.Parse()

	var g *game.Game
	var err error
	if *loadFrom != "" {
		g, err = game.LoadFile(*loadFrom)
	} else {
		g = game.New()
	}
	if err != nil {
		log.Fatalf("quoridor: loading %s: %v", *loadFrom, err)
	}

	if *saveTo != "" {
		defer func() {
			if err := g.SaveFile(*saveTo); err != nil {
				log.Printf("quoridor: saving %s: %v", *saveTo, err)
			}
		}()
	}

	var cache *store.PositionCache
	if *cacheDir != "" {
		cache, err = store.Open(*cacheDir)
		if err != nil {
			log.Fatalf("quoridor: opening position cache %s: %v", *cacheDir, err)
		}
		defer cache.Close()
	}

	var games *archive.Archive
	startedAt := time.Now()
	if *archivePath != "" {
		games, err = archive.Open(*archivePath)
		if err != nil {
			log.Fatalf("quoridor: opening archive %s: %v", *archivePath, err)
		}
		defer games.Close()
	}

	scanner := bufio.NewScanner(os.Stdin)
	printBoard(g)
	for g.GetWinner() == -1 {
		cur := g.CurrentPlayer()
		var mv string
		if cur == *vsAI {
			res, err := aiMove(g, cache, *depth, *thinkTime)
			if err != nil && res.Move == "" {
				log.Fatalf("quoridor: search failed to find any move: %v", err)
			}
			mv = res.Move
			fmt.Printf("player %d (AI) plays %s (score %d)\n", cur, mv, res.Score)
		} else {
			fmt.Printf("player %d> ", cur)
			if !scanner.Scan() {
				return
			}
			mv = strings.TrimSpace(scanner.Text())
			if mv == "" {
				continue
			}
			if mv == "legal" {
				fmt.Println(strings.Join(g.AllLegalMoves(false), " "))
				continue
			}
			if mv == "undo" {
				g.Undo(true)
				printBoard(g)
				continue
			}
			if mv == "quit" {
				return
			}
		}

		if err := g.ExecMove(mv, true, false); err != nil {
			fmt.Println(err)
			continue
		}
		printBoard(g)
	}
	fmt.Printf("player %d wins!\n", g.GetWinner())

	if games != nil {
		if _, err := games.SaveGame(g, startedAt); err != nil {
			log.Printf("quoridor: archiving game: %v", err)
		}
	}
}

// aiMove consults cache for an already-searched position at least as deep as
// depth before falling back to a fresh AlphaBetaSearch, and populates cache
// with whatever it finds. cache may be nil, in which case every move is
// searched fresh.
func aiMove(g *game.Game, cache *store.PositionCache, depth int, thinkTime time.Duration) (search.Result, error) {
	hash := g.HashKey()
	if cache != nil {
		if entry, ok, err := cache.Get(hash); err != nil {
			log.Printf("quoridor: position cache lookup: %v", err)
		} else if ok && entry.Depth >= depth && g.IsLegal(entry.Move) {
			return search.Result{Move: entry.Move, Score: entry.Score}, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), thinkTime)
	res, err := search.AlphaBetaSearch(ctx, g, eval.SimpleValue, depth)
	cancel()
	if err != nil && res.Move == "" {
		return res, err
	}

	if cache != nil {
		if perr := cache.Put(hash, store.Entry{Move: res.Move, Score: res.Score, Depth: depth}); perr != nil {
			log.Printf("quoridor: position cache store: %v", perr)
		}
	}
	return res, nil
}

// printBoard renders the 9x9 board with pawn positions and played walls as
// ASCII art: the digits 0 and 1 for pawns, '|' for vertical wall segments,
// '-' for horizontal ones.
func printBoard(g *game.Game) {
	var sb strings.Builder
	pawns := make(map[board.Location]byte, game.NumPlayers)
	for i := 0; i < game.NumPlayers; i++ {
		pawns[g.Player(i).Position] = byte('0' + i)
	}
	walls := g.PlayedWalls()

	hWall := make(map[board.Location]bool)
	vWall := make(map[board.Location]bool)
	for _, w := range walls {
		if w.Orient == board.Horizontal {
			hWall[board.Location{Row: w.Row, Col: w.Col}] = true
			hWall[board.Location{Row: w.Row, Col: w.Col + 1}] = true
		} else {
			vWall[board.Location{Row: w.Row, Col: w.Col}] = true
			vWall[board.Location{Row: w.Row + 1, Col: w.Col}] = true
		}
	}

	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			loc := board.Location{Row: r, Col: c}
			if p, ok := pawns[loc]; ok {
				sb.WriteByte(p)
			} else {
				sb.WriteByte('.')
			}
			if c < board.Size-1 {
				if vWall[board.Location{Row: r, Col: c}] {
					sb.WriteByte('|')
				} else {
					sb.WriteByte(' ')
				}
			}
		}
		sb.WriteByte('\n')
		if r < board.Size-1 {
			for c := 0; c < board.Size; c++ {
				if hWall[board.Location{Row: r, Col: c}] {
					sb.WriteString("- ")
				} else {
					sb.WriteString("  ")
				}
			}
			sb.WriteByte('\n')
		}
	}
	fmt.Print(sb.String())
	fmt.Printf("player 0 walls: %d  player 1 walls: %d\n", g.Player(0).WallsRemaining, g.Player(1).WallsRemaining)
}
