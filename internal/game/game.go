// Package game implements the Quoridor rules engine: reversible state,
// move legality (including jumps and the no-full-cutoff constraint), and a
// canonical incremental hash for transposition detection.
//
// Grounded on quoridor.py's Quoridor class, restructured around two
// internal/pathgraph.PathGraph instances (one per player's goal set)
// instead of repeating a full is-reachable search on every wall placement.
package game

import (
	"fmt"

	"github.com/wrongu/QuoridorV2/internal/board"
	"github.com/wrongu/QuoridorV2/internal/pathgraph"
)

// NumPlayers is fixed at 2; the engine and save-file format both assume it.
const NumPlayers = 2

const startingWalls = numWalls

// PlayerState is one player's mutable state.
type PlayerState struct {
	Position       board.Location
	WallsRemaining int
}

type historyKind int

const (
	historyPawnMove historyKind = iota
	historyWallPlacement
)

type historyEntry struct {
	kind historyKind
	from board.Location
	to   board.Location
	wall board.Wall
}

// Game is a single Quoridor match: played walls, both players' state, undo
// and redo stacks, and the two shared-adjacency PathGraphs used for
// sublinear legality checks.
type Game struct {
	walls     map[board.Wall]struct{}
	openWalls map[board.Wall]struct{}
	players   [NumPlayers]PlayerState
	current   int

	history   []historyEntry
	redoStack []string

	adjacency  board.AdjacencyGraph
	pathGraphs [NumPlayers]*pathgraph.PathGraph

	hash uint64
}

// IllegalMove is raised by ExecMove(checkLegal=true) when the move fails
// legality; it carries the offending move string.
type IllegalMove struct {
	Move string
}

func (e *IllegalMove) Error() string {
	return fmt.Sprintf("game: illegal move %q", e.Move)
}

// New creates a fresh game: player 0 at the top-middle cell with 10 walls,
// player 1 at the bottom-middle cell with 10 walls, all 128 wall slots open.
func New() *Game {
	g := &Game{
		walls:     make(map[board.Wall]struct{}),
		openWalls: make(map[board.Wall]struct{}, len(board.AllWalls)),
		adjacency: board.NewAdjacencyGraph(),
	}
	for _, w := range board.AllWalls {
		g.openWalls[w] = struct{}{}
	}
	g.players[0] = PlayerState{Position: board.Location{Row: 0, Col: 4}, WallsRemaining: startingWalls}
	g.players[1] = PlayerState{Position: board.Location{Row: board.Size - 1, Col: 4}, WallsRemaining: startingWalls}
	g.pathGraphs[0] = pathgraph.New(g.adjacency, board.Goals[0])
	g.pathGraphs[1] = pathgraph.New(g.adjacency, board.Goals[1])

	for p := 0; p < NumPlayers; p++ {
		g.hash ^= zobristForPosition(p, g.players[p].Position)
		g.hash ^= zobristForWallsLeft(p, g.players[p].WallsRemaining)
	}
	g.hash ^= zobristSideToMove[g.current]
	return g
}

// CurrentPlayer returns the index (0 or 1) of the player to move.
func (g *Game) CurrentPlayer() int { return g.current }

// Player returns a copy of player i's state.
func (g *Game) Player(i int) PlayerState { return g.players[i] }

// Opponent returns the other player's index.
func Opponent(player int) int { return 1 - player }

// HashKey returns the canonical, incrementally maintained hash of
// (current player, played walls, player positions and wall counts).
// History does not affect it: two Games reached by different move
// sequences but the same resulting state share a HashKey.
func (g *Game) HashKey() uint64 { return g.hash }

// PathGraph returns the shortest-path engine for player i's goal set.
func (g *Game) PathGraph(i int) *pathgraph.PathGraph { return g.pathGraphs[i] }

// PlayedWalls returns every wall currently on the board, in no particular
// order.
func (g *Game) PlayedWalls() []board.Wall {
	out := make([]board.Wall, 0, len(g.walls))
	for w := range g.walls {
		out = append(out, w)
	}
	return out
}

// GetWinner returns the index of the first player sitting in its own goal
// row, or -1 if neither has won yet.
func (g *Game) GetWinner() int {
	for i := 0; i < NumPlayers; i++ {
		for _, goal := range board.Goals[i] {
			if g.players[i].Position == goal {
				return i
			}
		}
	}
	return -1
}

// EndgameFastPathMove returns the next step along the current player's
// shortest path to their goal, but only once both players have exhausted
// their walls. Once no wall can ever be placed again, optimal play
// collapses to a pathfinding race, so a search doesn't need to branch over
// the full legal move set at that point -- it can just take the greedy
// step. ok is false when a player still has walls, the path is broken, or
// the greedy step isn't actually legal (e.g. the straight step is blocked
// by the opponent and a jump is called for instead, which this shortcut
// does not attempt).
//
// Grounded on ai.py's monte_carlo_tree_search, which takes this shortcut
// once both players are out of walls.
func (g *Game) EndgameFastPathMove() (string, bool) {
	for i := 0; i < NumPlayers; i++ {
		if g.players[i].WallsRemaining > 0 {
			return "", false
		}
	}
	cur := g.current
	next, ok := g.pathGraphs[cur].GetPath(g.players[cur].Position).Next()
	if !ok {
		return "", false
	}
	mv := next.String()
	if !g.IsLegal(mv) {
		return "", false
	}
	return mv, true
}

// ExecMove executes mv (a 2-char pawn move or 3-char wall placement). If
// checkLegal is true and mv fails legality, it returns *IllegalMove and
// leaves the game unmodified. If checkLegal is false, behavior on an
// illegal mv is undefined (only safe for already-filtered candidates, e.g.
// inside search rollouts). isRedo controls whether the redo stack is
// cleared (a genuinely new move) or left alone (replaying from it).
func (g *Game) ExecMove(mv string, checkLegal bool, isRedo bool) error {
	if checkLegal && !g.IsLegal(mv) {
		return &IllegalMove{Move: mv}
	}

	switch len(mv) {
	case 2:
		loc, err := board.ParseLocation(mv)
		if err != nil {
			return &IllegalMove{Move: mv}
		}
		g.execPawnMove(loc)
	case 3:
		w, err := board.ParseWall(mv)
		if err != nil {
			return &IllegalMove{Move: mv}
		}
		g.execWallPlacement(w)
	default:
		return &IllegalMove{Move: mv}
	}

	g.current = Opponent(g.current)
	g.hash ^= zobristSideToMove[0] ^ zobristSideToMove[1]
	if !isRedo {
		g.redoStack = g.redoStack[:0]
	}
	return nil
}

func (g *Game) execPawnMove(to board.Location) {
	p := g.current
	from := g.players[p].Position
	g.history = append(g.history, historyEntry{kind: historyPawnMove, from: from, to: to})

	g.hash ^= zobristForPosition(p, from)
	g.players[p].Position = to
	g.hash ^= zobristForPosition(p, to)
}

func (g *Game) execWallPlacement(w board.Wall) {
	p := g.current
	g.walls[w] = struct{}{}
	g.hash ^= zobristWall[w]

	oldRemaining := g.players[p].WallsRemaining
	g.hash ^= zobristForWallsLeft(p, oldRemaining)
	g.players[p].WallsRemaining = oldRemaining - 1
	g.hash ^= zobristForWallsLeft(p, oldRemaining-1)

	g.cutWall(w)
	for _, t := range board.TouchingWalls[w] {
		delete(g.openWalls, t)
	}

	g.history = append(g.history, historyEntry{kind: historyWallPlacement, wall: w})
}

// cutWall removes a wall's two edges from the shared adjacency graph,
// cutting both PathGraphs (they share the adjacency map, but each keeps its
// own dist/next bookkeeping and so must be told individually).
func (g *Game) cutWall(w board.Wall) {
	cuts := board.Cuts[w]
	pairs := [][2]board.Location{{cuts[0][0], cuts[0][1]}, {cuts[1][0], cuts[1][1]}}
	g.pathGraphs[0].Cut(pairs)
	g.pathGraphs[1].Cut(pairs)
}

func (g *Game) uncutWall(w board.Wall) {
	cuts := board.Cuts[w]
	pairs := [][2]board.Location{{cuts[0][0], cuts[0][1]}, {cuts[1][0], cuts[1][1]}}
	g.pathGraphs[0].Uncut(pairs)
	g.pathGraphs[1].Uncut(pairs)
}

// Undo reverses the most recent history entry and pushes the undone move onto
// the redo stack (unless allowRedo is false).
func (g *Game) Undo(allowRedo bool) {
	if len(g.history) == 0 {
		return
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	prev := Opponent(g.current)
	g.current = prev
	g.hash ^= zobristSideToMove[0] ^ zobristSideToMove[1]

	switch last.kind {
	case historyPawnMove:
		g.hash ^= zobristForPosition(prev, last.to)
		g.players[prev].Position = last.from
		g.hash ^= zobristForPosition(prev, last.from)
		if allowRedo {
			g.redoStack = append(g.redoStack, last.to.String())
		}
	case historyWallPlacement:
		w := last.wall
		delete(g.walls, w)
		g.hash ^= zobristWall[w]

		oldRemaining := g.players[prev].WallsRemaining
		g.hash ^= zobristForWallsLeft(prev, oldRemaining)
		g.players[prev].WallsRemaining = oldRemaining + 1
		g.hash ^= zobristForWallsLeft(prev, oldRemaining+1)

		g.uncutWall(w)
		g.restoreOpenWalls(w)

		if allowRedo {
			g.redoStack = append(g.redoStack, w.String())
		}
	}
}

// restoreOpenWalls re-adds every wall physically intersecting w back to the
// open set, except those still ruled out by some other currently-played
// wall.
func (g *Game) restoreOpenWalls(w board.Wall) {
	for _, t := range board.TouchingWalls[w] {
		stillRuledOut := false
		for _, t2 := range board.TouchingWalls[t] {
			if t2 == t {
				continue
			}
			if _, played := g.walls[t2]; played {
				stillRuledOut = true
				break
			}
		}
		if !stillRuledOut {
			g.openWalls[t] = struct{}{}
		}
	}
}

// Redo replays the top of the redo stack via ExecMove(isRedo=true).
func (g *Game) Redo() error {
	if len(g.redoStack) == 0 {
		return nil
	}
	mv := g.redoStack[len(g.redoStack)-1]
	g.redoStack = g.redoStack[:len(g.redoStack)-1]
	return g.ExecMove(mv, false, true)
}

// UndoAll rewinds the game to its starting state, leaving every move on the
// redo stack so Redo can replay them one at a time.
func (g *Game) UndoAll() {
	for len(g.history) > 0 {
		g.Undo(true)
	}
}

// TempMove is the scoped temporary-move guard from spec.md: Begin executes mv
// with legality checking off and is_redo on, and returns a TempMove whose
// Done method undoes it (with the redo stack left untouched). Call Done on every exit
// path, including via defer, so search recursion always unwinds correctly
// -- including nested TempMove scopes, which unwind LIFO simply by each
// deferred Done running in reverse call order.
type TempMove struct {
	g *Game
}

// Begin executes mv as a trusted move (no legality check) and returns a
// guard whose Done method undoes it. Callers must not otherwise mutate the
// game while the guard is open.
func (g *Game) Begin(mv string) (*TempMove, error) {
	if err := g.ExecMove(mv, false, true); err != nil {
		return nil, err
	}
	return &TempMove{g: g}, nil
}

// Done undoes the move this guard began, without touching the redo stack.
func (t *TempMove) Done() {
	t.g.Undo(false)
}
