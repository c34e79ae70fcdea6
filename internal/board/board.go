// Package board holds the static, precomputed geometry of a 9x9 Quoridor
// board: locations, walls, the cells a wall cuts, the walls that physically
// rule each other out, and the goal rows. Nothing here is mutable per-game;
// the per-game adjacency graph is built fresh by NewAdjacencyGraph.
package board

import (
	"fmt"
	"strings"
)

// Size is the number of rows/cols on the board.
const Size = 9

// Location is a zero-indexed (row, col) cell.
type Location struct {
	Row, Col int
}

// String renders a location in external notation: row a..i, col 1..9.
func (l Location) String() string {
	return fmt.Sprintf("%c%d", 'a'+l.Row, l.Col+1)
}

// InBounds reports whether l falls on the 9x9 board.
func (l Location) InBounds() bool {
	return l.Row >= 0 && l.Row < Size && l.Col >= 0 && l.Col < Size
}

// ParseLocation parses a 2-char move string such as "e5" into a Location.
// Total on well-formed input; the letter is case-insensitive.
func ParseLocation(s string) (Location, error) {
	if len(s) != 2 {
		return Location{}, fmt.Errorf("board: location %q must be 2 characters", s)
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	row := int(c) - int('a')
	col := int(s[1]) - int('1')
	loc := Location{Row: row, Col: col}
	if !loc.InBounds() {
		return Location{}, fmt.Errorf("board: location %q out of bounds", s)
	}
	return loc, nil
}

// Orientation is the axis a wall blocks along.
type Orientation byte

const (
	Horizontal Orientation = 'h'
	Vertical   Orientation = 'v'
)

// Wall is a 3-char identifier: the top-left cell of the 2x2 block it spans,
// plus an orientation. Top-left rows/cols run 0..7 (a1..h8).
type Wall struct {
	Row, Col int
	Orient   Orientation
}

// String renders a wall in external notation, e.g. "d4h".
func (w Wall) String() string {
	return fmt.Sprintf("%c%d%c", 'a'+w.Row, w.Col+1, byte(w.Orient))
}

// InBounds reports whether w's top-left corner is a valid wall slot.
func (w Wall) InBounds() bool {
	return w.Row >= 0 && w.Row < Size-1 && w.Col >= 0 && w.Col < Size-1
}

// ParseWall parses a 3-char move string such as "d4h" into a Wall. Total on
// well-formed input; the letter and orientation are case-insensitive.
func ParseWall(s string) (Wall, error) {
	if len(s) != 3 {
		return Wall{}, fmt.Errorf("board: wall %q must be 3 characters", s)
	}
	loc, err := ParseLocation(s[0:2])
	if err != nil {
		return Wall{}, fmt.Errorf("board: wall %q: %w", s, err)
	}
	orient := Orientation(strings.ToLower(s[2:3])[0])
	if orient != Horizontal && orient != Vertical {
		return Wall{}, fmt.Errorf("board: wall %q has invalid orientation", s)
	}
	w := Wall{Row: loc.Row, Col: loc.Col, Orient: orient}
	if !w.InBounds() {
		return Wall{}, fmt.Errorf("board: wall %q out of bounds", s)
	}
	return w, nil
}

// cross returns the wall at the same top-left corner with the opposite
// orientation -- the two always physically intersect.
func (w Wall) cross() Wall {
	if w.Orient == Horizontal {
		return Wall{Row: w.Row, Col: w.Col, Orient: Vertical}
	}
	return Wall{Row: w.Row, Col: w.Col, Orient: Horizontal}
}

// Edge is an unordered pair of adjacent locations.
type Edge [2]Location

var (
	// AllLocations lists every cell on the board, row-major.
	AllLocations [Size * Size]Location
	// AllWalls lists every wall slot (8*8*2 = 128 of them).
	AllWalls [2 * (Size - 1) * (Size - 1)]Wall
	// TouchingWalls maps a wall to every wall slot it physically rules out
	// (including itself): the crossing wall, and same-orientation walls
	// one cell further along the wall's own axis.
	TouchingWalls map[Wall][]Wall
	// Cuts maps a wall to the two edges it removes from the adjacency graph.
	Cuts map[Wall][2]Edge
	// Goals holds the goal-row cells for player 0 (row 8) and player 1 (row 0).
	Goals [2][]Location
)

func init() {
	idx := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			AllLocations[idx] = Location{Row: r, Col: c}
			idx++
		}
	}

	widx := 0
	for r := 0; r < Size-1; r++ {
		for c := 0; c < Size-1; c++ {
			AllWalls[widx] = Wall{Row: r, Col: c, Orient: Horizontal}
			widx++
			AllWalls[widx] = Wall{Row: r, Col: c, Orient: Vertical}
			widx++
		}
	}

	TouchingWalls = make(map[Wall][]Wall, len(AllWalls))
	Cuts = make(map[Wall][2]Edge, len(AllWalls))
	for _, w := range AllWalls {
		touching := []Wall{w, w.cross()}
		switch w.Orient {
		case Vertical:
			if w.Row > 0 {
				touching = append(touching, Wall{Row: w.Row - 1, Col: w.Col, Orient: Vertical})
			}
			if w.Row < Size-2 {
				touching = append(touching, Wall{Row: w.Row + 1, Col: w.Col, Orient: Vertical})
			}
			Cuts[w] = [2]Edge{
				{Location{w.Row, w.Col}, Location{w.Row, w.Col + 1}},
				{Location{w.Row + 1, w.Col}, Location{w.Row + 1, w.Col + 1}},
			}
		case Horizontal:
			if w.Col > 0 {
				touching = append(touching, Wall{Row: w.Row, Col: w.Col - 1, Orient: Horizontal})
			}
			if w.Col < Size-2 {
				touching = append(touching, Wall{Row: w.Row, Col: w.Col + 1, Orient: Horizontal})
			}
			Cuts[w] = [2]Edge{
				{Location{w.Row, w.Col}, Location{w.Row + 1, w.Col}},
				{Location{w.Row, w.Col + 1}, Location{w.Row + 1, w.Col + 1}},
			}
		}
		TouchingWalls[w] = touching
	}

	Goals[0] = make([]Location, Size)
	Goals[1] = make([]Location, Size)
	for c := 0; c < Size; c++ {
		Goals[0][c] = Location{Row: Size - 1, Col: c}
		Goals[1][c] = Location{Row: 0, Col: c}
	}
}

// AdjacencyGraph is a mutable undirected graph over board locations, shared
// by the two PathGraph instances a Game owns (see package game). Cutting a
// wall removes edges from it; undoing a wall restores them.
type AdjacencyGraph map[Location]map[Location]struct{}

// NewAdjacencyGraph builds the full 9x9 grid graph (rook-step edges, no
// walls placed).
func NewAdjacencyGraph() AdjacencyGraph {
	g := make(AdjacencyGraph, Size*Size)
	for _, l := range AllLocations {
		g[l] = make(map[Location]struct{}, 4)
	}
	deltas := []Location{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}
	for _, l := range AllLocations {
		for _, d := range deltas {
			n := Location{Row: l.Row + d.Row, Col: l.Col + d.Col}
			if n.InBounds() {
				g[l][n] = struct{}{}
			}
		}
	}
	return g
}

// Has reports whether a and b are currently adjacent (no wall between them).
func (g AdjacencyGraph) Has(a, b Location) bool {
	_, ok := g[a][b]
	return ok
}

// Cut removes edge {a,b} in both directions.
func (g AdjacencyGraph) Cut(a, b Location) {
	delete(g[a], b)
	delete(g[b], a)
}

// Uncut restores edge {a,b} in both directions.
func (g AdjacencyGraph) Uncut(a, b Location) {
	g[a][b] = struct{}{}
	g[b][a] = struct{}{}
}

// Neighbors returns the (currently reachable) neighbors of l.
func (g AdjacencyGraph) Neighbors(l Location) map[Location]struct{} {
	return g[l]
}
