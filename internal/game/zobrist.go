package game

import (
	"math/rand"

	"github.com/wrongu/QuoridorV2/internal/board"
)

// Zobrist-style incremental hash, per spec.md's design note: rather than
// recomputing the canonical key's hash from scratch on every ExecMove/Undo,
// XOR in/out a fixed random key per state component. Two Games with the
// same (current player, played walls, player positions, walls remaining)
// always produce the same hash, since every component is folded in exactly
// once regardless of the order moves were played in.
var (
	zobristPosition    [2][board.Size * board.Size]uint64
	zobristWallsLeft   [2][numWalls + 1]uint64
	zobristWall        map[board.Wall]uint64
	zobristSideToMove  [2]uint64
)

const numWalls = 10

func init() {
	rng := rand.New(rand.NewSource(0x51ede17a1))
	for p := 0; p < 2; p++ {
		for i := range zobristPosition[p] {
			zobristPosition[p][i] = rng.Uint64()
		}
		for i := range zobristWallsLeft[p] {
			zobristWallsLeft[p][i] = rng.Uint64()
		}
		zobristSideToMove[p] = rng.Uint64()
	}
	zobristWall = make(map[board.Wall]uint64, len(board.AllWalls))
	for _, w := range board.AllWalls {
		zobristWall[w] = rng.Uint64()
	}
}

func locIndex(l board.Location) int {
	return l.Row*board.Size + l.Col
}

func zobristForPosition(player int, l board.Location) uint64 {
	return zobristPosition[player][locIndex(l)]
}

func zobristForWallsLeft(player, n int) uint64 {
	return zobristWallsLeft[player][n]
}
