package game

import "math/rand"

// PickRandomUnshotCell returns a uniformly random cell that has not been
// shot at yet. The second return is false when the board is fully shot,
// which should not happen before the board is defeated.
func PickRandomUnshotCell(b *Board) (Cell, bool) {
	open := make([]Cell, 0, b.GridSize*b.GridSize-len(b.ShotCells))
	for row := 0; row < b.GridSize; row++ {
		for col := 0; col < b.GridSize; col++ {
			c := Cell{Row: row, Col: col}
			if !b.ShotCells[c] {
				open = append(open, c)
			}
		}
	}
	if len(open) == 0 {
		return Cell{}, false
	}
	return open[rand.Intn(len(open))], true
}
