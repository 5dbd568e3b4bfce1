package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRandomUnshotCellSkipsShotCells(t *testing.T) {
	diff := DifficultyByName("easy")
	b := NewBoard(diff, nil)

	// shoot everything except one cell
	for row := 0; row < diff.GridSize; row++ {
		for col := 0; col < diff.GridSize; col++ {
			if row == 3 && col == 4 {
				continue
			}
			b.ShotCells[Cell{Row: row, Col: col}] = true
		}
	}

	cell, ok := PickRandomUnshotCell(b)
	require.True(t, ok)
	assert.Equal(t, Cell{Row: 3, Col: 4}, cell)
}

func TestPickRandomUnshotCellExhaustedBoard(t *testing.T) {
	diff := DifficultyByName("easy")
	b := NewBoard(diff, nil)

	for row := 0; row < diff.GridSize; row++ {
		for col := 0; col < diff.GridSize; col++ {
			b.ShotCells[Cell{Row: row, Col: col}] = true
		}
	}

	_, ok := PickRandomUnshotCell(b)
	assert.False(t, ok)
}
