package app

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/wojtekolesinski/planewars/game"
)

const infoWidth = 60

// renderBoard draws a grid as text: planes as '#' with '@' heads, hits as
// 'x', misses as 'o'. Planes may be nil for an opponent's board.
func renderBoard(gridSize int, planes []game.Plane, hits, misses []game.Cell) string {
	grid := make([][]rune, gridSize)
	for i := range grid {
		grid[i] = make([]rune, gridSize)
		for j := range grid[i] {
			grid[i][j] = '.'
		}
	}
	for _, p := range planes {
		for _, c := range p.Cells {
			grid[c.Row][c.Col] = '#'
		}
		grid[p.Head.Row][p.Head.Col] = '@'
	}
	for _, c := range hits {
		grid[c.Row][c.Col] = 'x'
	}
	for _, c := range misses {
		grid[c.Row][c.Col] = 'o'
	}

	var sb strings.Builder
	sb.WriteString("    ")
	for col := 0; col < gridSize; col++ {
		sb.WriteRune(rune('A' + col))
		sb.WriteRune(' ')
	}
	sb.WriteRune('\n')
	for row := 0; row < gridSize; row++ {
		sb.WriteString(fmt.Sprintf("%2d  ", row+1))
		for col := 0; col < gridSize; col++ {
			sb.WriteRune(grid[row][col])
			sb.WriteRune(' ')
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func printInfo(text string) {
	fmt.Println(wordwrap.WrapString(text, infoWidth))
}
