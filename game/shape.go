package game

// Cell is a single grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// planeShape lists the cell offsets of the plane silhouette relative to its
// pivot. The offset at headIndex is the head: hitting that cell sinks the
// whole plane.
var planeShape = [8]Cell{
	{1, 0},
	{1, 1},
	{1, 2},
	{1, 3},
	{0, 1},
	{2, 1},
	{0, 3},
	{2, 3},
}

const headIndex = 0

// headOffsetByRotation gives the head's offset from the pivot for each
// rotation, so placement can be anchored on the head cell the player drags.
var headOffsetByRotation = [4]Cell{
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
}

// CellsFromPivot returns the 8 cells of a plane anchored at the given pivot
// and rotated by rotation quarter-turns. It returns nil if any cell falls
// outside the grid.
func CellsFromPivot(pivotRow, pivotCol, rotation, gridSize int) []Cell {
	rotation = normalizeRotation(rotation)
	cells := make([]Cell, 0, len(planeShape))
	for _, off := range planeShape {
		r, c := off.Row, off.Col
		for i := 0; i < rotation; i++ {
			r, c = -c, r
		}
		row := pivotRow + r
		col := pivotCol + c
		if row < 0 || row >= gridSize || col < 0 || col >= gridSize {
			return nil
		}
		cells = append(cells, Cell{Row: row, Col: col})
	}
	return cells
}

// CellsFromHead is CellsFromPivot anchored on the head cell instead of the
// pivot.
func CellsFromHead(headRow, headCol, rotation, gridSize int) []Cell {
	rotation = normalizeRotation(rotation)
	off := headOffsetByRotation[rotation]
	return CellsFromPivot(headRow-off.Row, headCol-off.Col, rotation, gridSize)
}

func normalizeRotation(rotation int) int {
	return ((rotation % 4) + 4) % 4
}
