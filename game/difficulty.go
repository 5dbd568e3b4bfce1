package game

// Difficulty describes one of the shipped grid configurations.
type Difficulty struct {
	GridSize  int
	NumPlanes int
}

var difficulties = map[string]Difficulty{
	"easy":   {GridSize: 8, NumPlanes: 2},
	"medium": {GridSize: 10, NumPlanes: 3},
	"hard":   {GridSize: 12, NumPlanes: 5},
}

// DifficultyByName returns the configuration for name, falling back to
// medium for unknown names.
func DifficultyByName(name string) Difficulty {
	if d, ok := difficulties[name]; ok {
		return d
	}
	return difficulties["medium"]
}

// DifficultyNameForGridSize maps a grid size back to the difficulty it
// belongs to, so a joiner's board can be built against the host's grid.
func DifficultyNameForGridSize(gridSize int) string {
	switch {
	case gridSize <= 8:
		return "easy"
	case gridSize <= 10:
		return "medium"
	default:
		return "hard"
	}
}
