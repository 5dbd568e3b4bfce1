package game

import (
	"errors"
	"math/rand"
	"sort"
)

// maxPlacementAttempts bounds random plane placement. For the shipped
// grid/plane pairs running out of attempts is practically impossible, but if
// it happens the board simply holds fewer planes.
const maxPlacementAttempts = 300

// Plane is one hidden target on a board.
type Plane struct {
	ID    int    `json:"id"`
	Cells []Cell `json:"cells"`
	Head  Cell   `json:"head"`
}

// Board holds one player's grid, plane layout and shot history. Hits is
// always a subset of ShotCells.
type Board struct {
	GridSize  int
	NumPlanes int
	Planes    []Plane
	Hits      map[Cell]bool
	ShotCells map[Cell]bool
}

// NewBoard builds a board for the given difficulty. A custom layout that
// passes validation is used as submitted; anything else silently falls back
// to random placement.
func NewBoard(diff Difficulty, customPlanes []Plane) *Board {
	b := &Board{
		GridSize:  diff.GridSize,
		NumPlanes: diff.NumPlanes,
		Hits:      make(map[Cell]bool),
		ShotCells: make(map[Cell]bool),
	}
	if validatePlanes(customPlanes, diff.GridSize, diff.NumPlanes) {
		for i, p := range customPlanes {
			cells := make([]Cell, len(p.Cells))
			copy(cells, p.Cells)
			b.Planes = append(b.Planes, Plane{ID: i + 1, Cells: cells, Head: p.Head})
		}
		return b
	}
	b.Planes = placePlanes(diff.GridSize, diff.NumPlanes)
	return b
}

func placePlanes(gridSize, numPlanes int) []Plane {
	occupied := make(map[Cell]bool)
	planes := make([]Plane, 0, numPlanes)
	for attempts := 0; len(planes) < numPlanes && attempts < maxPlacementAttempts; attempts++ {
		rotation := rand.Intn(4)
		pivotRow := rand.Intn(gridSize)
		pivotCol := rand.Intn(gridSize)
		cells := CellsFromPivot(pivotRow, pivotCol, rotation, gridSize)
		if cells == nil {
			continue
		}
		collides := false
		for _, c := range cells {
			if occupied[c] {
				collides = true
				break
			}
		}
		if collides {
			continue
		}
		for _, c := range cells {
			occupied[c] = true
		}
		planes = append(planes, Plane{ID: len(planes) + 1, Cells: cells, Head: cells[headIndex]})
	}
	return planes
}

func validatePlanes(planes []Plane, gridSize, numPlanes int) bool {
	if len(planes) != numPlanes {
		return false
	}
	occupied := make(map[Cell]bool)
	for _, p := range planes {
		if len(p.Cells) == 0 {
			return false
		}
		if p.Head.Row < 0 || p.Head.Row >= gridSize || p.Head.Col < 0 || p.Head.Col >= gridSize {
			return false
		}
		for _, c := range p.Cells {
			if c.Row < 0 || c.Row >= gridSize || c.Col < 0 || c.Col >= gridSize {
				return false
			}
			if occupied[c] {
				return false
			}
			occupied[c] = true
		}
	}
	return true
}

// ShotOutcome classifies one resolved shot.
type ShotOutcome string

const (
	OutcomeHit  ShotOutcome = "hit"
	OutcomeMiss ShotOutcome = "miss"
	OutcomeSunk ShotOutcome = "sunk"
)

var (
	ErrAlreadyShot = errors.New("already_shot")
	ErrOutOfBounds = errors.New("out_of_bounds")
)

// ShotResult is the outcome of one resolved shot. Hits and Misses are full
// snapshots of the board's current state, not deltas.
type ShotResult struct {
	Result       ShotOutcome
	Cell         Cell
	SunkPlaneID  int // 0 unless this shot finished a plane
	SunkPlaneIDs []int
	GameOver     bool
	Hits         []Cell
	Misses       []Cell
}

// Shoot resolves a shot at (row, col). Hitting a plane's head marks the
// whole plane hit in one step. Rejected shots leave the board untouched.
func (b *Board) Shoot(row, col int) (ShotResult, error) {
	target := Cell{Row: row, Col: col}
	if b.ShotCells[target] {
		return ShotResult{}, ErrAlreadyShot
	}
	if row < 0 || row >= b.GridSize || col < 0 || col >= b.GridSize {
		return ShotResult{}, ErrOutOfBounds
	}
	b.ShotCells[target] = true

	sunkPlaneID := 0
	if p := b.planeWithHead(target); p != nil {
		for _, c := range p.Cells {
			b.Hits[c] = true
		}
		sunkPlaneID = p.ID
	} else {
		for i := range b.Planes {
			p := &b.Planes[i]
			if !containsCell(p.Cells, target) {
				continue
			}
			b.Hits[target] = true
			if b.planeSunk(p) {
				sunkPlaneID = p.ID
			}
			break
		}
	}

	result := OutcomeMiss
	if b.Hits[target] {
		if sunkPlaneID != 0 {
			result = OutcomeSunk
		} else {
			result = OutcomeHit
		}
	}

	return ShotResult{
		Result:       result,
		Cell:         target,
		SunkPlaneID:  sunkPlaneID,
		SunkPlaneIDs: b.SunkPlaneIDs(),
		GameOver:     b.Defeated(),
		Hits:         b.HitCells(),
		Misses:       b.MissCells(),
	}, nil
}

func (b *Board) planeWithHead(target Cell) *Plane {
	for i := range b.Planes {
		if b.Planes[i].Head == target {
			return &b.Planes[i]
		}
	}
	return nil
}

func (b *Board) planeSunk(p *Plane) bool {
	for _, c := range p.Cells {
		if !b.Hits[c] {
			return false
		}
	}
	return true
}

// Defeated reports whether every plane on the board is sunk.
func (b *Board) Defeated() bool {
	for i := range b.Planes {
		if !b.planeSunk(&b.Planes[i]) {
			return false
		}
	}
	return true
}

// SunkPlaneIDs lists the ids of all currently sunk planes, ascending.
func (b *Board) SunkPlaneIDs() []int {
	ids := []int{}
	for i := range b.Planes {
		if b.planeSunk(&b.Planes[i]) {
			ids = append(ids, b.Planes[i].ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// HitCells returns every hit cell, in row-major order.
func (b *Board) HitCells() []Cell {
	return sortedCells(b.Hits, nil)
}

// MissCells returns every shot cell that is not a hit, in row-major order.
func (b *Board) MissCells() []Cell {
	return sortedCells(b.ShotCells, b.Hits)
}

// PlaneCells lists the cells of every plane, for revealing a board on
// forfeit.
func (b *Board) PlaneCells() []Cell {
	cells := []Cell{}
	for _, p := range b.Planes {
		cells = append(cells, p.Cells...)
	}
	return cells
}

// FullyShot reports whether every cell on the grid has been shot.
func (b *Board) FullyShot() bool {
	return len(b.ShotCells) >= b.GridSize*b.GridSize
}

func sortedCells(set, exclude map[Cell]bool) []Cell {
	cells := []Cell{}
	for c := range set {
		if exclude != nil && exclude[c] {
			continue
		}
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

func containsCell(cells []Cell, target Cell) bool {
	for _, c := range cells {
		if c == target {
			return true
		}
	}
	return false
}
