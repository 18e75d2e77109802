package physics

import (
	"math"

	"github.com/Samster1523/ColorShooter2/internal/object"
)

// Bounds is an axis-aligned rectangle in world units.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// SpatialGrid is a uniform broad-phase grid over a bounded playfield.
// Positions outside the bounds are clamped into the edge cells; there is no
// wrapping.
//
// Cell size must be >= the largest interaction distance so that every
// overlap is found in the 3x3 neighbourhood of a query.
type SpatialGrid struct {
	bounds      Bounds
	invCellSize float64
	cols        int
	rows        int
	cells       [][]object.ID
}

// NewSpatialGrid creates a grid covering b with square cells.
func NewSpatialGrid(b Bounds, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil((b.MaxX - b.MinX) / cellSize))
	rows := int(math.Ceil((b.MaxY - b.MinY) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &SpatialGrid{
		bounds:      b,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]object.ID, cols*rows),
	}
}

// Clear empties every cell, keeping their backing arrays.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds id at pos.
func (g *SpatialGrid) Insert(pos object.Vec2, id object.ID) {
	col, row := g.cell(pos)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], id)
}

// QueryAround calls fn for every id in the 3x3 neighbourhood of pos.
// Returning true from fn stops the query.
func (g *SpatialGrid) QueryAround(pos object.Vec2, fn func(id object.ID) bool) {
	col, row := g.cell(pos)
	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, id := range g.cells[r*g.cols+c] {
				if fn(id) {
					return
				}
			}
		}
	}
}

func (g *SpatialGrid) cell(pos object.Vec2) (col, row int) {
	col = clampCell(int(math.Floor((pos.X-g.bounds.MinX)*g.invCellSize)), g.cols)
	row = clampCell(int(math.Floor((pos.Y-g.bounds.MinY)*g.invCellSize)), g.rows)
	return col, row
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
