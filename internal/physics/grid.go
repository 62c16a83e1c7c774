package physics

import "math"

// SpatialGrid is a uniform grid over a bounded rectangle for broad-phase
// overlap queries. Items are inserted by position and index, then nearby
// items are found through a 3x3 cell neighborhood lookup.
//
// Cell size must be >= the largest distance at which two items can
// interact, so every candidate lies in the 3x3 neighborhood.
type SpatialGrid struct {
	originX, originY float64
	cellSize         float64
	invCellSize      float64
	cols             int
	rows             int
	cells            [][]int
}

// NewSpatialGrid creates a grid covering [originX, originX+w] ×
// [originY, originY+h].
func NewSpatialGrid(originX, originY, w, h, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(w/cellSize)) + 1
	rows := int(math.Ceil(h/cellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		originX:     originX,
		originY:     originY,
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Covers reports whether the grid was built for exactly this rectangle and
// cell size, so callers can reuse it between queries.
func (g *SpatialGrid) Covers(originX, originY, w, h, cellSize float64) bool {
	return g.originX == originX && g.originY == originY &&
		g.cellSize == cellSize &&
		g.cols == int(math.Ceil(w/cellSize))+1 &&
		g.rows == int(math.Ceil(h/cellSize))+1
}

// Clear removes all items without releasing cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// QueryAround calls fn for each item in the 3x3 neighborhood of the cell
// containing (x, y). Cells outside the grid are skipped. If fn returns
// true, iteration stops.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, item := range g.cells[rowOffset+c] {
				if fn(item) {
					return
				}
			}
		}
	}
}

func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int((x - g.originX) * g.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int((y - g.originY) * g.invCellSize)
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
