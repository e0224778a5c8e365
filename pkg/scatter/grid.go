package scatter

import "math"

// emptyCell marks a grid slot that holds no sample.
const emptyCell = -1

// Grid is the Sampler's acceleration structure: a flat, fixed-size array of
// cells of side r/√2 stored row-major (cells[gy*cols+gx]). A cell's diagonal
// equals r, so no two accepted samples can share one and each slot holds at
// most one sample index.
type Grid struct {
	cell       float64
	cols, rows int
	cells      []int32
}

// NewGrid allocates a grid covering [0,w]×[0,h] for separation radius r.
// The grid is at least 1×1.
func NewGrid(w, h, r float64) *Grid {
	cell := r / math.Sqrt2
	cols := max(1, int(math.Ceil(w/cell)))
	rows := max(1, int(math.Ceil(h/cell)))

	cells := make([]int32, cols*rows)
	for i := range cells {
		cells[i] = emptyCell
	}
	return &Grid{cell: cell, cols: cols, rows: rows, cells: cells}
}

// CellSize returns the side length of one cell.
func (g *Grid) CellSize() float64 { return g.cell }

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (cols, rows int) { return g.cols, g.rows }

// cellOf returns the integer cell coordinates of p, clamped to the grid.
func (g *Grid) cellOf(p Point) (int, int) {
	gx := min(max(int(p.X/g.cell), 0), g.cols-1)
	gy := min(max(int(p.Y/g.cell), 0), g.rows-1)
	return gx, gy
}

// Insert records sample index idx in the cell containing p.
func (g *Grid) Insert(p Point, idx int) {
	gx, gy := g.cellOf(p)
	g.cells[gy*g.cols+gx] = int32(idx)
}

// At returns the sample index stored at cell (gx, gy), or -1.
func (g *Grid) At(gx, gy int) int {
	if gx < 0 || gy < 0 || gx >= g.cols || gy >= g.rows {
		return emptyCell
	}
	return int(g.cells[gy*g.cols+gx])
}

// Fits reports whether no sample lies closer than r to p. Only the 5×5 block
// of cells around p is searched; samples further away than two cells are at
// least r apart by construction.
func (g *Grid) Fits(p Point, samples []Point, r float64) bool {
	gx, gy := g.cellOf(p)
	x0, x1 := max(0, gx-2), min(g.cols-1, gx+2)
	y0, y1 := max(0, gy-2), min(g.rows-1, gy+2)
	rSq := r * r

	for j := y0; j <= y1; j++ {
		row := j * g.cols
		for i := x0; i <= x1; i++ {
			idx := g.cells[row+i]
			if idx == emptyCell {
				continue
			}
			if p.distSq(samples[idx]) < rSq {
				return false
			}
		}
	}
	return true
}
