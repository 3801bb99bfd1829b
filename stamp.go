package engine

import "math"

// stampTable is a precomputed Euclidean distance field centered on its middle
// cell, expressed in world units through the grid's cell size. It is computed
// once after grid geometry is known and never mutated: every target
// evaluation reuses it by translating offsets instead of recomputing
// geometry.
type stampTable struct {
	cols      int
	rows      int
	centerCol int
	centerRow int
	dist      []float64
}

func newStampTable(cols, rows int, cellWidth, cellHeight float64) *stampTable {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &stampTable{
		cols:      cols,
		rows:      rows,
		centerCol: cols / 2,
		centerRow: rows / 2,
		dist:      make([]float64, cols*rows),
	}
	for row := 0; row < rows; row++ {
		dy := float64(row-s.centerRow) * cellHeight
		for col := 0; col < cols; col++ {
			dx := float64(col-s.centerCol) * cellWidth
			s.dist[row*cols+col] = math.Hypot(dx, dy)
		}
	}
	return s
}

// distanceAt returns the world-space distance for the cell at offset
// (dc, dr) from the stamp center. The second return is false when the offset
// falls outside the stamp extents.
func (s *stampTable) distanceAt(dc, dr int) (float64, bool) {
	if s == nil {
		return 0, false
	}
	col := s.centerCol + dc
	row := s.centerRow + dr
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return 0, false
	}
	return s.dist[row*s.cols+col], true
}
