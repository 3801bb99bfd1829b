package engine

import (
	"math"
	"sort"
)

// damageGrid is the spatial destruction index: a fixed W×H accumulator over
// the playfield recording, per cell, the total earning rate a strike landing
// there would wipe out. It is fully zeroed and re-accumulated on every
// rebuild, never mutated incrementally, so the result depends only on the
// defense snapshot it was built from.
type damageGrid struct {
	cols       int
	rows       int
	cellWidth  float64
	cellHeight float64
	cells      []float64
	stamp      *stampTable
}

func newDamageGrid(res Resolution, mapWidth, mapHeight float64, stamp *stampTable) *damageGrid {
	cols := res.Width
	rows := res.Height
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &damageGrid{
		cols:       cols,
		rows:       rows,
		cellWidth:  mapWidth / float64(cols),
		cellHeight: mapHeight / float64(rows),
		cells:      make([]float64, cols*rows),
		stamp:      stamp,
	}
}

// cellForPoint converts a world position to a grid cell, clamped to bounds.
func (g *damageGrid) cellForPoint(x, y float64) (col, row int) {
	if g == nil {
		return 0, 0
	}
	if g.cellWidth > epsilon {
		col = int(math.Floor(x / g.cellWidth))
	}
	if g.cellHeight > epsilon {
		row = int(math.Floor(y / g.cellHeight))
	}
	return clampInt(col, 0, g.cols-1), clampInt(row, 0, g.rows-1)
}

// cellCenter returns the world-space center of a cell.
func (g *damageGrid) cellCenter(col, row int) WorldPoint {
	return WorldPoint{
		X: (float64(col) + 0.5) * g.cellWidth,
		Y: (float64(row) + 0.5) * g.cellHeight,
	}
}

// destructionRadius is the distance within which a strike of the given
// strength can theoretically reduce the defense's health to zero.
func destructionRadius(strengthA, health float64) float64 {
	if strengthA <= 0 || health <= epsilon {
		return 0
	}
	return math.Sqrt(strengthA / health)
}

// Rebuild recomputes the grid from a live defense snapshot. Defenses are
// sorted by type so the earning-rate side query runs once per type run
// instead of once per unit. Only wear-enabled defenses with a positive
// earning rate contribute.
func (g *damageGrid) Rebuild(defenses []Defense, combat CombatSource, strengthA float64) {
	if g == nil {
		return
	}
	for i := range g.cells {
		g.cells[i] = 0
	}
	if combat == nil || strengthA <= 0 || len(defenses) == 0 {
		return
	}

	snapshot := make([]Defense, 0, len(defenses))
	for _, d := range defenses {
		if d == nil || !d.WearEnabled() {
			continue
		}
		snapshot = append(snapshot, d)
	}
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].TypeID() < snapshot[j].TypeID()
	})

	minCell := g.cellWidth
	if g.cellHeight < minCell {
		minCell = g.cellHeight
	}
	if minCell <= epsilon {
		return
	}

	runType := ""
	runRate := 0.0
	for _, d := range snapshot {
		if typeID := d.TypeID(); runType == "" || typeID != runType {
			runType = typeID
			runRate = combat.EarningRate(typeID)
		}
		if runRate <= 0 {
			continue
		}
		radius := destructionRadius(strengthA, d.Health())
		if radius <= 0 {
			continue
		}
		x, y := d.Position()
		col, row := g.cellForPoint(x, y)
		span := int(math.Ceil(radius / minCell))
		g.accumulate(col, row, span, radius, runRate)
	}
}

// accumulate adds rate to every cell whose stamp distance from (col, row)
// falls within radius, bounds-checked against both grid and stamp extents.
func (g *damageGrid) accumulate(col, row, span int, radius, rate float64) {
	for dr := -span; dr <= span; dr++ {
		targetRow := row + dr
		if targetRow < 0 || targetRow >= g.rows {
			continue
		}
		for dc := -span; dc <= span; dc++ {
			targetCol := col + dc
			if targetCol < 0 || targetCol >= g.cols {
				continue
			}
			dist, ok := g.stamp.distanceAt(dc, dr)
			if !ok || dist > radius {
				continue
			}
			g.cells[targetRow*g.cols+targetCol] += rate
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
