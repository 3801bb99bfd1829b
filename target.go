package engine

import "math/rand"

// selectTarget scans the grid for its maximum cell and returns that cell's
// world-space center. Ties are resolved uniformly at random: symmetric
// defense placements produce tied maxima constantly, and a deterministic
// tie-break would make optimal play exploitable. Returns false when every
// cell is zero (no wear-enabled defenses contribute anywhere).
func (g *damageGrid) selectTarget(rng *rand.Rand) (WorldPoint, bool) {
	if g == nil || len(g.cells) == 0 {
		return WorldPoint{}, false
	}

	max := 0.0
	count := 0
	for _, v := range g.cells {
		switch {
		case v > max:
			max = v
			count = 1
		case v == max && max > 0:
			count++
		}
	}
	if max <= 0 || count == 0 {
		return WorldPoint{}, false
	}

	pick := 0
	if rng != nil {
		pick = rng.Intn(count)
	}
	seen := 0
	for i, v := range g.cells {
		if v != max {
			continue
		}
		if seen == pick {
			return g.cellCenter(i%g.cols, i/g.cols), true
		}
		seen++
	}
	return WorldPoint{}, false
}
