package engine

// calibrateBombStrength derives the global damage-strength constant A from
// design parameters and the currently weakest wear-enabled defense type:
//
//	A = (radiusFraction × mapWidth)² × minNonZeroWearDecrement
//
// The decrement is the smallest per-hit health loss among wear-enabled
// types, so a strike landing within the configured radius can finish off a
// defense already worn down to its last hit. Returns ErrNoWearableDefense
// (with A = 0) when no type qualifies; a zero-strength strike destroys
// nothing and dispatch becomes economically inert rather than a crash.
func calibrateBombStrength(defs []DefenseDefinition, radiusFraction, mapWidth float64) (float64, error) {
	minDecrement := 0.0
	for _, def := range defs {
		if !def.WearEnabled || def.WearDecrement <= 0 {
			continue
		}
		if minDecrement == 0 || def.WearDecrement < minDecrement {
			minDecrement = def.WearDecrement
		}
	}
	if minDecrement <= 0 {
		return 0, ErrNoWearableDefense
	}
	radius := radiusFraction * mapWidth
	return radius * radius * minDecrement, nil
}
