// Package engine implements the adaptive area-damage targeting and economic
// balancing subsystem for the tower-defense game. It owns the destruction
// heatmap over the playfield, bomb-strength calibration, the strike lifecycle,
// and the wave-economy debt model that decides when strikes fire. Rendering,
// combat resolution, and wave scheduling live in the owning game and are
// consumed through the interfaces in ports.go.
package engine
