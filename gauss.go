package engine

import (
	"math"
	"math/rand"
)

// gaussSampler draws standard normals with the Box–Muller transform. Each
// transform yields two usable normals; the second is cached for the next
// call, halving the draw cost.
type gaussSampler struct {
	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

func newGaussSampler(rng *rand.Rand) *gaussSampler {
	return &gaussSampler{rng: rng}
}

func (g *gaussSampler) sample() float64 {
	if g == nil || g.rng == nil {
		return 0
	}
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}
	u1 := g.rng.Float64()
	for u1 <= epsilon {
		u1 = g.rng.Float64()
	}
	u2 := g.rng.Float64()
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	g.spare = r * math.Sin(theta)
	g.hasSpare = true
	return r * math.Cos(theta)
}

// samplePoint draws from a 2D isotropic Gaussian around mean. A zero or
// negative stdDev returns the mean exactly.
func (g *gaussSampler) samplePoint(mean WorldPoint, stdDev float64) WorldPoint {
	if stdDev <= 0 {
		return mean
	}
	return WorldPoint{
		X: mean.X + g.sample()*stdDev,
		Y: mean.Y + g.sample()*stdDev,
	}
}
