package engine

import (
	"math"
	"testing"
)

func TestGaussSamplerZeroStdDevIsExact(t *testing.T) {
	sampler := newGaussSampler(newDeterministicRNG("gauss-test", "exact"))
	mean := WorldPoint{X: 12, Y: 34}
	point := sampler.samplePoint(mean, 0)
	if point != mean {
		t.Fatalf("expected exact mean with zero std dev, got (%g,%g)", point.X, point.Y)
	}
}

func TestGaussSamplerSpareCaching(t *testing.T) {
	a := newGaussSampler(newDeterministicRNG("gauss-test", "cache"))
	b := newGaussSampler(newDeterministicRNG("gauss-test", "cache"))

	// Drawing pairwise and one at a time must walk the same sequence:
	// every transform produces two normals and the spare is consumed
	// before the RNG is touched again.
	var singles [6]float64
	for i := range singles {
		singles[i] = a.sample()
	}
	for i := 0; i < len(singles); i += 2 {
		first := b.sample()
		second := b.sample()
		if first != singles[i] || second != singles[i+1] {
			t.Fatalf("sample sequence diverged at pair %d", i/2)
		}
	}
}

func TestGaussSamplerDistribution(t *testing.T) {
	sampler := newGaussSampler(newDeterministicRNG("gauss-test", "distribution"))

	const n = 20000
	sum := 0.0
	sumSquares := 0.0
	for i := 0; i < n; i++ {
		v := sampler.sample()
		sum += v
		sumSquares += v * v
	}

	mean := sum / n
	variance := sumSquares/n - mean*mean
	if math.Abs(mean) > 0.05 {
		t.Fatalf("sample mean drifted: %g", mean)
	}
	if math.Abs(variance-1) > 0.05 {
		t.Fatalf("sample variance drifted: %g", variance)
	}
}

func TestGaussSamplerPointSpread(t *testing.T) {
	sampler := newGaussSampler(newDeterministicRNG("gauss-test", "spread"))
	mean := WorldPoint{X: 100, Y: 100}

	const n = 10000
	sumX := 0.0
	for i := 0; i < n; i++ {
		sumX += sampler.samplePoint(mean, 25).X
	}
	if math.Abs(sumX/n-mean.X) > 1 {
		t.Fatalf("impact X mean drifted: %g", sumX/n)
	}
}
