package scatter

import (
	"math"
	"math/rand/v2"
)

// DefaultAttempts is Bridson's k: candidates tried around an active point
// before it is retired.
const DefaultAttempts = 30

// Sample generates a Poisson-disc point set in [0,w)×[0,h) using Bridson's
// algorithm. Every pair of returned points is at least r apart.
//
// The active list starts with one uniformly random point. Each step picks a
// random active point and tries up to k candidates at a random angle and a
// radius in [r, 2r). The first candidate that is in bounds and has no
// neighbor within r is accepted and becomes active; if all k fail, the
// point is retired (it stays in the output). The loop ends when no active
// points remain, which always happens because every acceptance consumes
// free area of a finite domain.
//
// Degenerate arguments never fail: a non-positive or NaN r, or a
// non-positive extent, yields the single seed point.
func Sample(rng *rand.Rand, w, h, r float64, k int) []Point {
	w, h = max(w, 0), max(h, 0)
	seed := Point{X: rng.Float64() * w, Y: rng.Float64() * h}
	if !(r > 0) || w == 0 || h == 0 || math.IsInf(r, 0) {
		return []Point{seed}
	}
	k = max(k, 1)

	grid := NewGrid(w, h, r)
	samples := make([]Point, 0, estimateCount(w, h, r))
	active := make([]int, 0, 64)

	add := func(p Point) {
		samples = append(samples, p)
		idx := len(samples) - 1
		active = append(active, idx)
		grid.Insert(p, idx)
	}
	add(seed)

	for len(active) > 0 {
		slot := rng.IntN(len(active))
		s := samples[active[slot]]

		found := false
		for range k {
			ang := rng.Float64() * 2 * math.Pi
			rad := r * (1 + rng.Float64())
			p := Point{X: s.X + math.Cos(ang)*rad, Y: s.Y + math.Sin(ang)*rad}
			if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h && grid.Fits(p, samples, r) {
				add(p)
				found = true
				break
			}
		}
		if !found {
			last := len(active) - 1
			active[slot] = active[last]
			active = active[:last]
		}
	}
	return samples
}

// SampleAtLeast runs [Sample] and, while fewer than want points come back,
// multiplies r by shrink and samples again, at most retries more times.
// It returns the last point set together with the radius that produced it.
// A shrink outside (0,1) disables retrying.
func SampleAtLeast(rng *rand.Rand, w, h, r float64, k, want int, shrink float64, retries int) ([]Point, float64) {
	samples := Sample(rng, w, h, r, k)
	if !(shrink > 0 && shrink < 1) {
		return samples, r
	}
	for try := 0; len(samples) < want && try < retries; try++ {
		r *= shrink
		samples = Sample(rng, w, h, r, k)
	}
	return samples, r
}

// RadiusForCount estimates the separation radius that yields roughly count
// Poisson-disc points over the given area: count ≈ density·area/(π r²).
func RadiusForCount(area float64, count int, density float64) float64 {
	return math.Sqrt((density * max(area, 0)) / (math.Pi * float64(max(1, count))))
}

// estimateCount bounds the initial allocation for a sample slice.
func estimateCount(w, h, r float64) int {
	n := int(w * h / (r * r))
	return min(max(n, 16), 1<<14)
}
