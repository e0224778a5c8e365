package scatter

import (
	"math"
	"math/rand/v2"
)

// Seed picks n well-spread centers from samples by greedy farthest-point
// selection. The first center is a uniformly random sample; each following
// center is the unchosen sample whose squared distance to its nearest chosen
// center is largest (ties go to the earliest sample). Selection stops at n
// centers or when every sample has been chosen, so the result holds
// min(n, len(samples)) points.
//
// With no samples at all, Seed falls back to n centers spaced evenly along
// the diagonal of b. A non-positive n yields nil.
//
// The running nearest-distance table keeps the cost at O(n·len(samples)).
func Seed(rng *rand.Rand, samples []Point, n int, b Bounds) []Point {
	if n <= 0 {
		return nil
	}
	if len(samples) == 0 {
		return diagonal(n, b)
	}

	centers := make([]Point, 0, min(n, len(samples)))
	nearest := make([]float64, len(samples))
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}

	pick := func(idx int) {
		c := samples[idx]
		centers = append(centers, c)
		nearest[idx] = -1 // chosen
		for i, p := range samples {
			if nearest[i] < 0 {
				continue
			}
			if d := p.distSq(c); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	pick(rng.IntN(len(samples)))

	for len(centers) < n {
		best, bestDist := -1, -1.0
		for i, d := range nearest {
			if d > bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			break
		}
		pick(best)
	}
	return centers
}

// diagonal spreads n centers evenly along the main diagonal of b.
func diagonal(n int, b Bounds) []Point {
	w, h := b.Width(), b.Height()
	centers := make([]Point, n)
	for i := range centers {
		t := (float64(i) + 0.5) / float64(n)
		centers[i] = Point{X: b.MinX + t*w, Y: b.MinY + t*h}
	}
	return centers
}
