package scatter

import "math"

// DefaultRelaxIterations is the number of Lloyd steps a layout runs.
const DefaultRelaxIterations = 2

// Relax runs a fixed number of Lloyd iterations over centers in place.
//
// Each iteration assigns every sample to its nearest center by squared
// distance (ties go to the lower center index), moves each center to the
// centroid of its assigned samples, and clamps the result into b. A center
// that received no samples keeps its position. Iterations are capped rather
// than run to convergence.
func Relax(centers, samples []Point, b Bounds, iterations int) {
	if len(centers) == 0 || len(samples) == 0 {
		return
	}

	type acc struct {
		x, y float64
		n    int
	}
	sums := make([]acc, len(centers))

	for range max(iterations, 0) {
		clear(sums)
		for _, p := range samples {
			k, dmin := 0, math.Inf(1)
			for i, c := range centers {
				if d := p.distSq(c); d < dmin {
					k, dmin = i, d
				}
			}
			sums[k].x += p.X
			sums[k].y += p.Y
			sums[k].n++
		}
		for i, s := range sums {
			if s.n == 0 {
				continue
			}
			n := float64(s.n)
			centers[i] = b.Clamp(Point{X: s.x / n, Y: s.y / n})
		}
	}
}
