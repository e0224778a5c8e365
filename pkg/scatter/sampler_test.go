package scatter

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestSampleMinDistance(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		r    float64
		k    int
	}{
		{"square", 400, 400, 25, 30},
		{"wide", 1200, 300, 30, 30},
		{"tall", 200, 900, 18, 30},
		{"few attempts", 500, 500, 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := Sample(NewRand(7), tt.w, tt.h, tt.r, tt.k)
			if len(samples) < 2 {
				t.Fatalf("Sample() returned %d points, want a dense cloud", len(samples))
			}
			for i := range samples {
				p := samples[i]
				if p.X < 0 || p.X >= tt.w || p.Y < 0 || p.Y >= tt.h {
					t.Fatalf("sample %d = %+v outside [0,%v)x[0,%v)", i, p, tt.w, tt.h)
				}
				for j := i + 1; j < len(samples); j++ {
					if d := p.Dist(samples[j]); d < tt.r-eps {
						t.Fatalf("samples %d and %d are %.4f apart, want >= %v", i, j, d, tt.r)
					}
				}
			}
		})
	}
}

func TestSampleTerminatesWithSinglePointTarget(t *testing.T) {
	// 1000x800 with r=40 and k=30 must terminate with at least the seed.
	samples := Sample(NewRand(1), 1000, 800, 40, 30)
	if len(samples) < 1 {
		t.Fatal("Sample() returned no points")
	}
}

func TestSampleIsRoughlyUniform(t *testing.T) {
	samples := Sample(NewRand(3), 600, 600, 20, 30)

	// Count points per quadrant; blue noise keeps them within a loose band.
	var quad [4]int
	for _, p := range samples {
		i := 0
		if p.X >= 300 {
			i++
		}
		if p.Y >= 300 {
			i += 2
		}
		quad[i]++
	}
	mean := float64(len(samples)) / 4
	for i, n := range quad {
		if math.Abs(float64(n)-mean) > mean*0.35 {
			t.Errorf("quadrant %d has %d points, mean %.1f", i, n, mean)
		}
	}
}

func TestSampleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		r    float64
	}{
		{"zero radius", 100, 100, 0},
		{"negative radius", 100, 100, -5},
		{"nan radius", 100, 100, math.NaN()},
		{"zero width", 0, 100, 10},
		{"negative height", 100, -3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(NewRand(9), tt.w, tt.h, tt.r, 30)
			if len(got) != 1 {
				t.Errorf("Sample() returned %d points, want the seed only", len(got))
			}
		})
	}
}

func TestSampleAtLeastShrinksRadius(t *testing.T) {
	samples, r := SampleAtLeast(NewRand(5), 100, 100, 50, 30, 1000, 0.8, 3)
	want := 50 * 0.8 * 0.8 * 0.8
	if math.Abs(r-want) > eps {
		t.Errorf("radius = %v, want %v after three retries", r, want)
	}
	for i := range samples {
		for j := i + 1; j < len(samples); j++ {
			if d := samples[i].Dist(samples[j]); d < r-eps {
				t.Fatalf("samples %d and %d are %.4f apart, want >= %v", i, j, d, r)
			}
		}
	}
}

func TestSampleAtLeastStopsWhenSatisfied(t *testing.T) {
	_, r := SampleAtLeast(NewRand(5), 800, 800, 20, 30, 1, 0.8, 3)
	if r != 20 {
		t.Errorf("radius = %v, want unchanged 20", r)
	}
}

func TestSampleAtLeastInvalidShrink(t *testing.T) {
	_, r := SampleAtLeast(NewRand(5), 100, 100, 50, 30, 1000, 1.5, 3)
	if r != 50 {
		t.Errorf("radius = %v, want unchanged 50 for shrink outside (0,1)", r)
	}
}

func TestRadiusForCount(t *testing.T) {
	tests := []struct {
		name    string
		area    float64
		count   int
		density float64
		want    float64
	}{
		{"unit", math.Pi, 1, 1, 1},
		{"density", 1000 * 800, 300, 0.6, math.Sqrt(0.6 * 800000 / (math.Pi * 300))},
		{"zero count clamps to one", math.Pi * 4, 0, 1, 2},
		{"negative area", -10, 5, 0.6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RadiusForCount(tt.area, tt.count, tt.density); math.Abs(got-tt.want) > eps {
				t.Errorf("RadiusForCount() = %v, want %v", got, tt.want)
			}
		})
	}
}
