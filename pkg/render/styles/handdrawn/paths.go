package handdrawn

import (
	"fmt"
	"math"
	"strings"
)

const (
	greyMin = 232
	greyMax = 248

	maxTilt   = 4.0 // degrees, for the smallest tiles
	wobbleMax = 2.5
)

// hash mixes an FNV-1a hash of s with seed (splitmix64 finalizer).
func hash(s string, seed uint64) uint64 {
	h := uint64(14695981039346656037)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	h ^= seed + 0x9e3779b97f4a7c15
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// rng is a xorshift64* generator; enough for visual jitter.
type rng struct{ state uint64 }

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 0x2545f4914f6cdd1d
	}
	return &rng{state: seed}
}

// next returns a value in [0, 1).
func (r *rng) next() float64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return float64((r.state*0x2545f4914f6cdd1d)>>11) / (1 << 53)
}

// jitter returns a value in [-amp, amp).
func (r *rng) jitter(amp float64) float64 {
	return (r.next()*2 - 1) * amp
}

func greyForID(id string) string {
	v := greyMin + int(hash(id, 0)%uint64(greyMax-greyMin+1))
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}

// rotationFor tilts a tile by a few degrees; larger tiles tilt less.
func rotationFor(id string, w, h float64) float64 {
	r := newRNG(hash(id, 7))
	size := max(w, h, 1)
	damp := min(1, 120/size)
	return r.jitter(maxTilt * damp)
}

// wobbledRect traces a rectangle with jittered corners and bowed edges.
func wobbledRect(x, y, w, h float64, seed uint64, id string) string {
	r := newRNG(hash(id, seed))
	amp := min(wobbleMax, max(0.5, math.Min(w, h)*0.04))

	corners := [4][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		corners[i][0] += r.jitter(amp)
		corners[i][1] += r.jitter(amp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M%.2f,%.2f", corners[0][0], corners[0][1])
	for i := 1; i <= 4; i++ {
		from, to := corners[i-1], corners[i%4]
		mx := (from[0]+to[0])/2 + r.jitter(amp)
		my := (from[1]+to[1])/2 + r.jitter(amp)
		fmt.Fprintf(&b, " Q%.2f,%.2f %.2f,%.2f", mx, my, to[0], to[1])
	}
	b.WriteString(" Z")
	return b.String()
}

// underline is a slightly wavy stroke from x1 to x2 at height y.
func underline(x1, x2, y float64, seed uint64, id string) string {
	r := newRNG(hash(id+"/u", seed))
	mid := (x1 + x2) / 2
	return fmt.Sprintf("M%.2f,%.2f Q%.2f,%.2f %.2f,%.2f",
		x1, y+r.jitter(1), mid, y+r.jitter(2.5), x2, y+r.jitter(1))
}
