package scatter

import (
	"math/rand/v2"
)

// Options tunes a layout pass. A nil *Options uses [DefaultOptions]; in a
// non-nil value every zero field falls back to its default. RelaxIterations
// below zero disables relaxation.
type Options struct {
	// Padding is the inward margin from the container edges. Zero uses
	// DefaultPadding; a negative value disables padding.
	Padding float64

	// Attempts is Bridson's k, the candidates tried per active point.
	Attempts int

	// Density is the packing factor used to derive the sampling radius
	// from the sample target: count ≈ Density·area/(π r²).
	Density float64

	// SamplesPerItem scales the sample target with the item count.
	// The target is clamped to [MinSamples, MaxSamples].
	SamplesPerItem int
	MinSamples     int
	MaxSamples     int

	// MinSamplesPerItem is the cloud size, per item, below which sampling
	// is retried with a smaller radius.
	MinSamplesPerItem int

	// ShrinkFactor multiplies the radius on each retry.
	ShrinkFactor float64

	// ShrinkRetries bounds the number of retries.
	ShrinkRetries int

	// RelaxIterations is the number of Lloyd steps.
	RelaxIterations int

	// Rand is the random source. Nil draws a freshly seeded one.
	Rand *rand.Rand
}

var defaultOpts = Options{
	Padding:           DefaultPadding,
	Attempts:          DefaultAttempts,
	Density:           0.6,
	SamplesPerItem:    80,
	MinSamples:        300,
	MaxSamples:        1200,
	MinSamplesPerItem: 6,
	ShrinkFactor:      0.8,
	ShrinkRetries:     3,
	RelaxIterations:   DefaultRelaxIterations,
}

// DefaultOptions returns the tuning used by the portfolio gallery.
func DefaultOptions() Options {
	return defaultOpts
}

// withDefaults fills zero fields from defaultOpts.
func (o Options) withDefaults() Options {
	d := defaultOpts
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
	if o.Attempts <= 0 {
		o.Attempts = d.Attempts
	}
	if o.Density <= 0 {
		o.Density = d.Density
	}
	if o.SamplesPerItem <= 0 {
		o.SamplesPerItem = d.SamplesPerItem
	}
	if o.MinSamples <= 0 {
		o.MinSamples = d.MinSamples
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = d.MaxSamples
	}
	if o.MaxSamples < o.MinSamples {
		o.MaxSamples = o.MinSamples
	}
	if o.MinSamplesPerItem <= 0 {
		o.MinSamplesPerItem = d.MinSamplesPerItem
	}
	if o.ShrinkFactor <= 0 || o.ShrinkFactor >= 1 {
		o.ShrinkFactor = d.ShrinkFactor
	}
	if o.ShrinkRetries == 0 {
		o.ShrinkRetries = d.ShrinkRetries
	}
	if o.RelaxIterations == 0 {
		o.RelaxIterations = d.RelaxIterations
	}
	if o.Rand == nil {
		o.Rand = NewRand(0)
	}
	return o
}

// sampleTarget returns the desired cloud size for n items.
func (o Options) sampleTarget(n int) int {
	return min(o.MaxSamples, max(o.MinSamples, n*o.SamplesPerItem))
}

// NewRand returns a PCG-backed source. A zero seed draws a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Result describes a finished layout pass. Samples and Centers are kept for
// diagnostics; positions live on the items themselves.
type Result struct {
	Domain  Domain
	Bounds  Bounds
	Radius  float64
	Samples []Point
	Centers []Point
}

// Empty reports whether the pass had nothing to place.
func (r Result) Empty() bool { return len(r.Centers) == 0 }

// Sizes collects the measured sizes of items.
func Sizes(items []Item) []Size {
	sizes := make([]Size, len(items))
	for i, it := range items {
		sizes[i] = it.Size
	}
	return sizes
}

// Layout runs the full pipeline (domain, Sampler, Seeder, Relaxer, Placer)
// and writes a position onto every item. An empty item list returns a zero
// Result and writes nothing.
func Layout(items []Item, width, height float64, opts *Options) Result {
	if len(items) == 0 {
		return Result{}
	}
	o := defaultOpts
	if opts != nil {
		o = *opts
	}
	o = o.withDefaults()

	n := len(items)
	d := NewDomain(width, height, o.Padding, Sizes(items))
	b := d.Bounds()
	w, h := b.Width(), b.Height()

	r := RadiusForCount(w*h, o.sampleTarget(n), o.Density)
	samples, r := SampleAtLeast(o.Rand, w, h, r, o.Attempts, n*o.MinSamplesPerItem, o.ShrinkFactor, o.ShrinkRetries)
	for i := range samples {
		samples[i].X += b.MinX
		samples[i].Y += b.MinY
	}

	centers := Seed(o.Rand, samples, n, b)
	Relax(centers, samples, b, o.RelaxIterations)
	Place(items, centers, d)

	return Result{
		Domain:  d,
		Bounds:  b,
		Radius:  r,
		Samples: samples,
		Centers: centers,
	}
}
