// Package scatter places fixed-size items into a bounded 2D region so they
// look hand-strewn yet evenly spread, without piling on top of each other.
//
// # Overview
//
// A layout pass runs four phases in sequence:
//
//  1. Sampler ([Sample], [SampleAtLeast]): Bridson's Poisson-disc algorithm
//     fills the domain with a dense blue-noise point cloud whose points are
//     at least r apart.
//  2. Seeder ([Seed]): greedy farthest-point selection picks one center per
//     item from the cloud, each new center maximizing its distance to the
//     centers already chosen.
//  3. Relaxer ([Relax]): a few bounded Lloyd iterations pull every center
//     toward the centroid of the samples nearest to it, evening out area.
//  4. Placer ([Place]): each item is centered on its center and clamped into
//     the padded domain; the top-left corner is written to [Item].Pos.
//
// [Layout] runs the whole pipeline:
//
//	items := []scatter.Item{
//	    {Size: scatter.MeasureSize(120)},
//	    {Size: scatter.MeasureSize(140)},
//	}
//	h := scatter.ViewportHeight(900, 72, scatter.DefaultHeaderGap)
//	res := scatter.Layout(items, 1280, h, nil)
//	for _, it := range items {
//	    fmt.Println(it.Pos.Left, it.Pos.Top)
//	}
//	_ = res.Radius
//
// # Totality
//
// Every function in this package is total. Empty item lists return at once,
// zero-area or inverted domains are floored to [MinExtent], too-sparse
// sample clouds are resampled with a shrinking radius, and an empty cloud
// falls back to a diagonal arrangement. No phase reports an error and every
// item always receives a position inside the domain.
//
// # Randomness
//
// Layouts are random on purpose. Pass [Options].Rand built with [NewRand]
// and a fixed seed to make a run repeatable (tests, caching); leave it nil
// for a fresh arrangement every pass.
package scatter
