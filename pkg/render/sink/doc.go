// Package sink provides output format renderers for boards.
//
// # Overview
//
// A "sink" transforms a laid-out [board.Board] into a final output format:
//
//   - SVG: the wall as vector art, one group per tile
//   - HTML: a static page with the wall markup the site script expects
//   - PNG: a raster drawn natively with golang.org/x/image
//   - PDF: print output via SVG conversion (requires rsvg-convert)
//   - JSON: the board document itself
//
// # SVG Output
//
//	svg := sink.RenderSVG(b,
//	    sink.WithStyle(handdrawn.New(seed)),
//	    sink.WithImageBase("https://example.com/assets/"),
//	    sink.WithLabels(),
//	)
//
// [WithSamples] and [WithBounds] overlay the sample cloud, the final
// centers and the center bounds for debugging; they need a board built
// with diagnostics.
//
// # HTML Output
//
// [RenderHTML] emits a `.doodles.scatter` container whose height is the
// reserved wall height, one absolutely positioned `.doodle` button per
// tile carrying the project fields as data attributes, and the `is-ready`
// class once the board is fully placed.
//
// [board.Board]: github.com/matzehuels/scatterbox/pkg/board.Board
package sink
