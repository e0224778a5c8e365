// Package render turns laid-out boards into images and documents.
//
// # Overview
//
// Rendering is split the same way for every output:
//
//   - [styles]: how a single tile looks (plain frames or hand-drawn ones)
//   - [sink]: output formats for a [board.Board] (SVG, HTML, PNG, PDF, JSON)
//   - [diagram]: a Graphviz debug view of the sample cloud and centers
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The PDF sink relies on it;
// the PNG sink draws natively and does not.
//
//	svg := sink.RenderSVG(b, sink.WithStyle(handdrawn.New(seed)))
//	pdf, err := render.ToPDF(svg)
//
// Use [ParseFormat] to validate a user-supplied format name.
//
// [board.Board]: github.com/matzehuels/scatterbox/pkg/board.Board
package render
