// Package board defines the serialized form of a finished scatter layout.
//
// A [Board] records everything a renderer or a browser needs to show the
// gallery without re-running the engine: the container size (including the
// height reserved for the wall), one [Tile] per project with its placed
// box and display fields, and, for diagnostics, the sample cloud and final
// centers. Boards carry json and bson tags so the same value is served by
// the HTTP API, written to disk by the CLI, and stored by the mongo cache.
//
// Build a board from a gallery and a layout pass with [New]:
//
//	items := gallery.Items(ctx, g, gallery.FixedWidth(140))
//	res := scatter.Layout(items, 1000, scatter.ViewportHeight(900, 64, scatter.DefaultHeaderGap), nil)
//	b := board.New(g, items, res, board.Meta{})
//
// and serialize it with [Marshal], [WriteFile] and [ReadFile].
package board
