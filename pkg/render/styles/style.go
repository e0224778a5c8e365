// Package styles defines how a tile is drawn in SVG output.
package styles

import "bytes"

// Style defines the visual appearance of a rendered board.
type Style interface {
	// Name is the identifier used on the command line and in cache keys.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, clip paths, fonts).
	RenderDefs(buf *bytes.Buffer)
	// RenderTile writes the frame and drawing for one tile.
	RenderTile(buf *bytes.Buffer, t Tile)
	// RenderLabel writes the tile's caption.
	RenderLabel(buf *bytes.Buffer, t Tile)
}

// Tile contains all data needed to render a single placed drawing.
type Tile struct {
	ID         string  // stable element id, e.g. "tile-3"
	Index      int     // position in the gallery
	Label      string  // display title
	Alt        string  // accessible description
	Image      string  // resolved image href, empty for none
	URL        string  // project link, empty when disabled
	X, Y, W, H float64 // placed box
	CX, CY     float64 // box center
}

// Style names.
const (
	NameSimple    = "simple"
	NameHanddrawn = "handdrawn"
)
