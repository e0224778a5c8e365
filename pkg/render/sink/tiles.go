package sink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/render/styles"
	"github.com/matzehuels/scatterbox/pkg/render/styles/handdrawn"
)

// NewStyle returns the style registered under name. An empty name is the
// simple style.
func NewStyle(name string, seed uint64) (styles.Style, error) {
	switch strings.ToLower(name) {
	case "", styles.NameSimple:
		return styles.Simple{}, nil
	case styles.NameHanddrawn:
		return handdrawn.New(seed), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)", name, styles.NameSimple, styles.NameHanddrawn)
	}
}

// TileID is the element id used for tile i in SVG and HTML output.
func TileID(i int) string { return fmt.Sprintf("tile-%d", i) }

// ResolveImage joins a relative image path onto base. Absolute paths,
// URLs and data URLs are returned unchanged.
func ResolveImage(base, ref string) string {
	if ref == "" || base == "" {
		return ref
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "data:") || strings.Contains(ref, "://") {
		return ref
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(ref, "./")
}

func buildTiles(b *board.Board, imageBase string) []styles.Tile {
	tiles := make([]styles.Tile, len(b.Tiles))
	for i, t := range b.Tiles {
		url := t.Link
		if strings.TrimSpace(url) == "#" {
			url = ""
		}
		c := t.Center()
		tiles[i] = styles.Tile{
			ID:    TileID(t.Index),
			Index: t.Index,
			Label: t.Title,
			Alt:   t.Alt,
			Image: ResolveImage(imageBase, t.Image),
			URL:   strings.TrimSpace(url),
			X:     t.X, Y: t.Y, W: t.W, H: t.H,
			CX: c.X, CY: c.Y,
		}
	}
	return tiles
}
