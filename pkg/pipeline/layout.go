package pipeline

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/scatter"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateBoard measures every project in g and scatters the tiles.
//
// A zero opts.Seed draws a fresh seed, which is recorded on the board so the
// wall can be reproduced later. An empty gallery yields an empty, ready board.
func GenerateBoard(ctx context.Context, g *gallery.Gallery, opts Options) (*board.Board, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGallery, "no gallery")
	}
	if n := g.Len(); n > 0 {
		if err := errors.ValidateItemCount(n); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	items := gallery.Items(ctx, g, opts.Measurer())
	res := scatter.Layout(items, opts.Width, opts.Height, opts.ScatterOptions(seed))

	return board.New(g, items, res, board.Meta{
		Seed:        seed,
		Width:       opts.Width,
		Height:      opts.Height,
		Diagnostics: opts.Diagnostics,
		Now:         opts.Now,
	}), nil
}

// Relayout scatters the tiles of an existing board again into a new
// container, keeping tile sizes and project data. It backs resize handling:
// the board ID changes and the seed advances so repeated resizes differ.
func Relayout(b *board.Board, opts Options) *board.Board {
	items := b.Items()
	for i := range items {
		items[i].Placed = false
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	res := scatter.Layout(items, opts.Width, opts.Height, opts.ScatterOptions(seed))

	nb := board.New(nil, items, res, board.Meta{
		Seed:        seed,
		Width:       opts.Width,
		Height:      opts.Height,
		Diagnostics: opts.Diagnostics,
		Now:         opts.Now,
	})
	nb.Source = b.Source
	nb.GalleryHash = b.GalleryHash
	for i := range nb.Tiles {
		t := b.Tiles[i]
		t.X, t.Y = nb.Tiles[i].X, nb.Tiles[i].Y
		nb.Tiles[i] = t
	}
	return nb
}
