package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/render"
	"github.com/matzehuels/scatterbox/pkg/render/diagram"
	"github.com/matzehuels/scatterbox/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats must
// already be validated.
func Render(ctx context.Context, b *board.Board, opts Options) (map[string][]byte, error) {
	style, err := sink.NewStyle(opts.Style, b.Seed)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(opts)
	svgOpts = append(svgOpts, sink.WithStyle(style))

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		switch render.Format(format) {
		case render.FormatSVG:
			data = sink.RenderSVG(b, svgOpts...)
		case render.FormatHTML:
			data, err = sink.RenderHTML(b, buildHTMLOptions(opts)...)
		case render.FormatPNG:
			data, err = sink.RenderPNG(b, buildPNGOptions(b, opts)...)
		case render.FormatPDF:
			data, err = sink.RenderPDF(b, sink.WithPDFSVGOptions(svgOpts...))
		case render.FormatJSON:
			data, err = sink.RenderJSON(b)
		case render.FormatDiagram:
			data, err = diagram.RenderSVG(ctx, diagram.ToDOT(b, diagram.Options{
				Samples: opts.ShowDebug,
				Centers: opts.ShowDebug,
				Labels:  opts.Labels,
			}))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.ImageBase != "" {
		out = append(out, sink.WithImageBase(opts.ImageBase))
	}
	if opts.Labels {
		out = append(out, sink.WithLabels())
	}
	if opts.ShowDebug {
		out = append(out, sink.WithSamples())
	}
	if opts.ShowGrid {
		out = append(out, sink.WithBounds())
	}
	return out
}

func buildHTMLOptions(opts Options) []sink.HTMLOption {
	out := []sink.HTMLOption{sink.WithTitle(opts.Title)}
	if opts.ImageBase != "" {
		out = append(out, sink.WithHTMLImageBase(opts.ImageBase))
	}
	return out
}

func buildPNGOptions(b *board.Board, opts Options) []sink.PNGOption {
	out := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.Labels {
		out = append(out, sink.WithPNGLabels())
	}
	if opts.ShowDebug || opts.ShowGrid {
		out = append(out, sink.WithPNGDebug())
	}
	images := opts.Images
	if images == nil && b.Source != "" && !gallery.IsURL(b.Source) {
		images = sink.DirImages(filepath.Dir(b.Source))
	}
	if images != nil {
		out = append(out, sink.WithImages(images))
	}
	return out
}
