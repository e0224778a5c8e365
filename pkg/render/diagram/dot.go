package diagram

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/render"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures diagram output.
type Options struct {
	// Samples draws the Poisson-disc sample cloud.
	Samples bool
	// Centers draws the relaxed centers and joins each to its tile.
	Centers bool
	// Labels writes project titles inside tiles.
	Labels bool
}

// ToDOT converts a board to an undirected Graphviz graph with pinned
// positions. Graphviz's y axis points up, so y is flipped.
func ToDOT(b *board.Board, opts Options) string {
	flip := func(y float64) float64 { return b.Height - y }

	var buf bytes.Buffer
	buf.WriteString("graph scatter {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#f5f5f5\", fixedsize=true, fontsize=10];\n")
	buf.WriteString("  edge [color=\"#c0392b\", style=dashed];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  frame [shape=box, style=dashed, label=\"\", fillcolor=none, color=\"#bbbbbb\", pos=\"%s!\", width=%s, height=%s];\n",
		pos(b.Width/2, flip(b.Height/2)), inches(b.Width), inches(b.Height))

	for _, t := range b.Tiles {
		label := ""
		if opts.Labels {
			label = t.Title
		}
		c := t.Center()
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%s!\", width=%s, height=%s];\n",
			tileNode(t.Index), label, pos(c.X, flip(c.Y)), inches(t.W), inches(t.H))
	}

	if opts.Samples {
		buf.WriteString("\n")
		for i, p := range b.Samples {
			fmt.Fprintf(&buf, "  \"s%d\" [shape=point, width=0.04, color=\"#c0392b\", pos=\"%s!\"];\n", i, pos(p.X, flip(p.Y)))
		}
	}

	if opts.Centers && len(b.Centers) > 0 {
		buf.WriteString("\n")
		for i, p := range b.Centers {
			fmt.Fprintf(&buf, "  \"c%d\" [shape=circle, label=\"\", width=0.1, fillcolor=\"#c0392b\", pos=\"%s!\"];\n", i, pos(p.X, flip(p.Y)))
		}
		for _, t := range b.Tiles {
			fmt.Fprintf(&buf, "  \"c%d\" -- %q;\n", t.Index%len(b.Centers), tileNode(t.Index))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func tileNode(i int) string { return "tile-" + strconv.Itoa(i) }

func pos(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64)
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

func parse(ctx context.Context, dot string) (*graphviz.Graphviz, *graphviz.Graph, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init graphviz: %w", err)
	}
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		gv.Close()
		return nil, nil, fmt.Errorf("parse DOT: %w", err)
	}
	gv.SetLayout(graphviz.NEATO)
	return gv, g, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, g, err := parse(ctx, dot)
	if err != nil {
		return nil, err
	}
	defer gv.Close()
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG rasterizes a DOT graph with Graphviz's own renderer.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	gv, g, err := parse(ctx, dot)
	if err != nil {
		return nil, err
	}
	defer gv.Close()
	defer g.Close()

	img, err := gv.RenderImage(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDFContext(ctx, svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
