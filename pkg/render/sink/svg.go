package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/render/styles"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style     styles.Style
	imageBase string
	labels    bool
	samples   bool
	bounds    bool
}

func WithStyle(s styles.Style) SVGOption  { return func(r *svgRenderer) { r.style = s } }
func WithImageBase(base string) SVGOption { return func(r *svgRenderer) { r.imageBase = base } }
func WithLabels() SVGOption               { return func(r *svgRenderer) { r.labels = true } }
func WithSamples() SVGOption              { return func(r *svgRenderer) { r.samples = true } }
func WithBounds() SVGOption               { return func(r *svgRenderer) { r.bounds = true } }

// RenderSVG draws the board at its container size.
func RenderSVG(b *board.Board, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	tiles := buildTiles(b, r.imageBase)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-style="%s">`+"\n",
		b.Width, b.Height, b.Width, b.Height, r.style.Name())
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="#fff"/>`+"\n", b.Width, b.Height)

	if r.bounds {
		renderBounds(&buf, b)
	}
	if r.samples {
		renderSamples(&buf, b)
	}
	for _, t := range tiles {
		r.style.RenderTile(&buf, t)
	}
	if r.labels {
		for _, t := range tiles {
			r.style.RenderLabel(&buf, t)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBounds(buf *bytes.Buffer, b *board.Board) {
	bd := b.Bounds
	fmt.Fprintf(buf, `  <rect class="bounds" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#4a90d9" stroke-dasharray="6 4"/>`+"\n",
		bd.MinX, bd.MinY, bd.MaxX-bd.MinX, bd.MaxY-bd.MinY)
	fmt.Fprintf(buf, `  <rect class="padding" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#bbb" stroke-dasharray="2 3"/>`+"\n",
		b.Padding, b.Padding, b.Width-2*b.Padding, b.Height-2*b.Padding)
}

func renderSamples(buf *bytes.Buffer, b *board.Board) {
	buf.WriteString(`  <g class="samples" fill="#c0392b" fill-opacity="0.35">`)
	for _, p := range b.Samples {
		fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="1.5"/>`, p.X, p.Y)
	}
	buf.WriteString("</g>\n")
	buf.WriteString(`  <g class="centers" stroke="#c0392b" stroke-width="1.5">`)
	for _, p := range b.Centers {
		fmt.Fprintf(buf, `<path d="M%.2f,%.2f h8 M%.2f,%.2f v8"/>`, p.X-4, p.Y, p.X, p.Y-4)
	}
	buf.WriteString("</g>\n")
}
