// Package handdrawn renders tiles as pencil sketches: wobbly frames, a
// slight per-tile tilt and a scribbled underline under linked captions.
//
// All jitter is derived from the tile ID and the style seed, so the same
// board renders identically every time.
package handdrawn

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/scatterbox/pkg/fonts"
	"github.com/matzehuels/scatterbox/pkg/render/styles"
)

// Handdrawn is the sketch style.
type Handdrawn struct {
	seed uint64
}

// New returns a sketch style whose jitter is keyed by seed.
func New(seed uint64) *Handdrawn {
	return &Handdrawn{seed: seed}
}

func (h *Handdrawn) Name() string { return styles.NameHanddrawn }

func (h *Handdrawn) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <filter id="pencil"><feTurbulence type="fractalNoise" baseFrequency="0.04" numOctaves="2" result="n"/>` +
		`<feDisplacementMap in="SourceGraphic" in2="n" scale="1.5"/></filter>` + "\n")
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, "  <style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
		fonts.FontFamily, fonts.RegularBase64())
	fmt.Fprintf(buf, "    .tile-label { font-family: %s; fill: #222; }\n", fonts.FallbackFontFamily)
	buf.WriteString("    .tile:hover .frame { stroke-width: 2.6; }</style>\n")
}

func (h *Handdrawn) RenderTile(buf *bytes.Buffer, t styles.Tile) {
	rot := rotationFor(t.ID, t.W, t.H)
	styles.WrapURL(buf, t.URL, func() {
		fmt.Fprintf(buf, `  <g id="%s" class="tile" transform="rotate(%.2f %.2f %.2f)"><title>%s</title>`,
			t.ID, rot, t.CX, t.CY, styles.EscapeXML(t.Alt))
		fmt.Fprintf(buf, `<path class="frame" d="%s" fill="%s" stroke="#333" stroke-width="1.8" stroke-linejoin="round" filter="url(#pencil)"/>`,
			wobbledRect(t.X, t.Y, t.W, t.H, h.seed, t.ID), greyForID(t.ID))
		if t.Image != "" {
			fmt.Fprintf(buf, `<image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid meet"/>`,
				styles.EscapeXML(t.Image), t.X+5, t.Y+5, t.W-10, t.H-10)
		}
		buf.WriteString("</g>\n")
	})
}

func (h *Handdrawn) RenderLabel(buf *bytes.Buffer, t styles.Tile) {
	size := styles.FontSize(t)
	y := styles.LabelY(t)
	fmt.Fprintf(buf, `  <text class="tile-label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
		t.CX, y, size, styles.EscapeXML(styles.TruncateLabel(t)))
	if t.URL != "" {
		half := min(t.W/2, float64(len(styles.TruncateLabel(t)))*size*0.3)
		fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="#555" stroke-width="1.2"/>`+"\n",
			underline(t.CX-half, t.CX+half, y+3, h.seed, t.ID))
	}
}
