package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/scatterbox/pkg/fonts"
)

// Simple draws plain rounded frames with the drawing clipped inside.
type Simple struct{}

func (Simple) Name() string { return NameSimple }

func (Simple) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>.tile-label { font-family: %s; fill: #333; }</style>\n", fonts.FallbackFontFamily)
}

func (Simple) RenderTile(buf *bytes.Buffer, t Tile) {
	WrapURL(buf, t.URL, func() {
		fmt.Fprintf(buf, `  <g id="%s" class="tile"><title>%s</title>`, t.ID, EscapeXML(t.Alt))
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6" fill="#fafafa" stroke="#333" stroke-width="1.5"/>`,
			t.X, t.Y, t.W, t.H)
		if t.Image != "" {
			fmt.Fprintf(buf, `<image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid meet"/>`,
				EscapeXML(t.Image), t.X+4, t.Y+4, t.W-8, t.H-8)
		}
		buf.WriteString("</g>\n")
	})
}

func (Simple) RenderLabel(buf *bytes.Buffer, t Tile) {
	fmt.Fprintf(buf, `  <text class="tile-label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
		t.CX, LabelY(t), FontSize(t), EscapeXML(TruncateLabel(t)))
}
