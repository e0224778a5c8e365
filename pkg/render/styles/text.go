package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	fontWidthRatio = 0.9
	fontCharWidth  = 0.55
	fontSizeMin    = 8.0
	fontSizeMax    = 16.0
	labelGap       = 4.0
)

// FontSize returns a caption size that fits the label under the tile.
func FontSize(t Tile) float64 {
	n := max(1, len(t.Label))
	byWidth := (t.W * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

// LabelY returns the caption baseline, just below the tile.
func LabelY(t Tile) float64 {
	return t.Y + t.H + labelGap + FontSize(t)
}

// TruncateLabel shortens the label to the characters that fit the tile
// width at the minimum font size.
func TruncateLabel(t Tile) string {
	label := t.Label
	charWidth := FontSize(t) * fontCharWidth
	maxChars := max(3, int(t.W*fontWidthRatio/charWidth))
	if len(label) <= maxChars {
		return label
	}
	return label[:maxChars-2] + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}
