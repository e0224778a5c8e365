// Package fonts provides the typeface used for tile labels.
//
// The Go Regular font ships inside golang.org/x/image, so labels render the
// same in SVG (embedded as a data URL) and in the native PNG renderer
// without any system fonts installed.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name the embedded font is declared as.
const FontFamily = "Go Regular"

// FallbackFontFamily lists fallbacks for viewers that drop embedded fonts.
const FallbackFontFamily = `'Go Regular', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func RegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

var (
	parsed    *opentype.Font
	parseErr  error
	parseOnce sync.Once
)

// Face returns a face of the regular font at size points (72 DPI, so one
// point is one pixel).
func Face(size float64) (font.Face, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse font: %w", parseErr)
	}
	if size <= 0 {
		size = 12
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}
