package gallery

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/matzehuels/scatterbox/pkg/httputil"
	"github.com/matzehuels/scatterbox/pkg/scatter"
)

// Measurer reports the width a project renders at. A non-positive width
// means unknown.
type Measurer interface {
	Width(ctx context.Context, g *Gallery, i int) float64
}

// FixedWidth measures every project at the same width, like a stylesheet
// that sizes all drawings alike.
type FixedWidth float64

// Width returns w.
func (w FixedWidth) Width(context.Context, *Gallery, int) float64 { return float64(w) }

// ImageWidth measures projects by their image's intrinsic width, capped at
// Max. Images that cannot be read fall back to Max, then to the default
// item size.
type ImageWidth struct {
	Max    float64
	Client *httputil.Client // for remote images; nil skips them
}

// headerBytes is how much of a remote image is fetched to read its size.
// It covers JPEG files whose frame header follows a large EXIF block.
const headerBytes = 256 << 10

// Width decodes only the image header. Remote images are fetched up to
// headerBytes.
func (m ImageWidth) Width(ctx context.Context, g *Gallery, i int) float64 {
	ref := g.Projects[i].Image
	if ref == "" {
		return m.Max
	}
	w, ok := m.intrinsic(ctx, g, ref)
	if !ok {
		return m.Max
	}
	if m.Max > 0 {
		return min(w, m.Max)
	}
	return w
}

func (m ImageWidth) intrinsic(ctx context.Context, g *Gallery, ref string) (float64, bool) {
	var (
		cfg image.Config
		err error
	)
	switch {
	case IsURL(ref) || IsURL(g.BaseDir):
		if m.Client == nil {
			return 0, false
		}
		url := ref
		if !IsURL(ref) {
			url = g.BaseDir + strings.TrimPrefix(ref, "/")
		}
		data, ferr := m.Client.GetPrefix(ctx, url, headerBytes)
		if ferr != nil {
			return 0, false
		}
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	default:
		p := ref
		if !filepath.IsAbs(p) {
			p = filepath.Join(g.BaseDir, p)
		}
		f, ferr := os.Open(p)
		if ferr != nil {
			return 0, false
		}
		defer f.Close()
		cfg, _, err = image.DecodeConfig(f)
	}
	if err != nil || cfg.Width <= 0 {
		return 0, false
	}
	return float64(cfg.Width), true
}

// Items measures every project and returns one layout item per project.
// A nil measurer uses the default item size.
func Items(ctx context.Context, g *Gallery, m Measurer) []scatter.Item {
	items := make([]scatter.Item, g.Len())
	for i := range items {
		w := 0.0
		if m != nil {
			w = m.Width(ctx, g, i)
		}
		items[i].Size = scatter.MeasureSize(w)
	}
	return items
}
