package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/fonts"
	"github.com/matzehuels/scatterbox/pkg/render/styles"
)

// MaxPNGPixels bounds the raster size (width times height after scaling).
const MaxPNGPixels = 64 << 20

var (
	colorPaper  = color.RGBA{255, 255, 255, 255}
	colorTile   = color.RGBA{245, 245, 245, 255}
	colorInk    = color.RGBA{51, 51, 51, 255}
	colorSample = color.NRGBA{192, 57, 43, 110}
	colorCenter = color.RGBA{192, 57, 43, 255}
	colorBounds = color.RGBA{74, 144, 217, 255}
)

// ImageSource supplies the drawing for a tile. ok is false when the tile
// has no loadable image.
type ImageSource interface {
	Image(t board.Tile) (img image.Image, ok bool)
}

// DirImages loads tile images relative to a local directory.
type DirImages string

// Image decodes the tile's image file.
func (d DirImages) Image(t board.Tile) (image.Image, bool) {
	if t.Image == "" {
		return nil, false
	}
	p := t.Image
	if !filepath.IsAbs(p) {
		p = filepath.Join(string(d), p)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, false
	}
	return img, true
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
	debug  bool
	images ImageSource
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGLabels draws captions under tiles.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = true } }

// WithPNGDebug overlays samples, centers and bounds.
func WithPNGDebug() PNGOption { return func(r *pngRenderer) { r.debug = true } }

// WithImages draws each tile's image inside its frame.
func WithImages(src ImageSource) PNGOption { return func(r *pngRenderer) { r.images = src } }

// RenderPNG rasterizes the board without external tools.
func RenderPNG(b *board.Board, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		r.scale = 1
	}

	w := int(math.Ceil(b.Width * r.scale))
	h := int(math.Ceil(b.Height * r.scale))
	if w <= 0 || h <= 0 || w*h > MaxPNGPixels {
		return nil, fmt.Errorf("png size %dx%d out of range", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorPaper), image.Point{}, draw.Src)

	if r.debug {
		r.drawDebug(img, b)
	}
	for _, t := range b.Tiles {
		r.drawTile(img, t)
	}
	if r.labels {
		if err := r.drawLabels(img, b); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// px converts a layout rectangle to scaled pixel bounds.
func (r *pngRenderer) px(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x*r.scale)), int(math.Round(y*r.scale)),
		int(math.Round((x+w)*r.scale)), int(math.Round((y+h)*r.scale)),
	)
}

func (r *pngRenderer) drawTile(img *image.RGBA, t board.Tile) {
	box := r.px(t.X, t.Y, t.W, t.H)
	fill(img, box, colorTile)

	if r.images != nil {
		if src, ok := r.images.Image(t); ok {
			inset := int(math.Round(4 * r.scale))
			draw.CatmullRom.Scale(img, fitRect(box.Inset(inset), src.Bounds()), src, src.Bounds(), draw.Over, nil)
		}
	}
	strokeRect(img, box, max(1, int(math.Round(1.5*r.scale))), colorInk)
}

func (r *pngRenderer) drawDebug(img *image.RGBA, b *board.Board) {
	bd := b.Bounds
	strokeRect(img, r.px(bd.MinX, bd.MinY, bd.MaxX-bd.MinX, bd.MaxY-bd.MinY), 1, colorBounds)

	dot := max(1, int(math.Round(1.5*r.scale)))
	for _, p := range b.Samples {
		c := image.Pt(int(p.X*r.scale), int(p.Y*r.scale))
		fill(img, image.Rectangle{Min: c.Sub(image.Pt(dot, dot)), Max: c.Add(image.Pt(dot, dot))}, colorSample)
	}
	arm := int(math.Round(4 * r.scale))
	for _, p := range b.Centers {
		c := image.Pt(int(p.X*r.scale), int(p.Y*r.scale))
		fill(img, image.Rect(c.X-arm, c.Y-dot/2, c.X+arm, c.Y+dot/2+1), colorCenter)
		fill(img, image.Rect(c.X-dot/2, c.Y-arm, c.X+dot/2+1, c.Y+arm), colorCenter)
	}
}

func (r *pngRenderer) drawLabels(img *image.RGBA, b *board.Board) error {
	faces := map[float64]font.Face{}
	for _, st := range buildTiles(b, "") {
		size := styles.FontSize(st) * r.scale
		face, ok := faces[size]
		if !ok {
			var err error
			if face, err = fonts.Face(size); err != nil {
				return err
			}
			faces[size] = face
		}
		label := styles.TruncateLabel(st)
		width := font.MeasureString(face, label).Ceil()
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colorInk),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(int(st.CX*r.scale) - width/2),
				Y: fixed.I(int(styles.LabelY(st) * r.scale)),
			},
		}
		d.DrawString(label)
	}
	return nil
}

func fill(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(img *image.RGBA, rect image.Rectangle, width int, c color.Color) {
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width), c)
	fill(img, image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y), c)
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y), c)
	fill(img, image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

// fitRect returns the largest rectangle with src's aspect ratio centered
// in dst.
func fitRect(dst, src image.Rectangle) image.Rectangle {
	dw, dh := dst.Dx(), dst.Dy()
	sw, sh := src.Dx(), src.Dy()
	if dw <= 0 || dh <= 0 || sw <= 0 || sh <= 0 {
		return image.Rectangle{Min: dst.Min, Max: dst.Min}
	}
	scale := math.Min(float64(dw)/float64(sw), float64(dh)/float64(sh))
	w, h := int(float64(sw)*scale), int(float64(sh)*scale)
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}
