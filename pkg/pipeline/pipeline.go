// Package pipeline provides the load → layout → render pipeline for Scatterbox.
//
// The CLI, the preview and the HTTP API all run galleries through this
// package, so defaults, validation and cache keys live in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a gallery document from a file or URL
//  2. Layout: measure every project and scatter the tiles into a [board.Board]
//  3. Render: produce artifacts (SVG, HTML, PNG, PDF, JSON, diagram)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Gallery: "projects.json",
//	    Width:   1200,
//	    Formats: []string{"svg", "html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/cache"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/httputil"
	"github.com/matzehuels/scatterbox/pkg/render"
	"github.com/matzehuels/scatterbox/pkg/render/sink"
	"github.com/matzehuels/scatterbox/pkg/render/styles"
	"github.com/matzehuels/scatterbox/pkg/scatter"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Preview
// =============================================================================

const (
	// DefaultWidth is the container width used when none is given.
	DefaultWidth = 1200.0

	// DefaultViewportHeight is the window height the container height is
	// derived from when no explicit height is given.
	DefaultViewportHeight = 800.0

	// DefaultMaxItemWidth caps measured image widths.
	DefaultMaxItemWidth = 180.0

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.NameHanddrawn

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0

	// DefaultTitle is the HTML page title.
	DefaultTitle = "Projects"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Gallery       string         `json:"gallery,omitempty"`
	GalleryFormat gallery.Format `json:"gallery_format,omitempty"`
	Refresh       bool           `json:"refresh,omitempty"`

	// Measure options. A positive ItemWidth sizes every tile alike;
	// otherwise tiles are measured from their images, capped at MaxItemWidth.
	ItemWidth    float64 `json:"item_width,omitempty"`
	MaxItemWidth float64 `json:"max_item_width,omitempty"`

	// Layout options. A zero Height is derived from the viewport:
	// ViewportHeight - HeaderBottom - HeaderGap.
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`
	ViewportHeight  float64 `json:"viewport_height,omitempty"`
	HeaderBottom    float64 `json:"header_bottom,omitempty"`
	HeaderGap       float64 `json:"header_gap,omitempty"`
	// Padding is the inward margin from the container edges. Zero uses
	// the default of 20; a negative value disables padding.
	Padding         float64 `json:"padding,omitempty"`
	Seed            uint64  `json:"seed,omitempty"`
	Attempts        int     `json:"attempts,omitempty"`
	RelaxIterations int     `json:"relax_iterations,omitempty"`
	ShrinkFactor    float64 `json:"shrink_factor,omitempty"`
	ShrinkRetries   int     `json:"shrink_retries,omitempty"`
	Diagnostics     bool    `json:"diagnostics,omitempty"` // keep samples and centers on the board

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	Labels    bool     `json:"labels,omitempty"`
	ShowGrid  bool     `json:"show_grid,omitempty"`  // draw the placement bounds
	ShowDebug bool     `json:"show_debug,omitempty"` // draw samples and centers
	ImageBase string   `json:"image_base,omitempty"`
	Title     string   `json:"title,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	Client *httputil.Client `json:"-"`
	Images sink.ImageSource `json:"-"` // PNG tile images; nil reads them next to a local gallery
	Now    func() time.Time `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Gallery is the loaded document.
	Gallery *gallery.Gallery

	// Board is the laid-out gallery.
	Board *board.Board

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount   int
	SampleCount int
	Radius      float64
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the board came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are known and rewrites them to
// their canonical names.
func ValidateFormats(formats []string) error {
	for i, f := range formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		formats[i] = string(parsed)
	}
	return nil
}

// ValidateStyle checks that a style is known.
func ValidateStyle(style string) error {
	_, err := sink.NewStyle(style, 0)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Gallery == "" {
		return errors.New(errors.ErrCodeInvalidInput, "gallery is required")
	}
	if gallery.IsURL(o.Gallery) {
		if err := errors.ValidateURL(o.Gallery); err != nil {
			return err
		}
	}
	switch o.GalleryFormat {
	case gallery.FormatAuto, gallery.FormatJSON, gallery.FormatYAML:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown gallery format %q", o.GalleryFormat)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.HeaderGap == 0 {
		o.HeaderGap = scatter.DefaultHeaderGap
	}
	if o.Height == 0 {
		o.Height = scatter.ViewportHeight(o.ViewportHeight, o.HeaderBottom, o.HeaderGap)
	}
	if o.MaxItemWidth == 0 {
		o.MaxItemWidth = DefaultMaxItemWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", o.Width},
		{"height", o.Height},
		{"item_width", o.ItemWidth},
		{"max_item_width", o.MaxItemWidth},
	} {
		if err := errors.ValidateExtent(f.name, f.v); err != nil {
			return err
		}
	}
	if math.IsNaN(o.Padding) || math.IsInf(o.Padding, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be a finite number")
	}
	if o.ShrinkFactor < 0 || o.ShrinkFactor >= 1 {
		return errors.New(errors.ErrCodeInvalidInput, "shrink_factor must be in (0, 1)")
	}
	if o.Attempts < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "attempts cannot be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Measurer returns the measurer the layout stage sizes tiles with.
func (o *Options) Measurer() gallery.Measurer {
	if o.ItemWidth > 0 {
		return gallery.FixedWidth(o.ItemWidth)
	}
	return gallery.ImageWidth{Max: o.MaxItemWidth, Client: o.Client}
}

// ScatterOptions returns the engine tuning with a source seeded by seed.
func (o *Options) ScatterOptions(seed uint64) *scatter.Options {
	return &scatter.Options{
		Padding:         o.Padding,
		Attempts:        o.Attempts,
		RelaxIterations: o.RelaxIterations,
		ShrinkFactor:    o.ShrinkFactor,
		ShrinkRetries:   o.ShrinkRetries,
		Rand:            scatter.NewRand(seed),
	}
}

// Cacheable reports whether a layout may be served from cache. Unseeded
// layouts are random by definition.
func (o *Options) Cacheable() bool {
	return o.Seed != 0 && !o.Refresh
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:           o.Width,
		Height:          o.Height,
		Padding:         o.Padding,
		Seed:            o.Seed,
		Attempts:        o.Attempts,
		RelaxIterations: o.RelaxIterations,
		ShrinkFactor:    o.ShrinkFactor,
		ShrinkRetries:   o.ShrinkRetries,
		ItemWidth:       o.ItemWidth,
		MaxItemWidth:    o.MaxItemWidth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Style:     o.Style,
		ShowGrid:  o.ShowGrid,
		ShowDebug: o.ShowDebug,
		Labels:    o.Labels,
		ImageBase: o.ImageBase,
		Title:     o.Title,
		Scale:     o.Scale,
	}
}
