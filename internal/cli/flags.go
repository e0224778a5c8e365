package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/scatterbox/pkg/pipeline"
)

// optionFlag copies one flag-bound field onto the configured options when
// the user set the flag explicitly.
type optionFlag struct {
	name  string
	apply func(dst, src *pipeline.Options)
}

var layoutFlags = []optionFlag{
	{"width", func(d, s *pipeline.Options) { d.Width = s.Width }},
	{"height", func(d, s *pipeline.Options) { d.Height = s.Height }},
	{"viewport-height", func(d, s *pipeline.Options) { d.ViewportHeight = s.ViewportHeight }},
	{"header-bottom", func(d, s *pipeline.Options) { d.HeaderBottom = s.HeaderBottom }},
	{"header-gap", func(d, s *pipeline.Options) { d.HeaderGap = s.HeaderGap }},
	{"padding", func(d, s *pipeline.Options) { d.Padding = s.Padding }},
	{"seed", func(d, s *pipeline.Options) { d.Seed = s.Seed }},
	{"attempts", func(d, s *pipeline.Options) { d.Attempts = s.Attempts }},
	{"relax", func(d, s *pipeline.Options) { d.RelaxIterations = s.RelaxIterations }},
	{"item-width", func(d, s *pipeline.Options) { d.ItemWidth = s.ItemWidth }},
	{"max-item-width", func(d, s *pipeline.Options) { d.MaxItemWidth = s.MaxItemWidth }},
	{"gallery-format", func(d, s *pipeline.Options) { d.GalleryFormat = s.GalleryFormat }},
	{"diagnostics", func(d, s *pipeline.Options) { d.Diagnostics = s.Diagnostics }},
	{"refresh", func(d, s *pipeline.Options) { d.Refresh = s.Refresh }},
}

var renderFlags = []optionFlag{
	{"style", func(d, s *pipeline.Options) { d.Style = s.Style }},
	{"labels", func(d, s *pipeline.Options) { d.Labels = s.Labels }},
	{"grid", func(d, s *pipeline.Options) { d.ShowGrid = s.ShowGrid }},
	{"debug", func(d, s *pipeline.Options) { d.ShowDebug = s.ShowDebug }},
	{"image-base", func(d, s *pipeline.Options) { d.ImageBase = s.ImageBase }},
	{"title", func(d, s *pipeline.Options) { d.Title = s.Title }},
	{"scale", func(d, s *pipeline.Options) { d.Scale = s.Scale }},
}

func addLayoutFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.Float64Var(&o.Width, "width", 0, "container width in pixels (default 1200)")
	f.Float64Var(&o.Height, "height", 0, "container height; 0 derives it from the viewport")
	f.Float64Var(&o.ViewportHeight, "viewport-height", 0, "viewport height in pixels (default 800)")
	f.Float64Var(&o.HeaderBottom, "header-bottom", 0, "bottom edge of the page header")
	f.Float64Var(&o.HeaderGap, "header-gap", 0, "space kept below the header (default 16)")
	f.Float64Var(&o.Padding, "padding", 0, "inward padding from the container edges; 0 uses the default 20, negative disables it")
	f.Uint64Var(&o.Seed, "seed", 0, "random seed; 0 picks one and records it")
	f.IntVar(&o.Attempts, "attempts", 0, "candidates per active sample (default 30)")
	f.IntVar(&o.RelaxIterations, "relax", 0, "Lloyd relaxation passes (default 2)")
	f.Float64Var(&o.ItemWidth, "item-width", 0, "size every drawing alike instead of by image width")
	f.Float64Var(&o.MaxItemWidth, "max-item-width", 0, "cap on measured image widths (default 180)")
	f.StringVar((*string)(&o.GalleryFormat), "gallery-format", "", "gallery format: json, yaml (default: by extension)")
	f.BoolVar(&o.Diagnostics, "diagnostics", false, "keep samples and centers on the board")
	f.BoolVar(&o.Refresh, "refresh", false, "bypass cached results")
}

func addRenderFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.StringVar(&o.Style, "style", "", "visual style: handdrawn (default), simple")
	f.BoolVar(&o.Labels, "labels", false, "print project titles under drawings")
	f.BoolVar(&o.ShowGrid, "grid", false, "outline the placement bounds")
	f.BoolVar(&o.ShowDebug, "debug", false, "draw samples and centers (needs --diagnostics)")
	f.StringVar(&o.ImageBase, "image-base", "", "prefix for relative image paths in SVG and HTML")
	f.StringVar(&o.Title, "title", "", "HTML page title")
	f.Float64Var(&o.Scale, "scale", 0, "PNG scale factor (default 2)")
}

// applyFlags copies every explicitly set flag from flagged onto dst.
func applyFlags(cmd *cobra.Command, dst, flagged *pipeline.Options, flags ...[]optionFlag) {
	for _, set := range flags {
		for _, f := range set {
			if cmd.Flags().Changed(f.name) {
				f.apply(dst, flagged)
			}
		}
	}
}

// options returns the configured pipeline options with explicit flags
// applied on top.
func (c *CLI) options(cmd *cobra.Command, flagged *pipeline.Options, flags ...[]optionFlag) pipeline.Options {
	opts := c.Config.PipelineOptions()
	applyFlags(cmd, &opts, flagged, flags...)
	opts.Logger = c.Logger
	return opts
}
