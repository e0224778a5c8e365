package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/pipeline"
)

// layoutCommand creates the layout command for computing doodle wall layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flagged pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [gallery.json|gallery.yaml|URL]",
		Short: "Scatter a project gallery into a board",
		Long: `Scatter a project gallery into a board.

The layout command reads a gallery document (a list of projects with images)
and places one drawing per project inside the container. The output is a
board.json file that the 'visualize' command renders to SVG, HTML, PNG or PDF.

Seeded layouts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flagged, layoutFlags)
			opts.Gallery = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.board.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &flagged)

	return cmd
}

// runLayout loads the gallery, scatters it, and writes the board.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scattering %d drawings...", g.Len()))
	spinner.Start()

	b, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Scattered %d drawings", len(b.Tiles)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = boardPath(opts.Gallery)
	}
	if err := board.WriteFile(b, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(b, cacheHit)
	warnOutside(b)
	printNewline()
	printNextStep("Render", "scatterbox visualize "+outputPath)

	return nil
}

// boardPath derives the default board file name from a gallery source.
// URL sources are written to the working directory.
func boardPath(src string) string {
	base := src
	if i := strings.LastIndex(base, "/"); strings.Contains(base, "://") && i >= 0 {
		base = base[i+1:]
	}
	if base == "" {
		base = "gallery"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".board.json"
}

// warnOutside reports drawings the engine could not fit.
func warnOutside(b *board.Board) {
	if out := b.Outside(); len(out) > 0 {
		printWarning("%d drawing(s) extend past the container; try a smaller --padding or larger --height", len(out))
	}
}
