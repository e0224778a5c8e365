package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatterbox/pkg/pipeline"
	"github.com/matzehuels/scatterbox/pkg/render"
)

// renderCommand creates the render command, which runs the full pipeline
// from gallery to output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		flagged    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [gallery.json|gallery.yaml|URL]",
		Short: "Lay out a gallery and render it in one step",
		Long: `Lay out a gallery and render it in one step.

Equivalent to 'layout' followed by 'visualize'. Formats: svg, html, png,
pdf, json and diagram (a Graphviz view of the sample field). The json
format is the board document, written as <base>.board.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flagged, layoutFlags, renderFlags)
			opts.Gallery = args[0]
			if cmd.Flags().Changed("format") {
				opts.Formats = parseFormats(formatsStr)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+render.JoinFormats(render.Formats())+" (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &flagged)
	addRenderFlags(cmd, &flagged)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Scattering drawings...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := basePath(output, boardPath(opts.Gallery))
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, base)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", result.Gallery.Source)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Board, result.CacheInfo.LayoutHit)
	warnOutside(result.Board)
	return nil
}

// basePath derives the base output path. A board file name loses its
// ".board.json" suffix; an output with a known format extension loses
// the extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(strings.TrimSuffix(input, ".json"), ".board")
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(ext); err == nil {
		return strings.TrimSuffix(strings.TrimSuffix(output, ext), ".board")
	}
	return output
}

// artifactPath names the file for one format. A single format honours an
// explicit output path as given. JSON output is the board document and
// never shares a name with a JSON gallery.
func artifactPath(format, output, base string, single bool) string {
	if single && output != "" {
		return output
	}
	f, _ := render.ParseFormat(format)
	if f == render.FormatJSON {
		return base + ".board.json"
	}
	return base + "." + f.Ext()
}

// writeArtifacts writes rendered outputs in format order and returns the
// paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, base string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(format, output, base, len(formats) == 1)
		if err := writeOutput(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
