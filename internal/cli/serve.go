package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatterbox/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		galleryDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Boards and handoffs are stored in the configured cache backend. Use the
redis or mongo backend to share them between several instances.

Local gallery files are only readable with --gallery-dir; otherwise
requests must post projects inline or name an http(s) gallery.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			sc := c.Config.Server
			srv := server.New(server.Config{
				Addr:            sc.Addr,
				ReadTimeout:     sc.ReadTimeout,
				WriteTimeout:    sc.WriteTimeout,
				RequestTimeout:  sc.RequestTimeout,
				MaxBodyBytes:    sc.MaxBodyBytes,
				MaxRenderPixels: sc.MaxRenderPixels,
				GalleryDir:      galleryDir,
				Defaults:        c.Config.PipelineOptions(),
			}, runner, c.Logger)

			printInfo("Listening on %s", StyleHighlight.Render(sc.Addr))
			printDetail("cache: %s", c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&galleryDir, "gallery-dir", "", "directory local gallery paths resolve in")

	return cmd
}
