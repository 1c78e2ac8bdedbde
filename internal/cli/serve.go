package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/apiview/internal/server"
	"github.com/matzehuels/apiview/pkg/render"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve uploaded documents over HTTP",
		Long: `Start the HTTP API. Documents are uploaded with POST /documents and
held in memory; renders and section expansions are served per document.
Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			opts := []server.Option{
				server.WithLogger(loggerFromContext(ctx)),
				server.WithKeyer(c.keyer()),
			}
			if path := c.Config.Render.Table; path != "" {
				table, err := render.LoadTable(path)
				if err != nil {
					return err
				}
				opts = append(opts, server.WithTable(table))
			}

			printInfo("Serving on %s", cfg.Addr)
			printDetail("Max document size: %d bytes, max documents: %d", cfg.MaxDocumentBytes, cfg.MaxDocuments)
			return server.New(cfg, opts...).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
