package cli

import (
	"github.com/spf13/cobra"
)

// newServeCmd creates the serve command.
func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation HTTP API",
		Long: `Start an HTTP server exposing:

  POST /v1/translate?format=xml|yaml|json   body: docker inspect JSON
  GET  /healthz

The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(ctx, a)

			if addr != "" {
				a.Config.Server.Addr = addr
			}
			return a.Serve(a.Context(ctx))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}
