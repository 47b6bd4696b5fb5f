package cli

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/virtdock/internal/adapters/out/httpprober"
)

// newHealthCmd creates the health command.
func newHealthCmd(root *rootOptions) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running API server is healthy",
		Long: `Send GET /healthz to a running "virtdock serve" and exit non-zero unless it
answers 200. Without --url the address comes from server.addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(ctx, a)

			if url == "" {
				url = healthURL(a.Config.Server.Addr)
			}

			res, err := httpprober.New(httpprober.WithTimeout(timeout)).Probe(ctx, url)
			if err != nil {
				return fmt.Errorf("health check %s: %w", url, err)
			}
			if !res.Healthy() {
				return fmt.Errorf("health check %s: status %d", url, res.Status)
			}

			return cliWriteLine(cmd.OutOrStdout(), fmt.Sprintf("ok %s (%s)", url, res.Latency.Round(time.Millisecond)))
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Health endpoint URL (default from server.addr)")
	cmd.Flags().DurationVar(&timeout, "timeout", httpprober.DefaultTimeout, "Probe timeout")

	return cmd
}

// healthURL builds the health endpoint URL for a listen address. An empty
// or unspecified host maps to loopback.
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/healthz"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/healthz"
}
