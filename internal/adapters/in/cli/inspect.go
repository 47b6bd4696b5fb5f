package cli

import (
	"github.com/spf13/cobra"
)

// newInspectCmd creates the inspect command.
func newInspectCmd(root *rootOptions) *cobra.Command {
	flags := &conversionFlags{}

	cmd := &cobra.Command{
		Use:   "inspect <container|image>...",
		Short: "Convert containers or images from the Docker daemon",
		Long: `Inspect containers through the Docker Engine API and convert their
configuration. A reference that matches no container is looked up as an
image; image configs carry no HostConfig, so the default limits apply.

The daemon is taken from docker.host in the config, then DOCKER_HOST.`,
		Example: `  virtdock inspect web
  virtdock inspect --cpus 2 -f yaml nginx:alpine`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(ctx, a)

			source, err := a.DockerSource()
			if err != nil {
				return err
			}

			return runConversion(a.Context(ctx), cmd, a, source, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}
