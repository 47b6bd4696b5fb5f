// Package cli implements the CLI adapter for virtdock.
// This package provides Cobra commands that delegate to the app layer.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bnema/virtdock/internal/app"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// NewRootCmd creates the root command for the virtdock CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "virtdock",
		Short: "virtdock - Docker container configs to container-VM definitions",
		Long: `virtdock reads the configuration Docker records for a container or image
(the JSON printed by 'docker inspect') and turns it into a definition for an
LXC-style container VM: CPU and memory limits, the init command and its
environment, plus a fixed lifecycle policy.

Definitions are written as libvirt domain XML, YAML or JSON.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(newConvertCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newHealthCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("virtdock %s\n", Version)
			cmd.Printf("Commit: %s\n", Commit)
			cmd.Printf("Build Date: %s\n", BuildDate)
		},
	}
}

// loadApp builds the application for a command run, logging to the
// command's stderr.
func loadApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app.App, error) {
	return app.New(ctx, app.Options{
		ConfigPath: opts.configPath,
		Version:    Version,
		LogOutput:  cmd.ErrOrStderr(),
	})
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	Version = version
	Commit = commit
	BuildDate = date
}
