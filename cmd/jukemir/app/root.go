// Package app provides the command-line interface for the jukemir
// workbench launcher.
//
// Commands are organized with cobra: a root command carrying global flags
// and one subcommand per operation (run, ps, stop, rm, logs, pull, info,
// version). Each command wires the config, hostinfo, launch, and runtime
// packages together; no business logic lives here.
package app

import (
	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/config"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/logger"
)

const (
	// cliName is the name of the CLI application
	cliName = "jukemir"

	// cliDescription is the short description shown in help text
	cliDescription = "jukemir - launch the JukeMIR research workbench container"
)

// GlobalOptions holds options that are common to all commands
type GlobalOptions struct {
	// Verbose enables debug logging
	Verbose bool
}

// NewJukemirCommand creates the root jukemir command with all subcommands.
func NewJukemirCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `jukemir launches a Docker container for JukeMIR music-representation
research, with the host's CPU affinity, GPU devices, cache directory, and
source directories wired in.

Image identity is sourced from the environment (DOCKER_NAME,
DOCKER_NAMESPACE, DOCKER_TAG); host hardware is inspected fresh on every
launch. A Docker daemon must be reachable for all commands except 'info'.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(opts.Verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"verbose output")

	cmd.AddCommand(
		NewRunCommand(opts),
		NewPsCommand(opts),
		NewStopCommand(opts),
		NewRmCommand(opts),
		NewLogsCommand(opts),
		NewPullCommand(opts),
		NewInfoCommand(opts),
		NewVersionCommand(opts),
	)

	return cmd
}

// loadConfig captures the environment into a validated launcher config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
