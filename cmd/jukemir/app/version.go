package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, overridable at build time via -ldflags.
var (
	// Version is the launcher version.
	Version = "0.1.0"

	// GitCommit is the git commit the binary was built from.
	GitCommit = "dev"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(globalOpts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("jukemir version %s (%s)\n", Version, GitCommit)
			return nil
		},
	}

	return cmd
}
