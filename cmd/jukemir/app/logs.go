package app

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/runtime"
)

// LogsOptions holds options for the logs command
type LogsOptions struct {
	*GlobalOptions

	// Name is the workbench container name
	Name string

	// Follow streams new log output continuously
	Follow bool
}

// NewLogsCommand creates the logs command.
//
// The logs command prints a workbench container's output, which is where
// the notebook server's access URL and token appear after launch.
func NewLogsCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &LogsOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "logs [NAME]",
		Short: "Show workbench container logs",
		Long: `Show logs from a workbench container.

Without a name argument, the container name from the environment
(DOCKER_NAME) is used.`,
		Example: `  # Print logs from the default workbench
  jukemir logs

  # Follow logs continuously
  jukemir logs -f`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return runLogs(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false,
		"follow log output")

	return cmd
}

// runLogs executes the logs command logic
func runLogs(ctx context.Context, opts *LogsOptions) error {
	name, err := resolveContainerName(opts.Name)
	if err != nil {
		return err
	}

	rt, err := runtime.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	stream, err := rt.Logs(ctx, name, opts.Follow)
	if err != nil {
		return err
	}
	defer stream.Close()

	_, err = io.Copy(os.Stdout, stream)
	return err
}
