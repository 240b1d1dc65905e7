package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/runtime"
)

// StopOptions holds options for the stop command
type StopOptions struct {
	*GlobalOptions

	// Name is the workbench container name to stop
	Name string
}

// NewStopCommand creates the stop command.
//
// The stop command gracefully stops a workbench container. Since workbench
// containers are launched with auto-remove, a stopped container is also
// removed by the daemon once it exits.
func NewStopCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &StopOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "stop [NAME]",
		Short: "Stop a workbench container",
		Long: `Stop a workbench container gracefully.

Without a name argument, the container name from the environment
(DOCKER_NAME) is used.`,
		Example: `  # Stop the default workbench
  jukemir stop

  # Stop a named workbench
  jukemir stop my-workbench`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return runStop(cmd.Context(), opts)
		},
	}

	return cmd
}

// runStop executes the stop command logic
func runStop(ctx context.Context, opts *StopOptions) error {
	name, err := resolveContainerName(opts.Name)
	if err != nil {
		return err
	}

	rt, err := runtime.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Stop(ctx, name); err != nil {
		return err
	}

	fmt.Printf("Workbench stopped: %s\n", name)

	return nil
}

// resolveContainerName falls back to the environment-configured container
// name when none was given on the command line.
func resolveContainerName(name string) (string, error) {
	if name != "" {
		return name, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}

	return cfg.ContainerName, nil
}
