package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/runtime"
)

// RmOptions holds options for the rm command
type RmOptions struct {
	*GlobalOptions

	// Name is the workbench container name to remove
	Name string
}

// NewRmCommand creates the rm command.
//
// The rm command force-removes a workbench container and its anonymous
// volumes. It exists for containers launched without auto-remove semantics
// (e.g. by older versions of the scripts) or stuck in a bad state.
func NewRmCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &RmOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "rm [NAME]",
		Short: "Remove a workbench container",
		Long: `Force-remove a workbench container, running or not.

Without a name argument, the container name from the environment
(DOCKER_NAME) is used.`,
		Example: `  jukemir rm
  jukemir rm my-workbench`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return runRm(cmd.Context(), opts)
		},
	}

	return cmd
}

// runRm executes the rm command logic
func runRm(ctx context.Context, opts *RmOptions) error {
	name, err := resolveContainerName(opts.Name)
	if err != nil {
		return err
	}

	rt, err := runtime.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Remove(ctx, name); err != nil {
		return err
	}

	fmt.Printf("Workbench removed: %s\n", name)

	return nil
}
