package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/runtime"
)

// PsOptions holds options for the ps command
type PsOptions struct {
	*GlobalOptions
}

// NewPsCommand creates the ps command.
//
// The ps command lists workbench containers managed by this launcher,
// similar to 'docker ps' but filtered to launcher-created containers.
func NewPsCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &PsOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:     "ps",
		Short:   "List workbench containers",
		Aliases: []string{"list"},
		Long: `List workbench containers created by this launcher.

Shows all launcher-managed containers including stopped ones. Containers
started by other tools are not shown.`,
		Example: `  # List workbench containers
  jukemir ps`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPs(cmd.Context(), opts)
		},
	}

	return cmd
}

// runPs executes the ps command logic
func runPs(ctx context.Context, opts *PsOptions) error {
	rt, err := runtime.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	workbenches, err := rt.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workbenches: %w", err)
	}

	if len(workbenches) == 0 {
		fmt.Println("No workbench containers found")
		fmt.Println()
		fmt.Println("Launch one with: jukemir run")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tIMAGE\tSTATE\tCREATED\tPORT")

	for _, wb := range workbenches {
		port := "-"
		if wb.Port > 0 {
			port = fmt.Sprintf("%d", wb.Port)
		}

		created := units.HumanDuration(time.Since(wb.CreatedAt)) + " ago"

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			wb.Name,
			wb.Image,
			wb.State,
			created,
			port)
	}

	return w.Flush()
}
