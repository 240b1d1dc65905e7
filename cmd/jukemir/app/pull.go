package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/runtime"
)

// Pull hooks, swapped by tests.
var (
	pullImage   = runtime.PullImage
	ensureImage = runtime.EnsureImage
)

// PullOptions holds options for the pull command
type PullOptions struct {
	*GlobalOptions

	// Image overrides the image reference from the environment
	Image string

	// Force pulls even when the image is already present locally
	Force bool
}

// NewPullCommand creates the pull command.
//
// The pull command ensures the workbench image is present locally so a
// later 'jukemir run' does not stall on a multi-gigabyte download.
func NewPullCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &PullOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the workbench image",
		Long: `Download the workbench image if it is not already present.

The image reference is composed from the environment
(DOCKER_NAMESPACE/DOCKER_NAME:DOCKER_TAG) unless --image is given.`,
		Example: `  jukemir pull
  jukemir pull --image jukemir/workbench:nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Image, "image", "",
		"full image reference to pull")
	cmd.Flags().BoolVar(&opts.Force, "force", false,
		"pull even if the image exists locally")

	return cmd
}

// runPull executes the pull command logic
func runPull(ctx context.Context, opts *PullOptions, out io.Writer) error {
	imageRef := opts.Image
	if imageRef == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		imageRef = cfg.ImageRef()
	}

	pull := ensureImage
	if opts.Force {
		pull = pullImage
	}
	if err := pull(ctx, imageRef, out); err != nil {
		return err
	}

	fmt.Fprintf(out, "Image ready: %s\n", imageRef)

	return nil
}
