package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/config"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/hostinfo"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/launch"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/runtime"
)

// RunOptions holds options for the run command
type RunOptions struct {
	*GlobalOptions

	// DryRun prints the composed docker command without executing it
	DryRun bool

	// Detach runs the container in the background
	Detach bool

	// RequireGPU fails the launch when no GPU devices are present
	RequireGPU bool

	// NoGPU skips the GPU query entirely and launches CPU-only
	NoGPU bool

	// Port overrides the published notebook port
	Port int

	// Name overrides the container name from the environment
	Name string

	// Image overrides the full image reference from the environment
	Image string
}

// NewRunCommand creates the run command.
//
// The run command is the launcher's core operation: it resolves the host's
// cache directory, CPU affinity, and GPU devices, composes them into a
// docker run invocation, and hands the invocation to the Docker daemon.
//
// Usage:
//
//	jukemir run [OPTIONS]
//
// Examples:
//
//	# Launch the workbench with everything auto-detected
//	jukemir run
//
//	# Show the exact docker command without launching
//	jukemir run --dry-run
//
//	# Refuse to launch without a GPU
//	jukemir run --require-gpu
func NewRunCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &RunOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch the workbench container",
		Long: `Launch the JukeMIR workbench container.

The launch pins the container to this process's CPU affinity set, exposes
the host's GPU devices, bind-mounts the jukemir cache and source
directories, maps the container user to the invoking user, and publishes
the notebook port. All host state is queried fresh; nothing is cached
between runs.

If no GPU is present the device restriction is omitted and the workbench
runs CPU-only. Use --require-gpu to fail instead, or --no-gpu to skip the
GPU query on hosts without NVIDIA tooling.`,
		Example: `  # Launch with auto-detected host configuration
  jukemir run

  # Print the docker command and exit
  jukemir run --dry-run

  # CPU-only launch on a host without nvidia-smi
  jukemir run --no-gpu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.RequireGPU && opts.NoGPU {
				return fmt.Errorf("--require-gpu and --no-gpu are mutually exclusive")
			}
			return runRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false,
		"print the composed docker command without executing it")
	cmd.Flags().BoolVarP(&opts.Detach, "detach", "d", true,
		"run the container in the background (--detach=false stays attached until exit)")
	cmd.Flags().BoolVar(&opts.RequireGPU, "require-gpu", false,
		"fail when no GPU devices are present")
	cmd.Flags().BoolVar(&opts.NoGPU, "no-gpu", false,
		"skip the GPU query and launch CPU-only")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0,
		"published notebook port (default from JUKEMIR_PORT or 8888)")
	cmd.Flags().StringVar(&opts.Name, "name", "",
		"container name (default from DOCKER_NAME)")
	cmd.Flags().StringVar(&opts.Image, "image", "",
		"full image reference (default composed from DOCKER_NAMESPACE/DOCKER_NAME:DOCKER_TAG)")

	return cmd
}

// runRun executes the run command logic: resolve, compose, then execute.
//
// Resolution happens entirely before the Docker daemon is contacted, so a
// failed host query never leaves a partially launched container behind.
func runRun(ctx context.Context, opts *RunOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunOverrides(cfg, opts)

	resolver := launch.NewResolver(cfg, hostinfo.NewInspector(cfg.PythonBin, cfg.CacheDir))
	resolver.Detach = opts.Detach
	switch {
	case opts.NoGPU:
		resolver.Policy = launch.GPUSkip
	case opts.RequireGPU:
		resolver.Policy = launch.GPURequire
	}

	launchCfg, err := resolver.Resolve()
	if err != nil {
		return err
	}

	inv := launch.Compose(launchCfg)
	if opts.Image != "" {
		inv.Image = opts.Image
	}

	if opts.DryRun {
		fmt.Println(inv)
		return nil
	}

	rt, err := runtime.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	containerID, err := rt.Launch(ctx, inv)
	if err != nil {
		return err
	}

	// A foreground launch only returns once the container has exited, so
	// the detach hints below would be stale.
	if !opts.Detach {
		return nil
	}

	fmt.Printf("Workbench started: %s (%s)\n", inv.Name, containerID[:12])
	fmt.Printf("Notebook port: http://localhost:%d\n", inv.Port)
	fmt.Printf("Attach with: docker exec -it %s bash\n", inv.Name)

	return nil
}

// applyRunOverrides applies command-line overrides on top of the
// environment-sourced configuration.
func applyRunOverrides(cfg *config.Config, opts *RunOptions) {
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	if opts.Name != "" {
		cfg.ContainerName = opts.Name
	}
}
