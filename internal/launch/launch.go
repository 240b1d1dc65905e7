// Package launch composes container-launch invocations for the jukemir
// workbench.
//
// The package separates a launch into two steps:
//  1. Resolve — query the host (cache directory, CPU affinity, GPU list)
//     and the launcher configuration into a LaunchConfig value.
//  2. Compose — deterministically format a LaunchConfig into an Invocation,
//     the structured equivalent of a `docker run` command line.
//
// Resolution touches the host and can fail; composition is a pure function
// with no side effects, so the same LaunchConfig always yields an identical
// Invocation. Execution of the invocation is the runtime package's job.
package launch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/config"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/hostinfo"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/logger"
)

// Container-side mount targets. The image expects the cache, the jukemir
// source tree, and the helper scripts at fixed locations under /jukemir;
// the user-local directory carries pip --user installs across runs.
const (
	ContainerCacheDir   = "/jukemir/cache"
	ContainerSourceDir  = "/jukemir/jukemir"
	ContainerScriptsDir = "/jukemir/scripts"
	ContainerLocalDir   = "/jukemir/.local"

	// ContainerPort is the notebook port inside the container.
	ContainerPort = 8888

	// hostSourceDir and hostScriptsDir are resolved relative to the
	// launcher's working directory, matching the workbench repo layout.
	hostSourceDir  = "jukemir"
	hostScriptsDir = "scripts"

	// hostLocalDir is resolved relative to the invoking user's home.
	hostLocalDir = ".local"
)

// GPUPolicy controls how an empty GPU listing is handled.
type GPUPolicy int

const (
	// GPUAuto queries the host and omits the device restriction when no
	// GPUs are present. The launch proceeds CPU-only.
	GPUAuto GPUPolicy = iota

	// GPURequire queries the host and fails the launch when no GPUs are
	// present.
	GPURequire

	// GPUSkip does not query the host at all. Used on hosts without the
	// management tool where a CPU-only launch is intended.
	GPUSkip
)

// Mount is a single host-to-container bind mount.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// LaunchConfig carries everything a composed invocation depends on. It is
// built fresh by Resolver.Resolve on every launch and discarded after use;
// nothing in this package persists between runs.
type LaunchConfig struct {
	// CacheDir is the resolved host cache directory.
	CacheDir string

	// CPUSet lists the CPU identifiers the container may use, in the
	// order the host reported them. Never empty after a successful
	// resolve.
	CPUSet []int

	// GPUIDs lists the GPU device identifiers to expose. May be empty,
	// in which case the composed invocation carries no device
	// restriction.
	GPUIDs []string

	// ContainerName, Image and Port come from the launcher configuration.
	ContainerName string
	Image         string
	Port          int

	// UID and GID map the container user to the invoking user.
	UID int
	GID int

	// Mounts is the fixed set of bind mounts for this launch.
	Mounts []Mount

	// Detach launches the container in the background.
	Detach bool

	// Command is the command executed inside the container.
	Command []string
}

// Resolver builds a LaunchConfig from the launcher configuration and the
// host introspection providers.
//
// The zero values of WorkDir, HomeDir, UID and GID mean "ask the OS"; tests
// set them explicitly to resolve without touching the real environment.
type Resolver struct {
	Config *config.Config
	Host   *hostinfo.Inspector

	// Policy selects the no-GPU behavior. Default GPUAuto.
	Policy GPUPolicy

	// WorkDir anchors the source and scripts mounts. Empty = os.Getwd.
	WorkDir string

	// HomeDir anchors the user-local mount. Empty = os.UserHomeDir.
	HomeDir string

	// UID and GID override the container user mapping. -1 = current user.
	UID int
	GID int

	// Detach requests a background launch.
	Detach bool
}

// NewResolver returns a Resolver for the current user and working
// directory with the default GPU policy.
func NewResolver(cfg *config.Config, host *hostinfo.Inspector) *Resolver {
	return &Resolver{
		Config: cfg,
		Host:   host,
		UID:    -1,
		GID:    -1,
		Detach: true,
	}
}

// Resolve queries the host and assembles a LaunchConfig.
//
// The three host queries are independent one-shot reads; any failure aborts
// resolution immediately, before a container runtime is ever contacted.
func (r *Resolver) Resolve() (*LaunchConfig, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cacheDir, err := r.Host.Cache.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	logger.Debug("Resolved cache directory: %s", cacheDir)

	cpuSet, err := r.Host.CPU.CPUSet()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve CPU affinity: %w", err)
	}
	logger.Debug("Resolved CPU affinity: %v", cpuSet)

	var gpuIDs []string
	if r.Policy != GPUSkip {
		gpuIDs, err = r.Host.GPU.GPUIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve GPU devices: %w", err)
		}
		logger.Debug("Resolved %d GPU device(s)", len(gpuIDs))
	}

	if len(gpuIDs) == 0 {
		switch r.Policy {
		case GPURequire:
			return nil, fmt.Errorf("%w: no GPU devices present", hostinfo.ErrGPUQueryFailed)
		case GPUAuto:
			logger.Warn("No GPU devices detected; launching CPU-only workbench")
		}
	}

	workDir := r.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	homeDir := r.HomeDir
	if homeDir == "" {
		if homeDir, err = os.UserHomeDir(); err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
	}

	uid, gid := r.UID, r.GID
	if uid < 0 {
		uid = os.Getuid()
	}
	if gid < 0 {
		gid = os.Getgid()
	}

	return &LaunchConfig{
		CacheDir:      cacheDir,
		CPUSet:        cpuSet,
		GPUIDs:        gpuIDs,
		ContainerName: r.Config.ContainerName,
		Image:         r.Config.ImageRef(),
		Port:          r.Config.Port,
		UID:           uid,
		GID:           gid,
		Mounts: []Mount{
			{Source: cacheDir, Target: ContainerCacheDir},
			{Source: filepath.Join(workDir, hostSourceDir), Target: ContainerSourceDir},
			{Source: filepath.Join(workDir, hostScriptsDir), Target: ContainerScriptsDir},
			{Source: filepath.Join(homeDir, hostLocalDir), Target: ContainerLocalDir},
		},
		Detach:  r.Detach,
		Command: []string{"bash"},
	}, nil
}
