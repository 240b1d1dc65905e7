package launch

import (
	"fmt"
	"strconv"
	"strings"
)

// Invocation is the fully composed specification of a workbench launch:
// every flag value the container runtime needs, formatted but not executed.
//
// An Invocation is a plain value with no handle to the runtime. The runtime
// package converts it to Docker API structures for execution; Args renders
// it as a `docker run` command line for dry runs and diagnostics. Both
// views are derived from the same fields, so they cannot drift apart.
type Invocation struct {
	// Name is the container name.
	Name string

	// Image is the full image reference.
	Image string

	// CPUSet is the --cpuset-cpus value: comma-joined CPU identifiers,
	// no spaces, host order preserved.
	CPUSet string

	// GPUDevices is the comma-joined GPU device list. Empty means the
	// invocation carries no device restriction at all.
	GPUDevices string

	// User is the uid:gid mapping for the container user.
	User string

	// Mounts are the bind mounts, in composition order.
	Mounts []Mount

	// Port is the host port published to ContainerPort.
	Port int

	// Interactive keeps stdin open and allocates a TTY.
	Interactive bool

	// AutoRemove removes the container when it exits.
	AutoRemove bool

	// Detach runs the container in the background.
	Detach bool

	// Command is the command executed inside the container.
	Command []string
}

// Compose formats a LaunchConfig into an Invocation.
//
// Compose is pure: it performs no I/O and no host queries, and identical
// inputs always produce identical invocations. The workbench is launched
// interactive and auto-removing, matching its use as a disposable research
// environment.
func Compose(lc *LaunchConfig) *Invocation {
	cpus := make([]string, len(lc.CPUSet))
	for i, id := range lc.CPUSet {
		cpus[i] = strconv.Itoa(id)
	}

	mounts := make([]Mount, len(lc.Mounts))
	copy(mounts, lc.Mounts)

	command := make([]string, len(lc.Command))
	copy(command, lc.Command)

	return &Invocation{
		Name:        lc.ContainerName,
		Image:       lc.Image,
		CPUSet:      strings.Join(cpus, ","),
		GPUDevices:  strings.Join(lc.GPUIDs, ","),
		User:        fmt.Sprintf("%d:%d", lc.UID, lc.GID),
		Mounts:      mounts,
		Port:        lc.Port,
		Interactive: true,
		AutoRemove:  true,
		Detach:      lc.Detach,
		Command:     command,
	}
}

// Args renders the invocation as a `docker run` argument vector.
//
// The rendering is exact enough to paste into a shell: a dry run prints
// these arguments, and the composition tests assert against them.
func (inv *Invocation) Args() []string {
	args := []string{"run"}

	if inv.Interactive {
		args = append(args, "-it")
	}
	if inv.AutoRemove {
		args = append(args, "--rm")
	}
	if inv.Detach {
		args = append(args, "-d")
	}

	args = append(args, "--name", inv.Name)
	args = append(args, "--cpuset-cpus", inv.CPUSet)

	if inv.GPUDevices != "" {
		args = append(args, "--gpus", fmt.Sprintf("device=%s", inv.GPUDevices))
	}

	args = append(args, "-u", inv.User)

	for _, m := range inv.Mounts {
		spec := fmt.Sprintf("%s:%s", m.Source, m.Target)
		if m.ReadOnly {
			spec += ":ro"
		}
		args = append(args, "-v", spec)
	}

	args = append(args, "-p", fmt.Sprintf("%d:%d", inv.Port, ContainerPort))
	args = append(args, inv.Image)
	args = append(args, inv.Command...)

	return args
}

// String returns the invocation as a single shell-style command line.
func (inv *Invocation) String() string {
	return "docker " + strings.Join(inv.Args(), " ")
}
