// Package runtime executes composed launch invocations against the Docker
// daemon and manages the resulting workbench containers.
//
// The package is the only place that talks to the container runtime. It
// converts launch.Invocation values into Docker API structures, starts the
// container, and provides lifecycle operations (list, stop, remove, logs)
// over containers it launched, identified by label.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/launch"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/logger"
)

// ErrRuntimeInvocation indicates the container runtime rejected or failed
// the launch. Resolution succeeded; the handoff did not.
var ErrRuntimeInvocation = errors.New("container runtime invocation failed")

const (
	// managedLabel marks containers created by this launcher so lifecycle
	// commands never touch unrelated containers.
	managedLabel = "jukemir.managed"

	// imageLabel records the image reference the container was launched
	// from, for display in ps output.
	imageLabel = "jukemir.image"

	// stopTimeoutSeconds is the grace period before Docker escalates a
	// stop to SIGKILL. Long enough for a notebook server to checkpoint.
	stopTimeoutSeconds = 30

	// pingTimeout bounds the daemon connectivity check at startup.
	pingTimeout = 5 * time.Second
)

// Workbench describes a launcher-managed container.
type Workbench struct {
	// ID is the full container ID.
	ID string

	// Name is the container name without the leading slash.
	Name string

	// Image is the image reference recorded at launch.
	Image string

	// State is the Docker container state, e.g. "running".
	State string

	// CreatedAt is the container creation time.
	CreatedAt time.Time

	// Port is the published host port, or 0 if none was found.
	Port int
}

// Runtime wraps a Docker API client for workbench operations.
type Runtime struct {
	client *client.Client
}

// New creates a Runtime connected to the local Docker daemon.
//
// The client honors DOCKER_HOST and related environment variables and
// negotiates the API version with the daemon. Connectivity is verified with
// a short ping so a missing daemon surfaces immediately rather than on the
// first operation.
func New() (*Runtime, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Docker client: %v", ErrRuntimeInvocation, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: Docker daemon is not accessible: %v", ErrRuntimeInvocation, err)
	}

	return &Runtime{client: cli}, nil
}

// Close releases the underlying Docker client.
func (r *Runtime) Close() error {
	return r.client.Close()
}

// Launch creates and starts a container from the composed invocation.
//
// A detached invocation returns the container ID as soon as the container
// is running. A foreground invocation attaches the launcher's terminal
// before starting, pumps the attached streams until the container exits,
// and returns afterwards; a non-zero container exit becomes an error.
//
// Any daemon error is wrapped in ErrRuntimeInvocation; no cleanup is
// attempted for a container that failed to create, and a created-but-
// unstarted container is removed so a retry does not collide on the name.
func (r *Runtime) Launch(ctx context.Context, inv *launch.Invocation) (string, error) {
	containerConfig, hostConfig, err := apiConfig(inv)
	if err != nil {
		return "", err
	}

	logger.Info("Launching workbench container %s from %s", inv.Name, inv.Image)
	logger.Debug("Invocation: %s", inv)

	resp, err := r.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, inv.Name)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create container: %v", ErrRuntimeInvocation, err)
	}

	if !inv.Detach {
		return resp.ID, r.runForeground(ctx, resp.ID, inv)
	}

	if err := r.start(ctx, resp.ID); err != nil {
		return "", err
	}

	logger.Info("Workbench container started: %s (%s)", inv.Name, resp.ID[:12])

	return resp.ID, nil
}

// start starts a created container, removing it on failure so the name is
// reusable on a retry.
func (r *Runtime) start(ctx context.Context, containerID string) error {
	if err := r.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		removeErr := r.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
		if removeErr != nil {
			logger.Warn("Failed to clean up unstarted container %s: %v", containerID[:12], removeErr)
		}
		return fmt.Errorf("%w: failed to start container: %v", ErrRuntimeInvocation, err)
	}
	return nil
}

// runForeground attaches to a created container, starts it, and streams
// until it exits.
//
// The wait is registered and the attach established before start so no
// early output is lost and a fast-exiting container cannot race the wait
// registration.
func (r *Runtime) runForeground(ctx context.Context, containerID string, inv *launch.Invocation) error {
	waitCh, waitErrCh := r.client.ContainerWait(ctx, containerID, waitCondition(inv))

	attach, err := r.client.ContainerAttach(ctx, containerID, attachOptions(inv))
	if err != nil {
		removeErr := r.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
		if removeErr != nil {
			logger.Warn("Failed to clean up unstarted container %s: %v", containerID[:12], removeErr)
		}
		return fmt.Errorf("%w: failed to attach to container: %v", ErrRuntimeInvocation, err)
	}
	defer attach.Close()

	if err := r.start(ctx, containerID); err != nil {
		return err
	}

	logger.Debug("Attached to workbench container %s", containerID[:12])

	if inv.Interactive {
		go func() {
			_, _ = io.Copy(attach.Conn, os.Stdin)
		}()
	}
	go func() {
		_, _ = io.Copy(os.Stdout, attach.Reader)
	}()

	select {
	case err := <-waitErrCh:
		return fmt.Errorf("%w: waiting on container: %v", ErrRuntimeInvocation, err)
	case status := <-waitCh:
		if status.StatusCode != 0 {
			return fmt.Errorf("%w: container exited with status %d", ErrRuntimeInvocation, status.StatusCode)
		}
	}

	return nil
}

// attachOptions builds the attach request for a foreground launch. Stdin is
// only forwarded when the container was composed interactive.
func attachOptions(inv *launch.Invocation) container.AttachOptions {
	return container.AttachOptions{
		Stream: true,
		Stdin:  inv.Interactive,
		Stdout: true,
		Stderr: true,
	}
}

// waitCondition picks the wait condition for a foreground launch. An
// auto-removed container disappears on exit, so waiting for the next exit
// event would race with removal.
func waitCondition(inv *launch.Invocation) container.WaitCondition {
	if inv.AutoRemove {
		return container.WaitConditionRemoved
	}
	return container.WaitConditionNextExit
}

// apiConfig converts an invocation into Docker API configuration.
func apiConfig(inv *launch.Invocation) (*container.Config, *container.HostConfig, error) {
	containerPort, err := nat.NewPort("tcp", fmt.Sprintf("%d", launch.ContainerPort))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid container port: %v", ErrRuntimeInvocation, err)
	}

	containerConfig := &container.Config{
		Image:     inv.Image,
		Cmd:       inv.Command,
		User:      inv.User,
		Tty:       inv.Interactive,
		OpenStdin: inv.Interactive,
		ExposedPorts: nat.PortSet{
			containerPort: struct{}{},
		},
		Labels: map[string]string{
			managedLabel: "true",
			imageLabel:   inv.Image,
		},
	}

	mounts := make([]mount.Mount, 0, len(inv.Mounts))
	for _, m := range inv.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	resources := container.Resources{
		CpusetCpus: inv.CPUSet,
	}

	// An empty device list means no restriction at all rather than an
	// explicit empty request, which some runtimes reject.
	if inv.GPUDevices != "" {
		resources.DeviceRequests = []container.DeviceRequest{
			{
				Driver:       "nvidia",
				DeviceIDs:    strings.Split(inv.GPUDevices, ","),
				Capabilities: [][]string{{"gpu"}},
			},
		}
	}

	hostConfig := &container.HostConfig{
		AutoRemove: inv.AutoRemove,
		Mounts:     mounts,
		PortBindings: nat.PortMap{
			containerPort: []nat.PortBinding{
				{
					HostIP:   "0.0.0.0",
					HostPort: fmt.Sprintf("%d", inv.Port),
				},
			},
		},
		Resources: resources,
	}

	return containerConfig, hostConfig, nil
}

// List returns all launcher-managed containers, including stopped ones.
func (r *Runtime) List(ctx context.Context) ([]Workbench, error) {
	containers, err := r.client.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("label", fmt.Sprintf("%s=true", managedLabel)),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	workbenches := make([]Workbench, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}

		port := 0
		for _, p := range c.Ports {
			if p.PrivatePort == launch.ContainerPort {
				port = int(p.PublicPort)
				break
			}
		}

		image := c.Labels[imageLabel]
		if image == "" {
			image = c.Image
		}

		workbenches = append(workbenches, Workbench{
			ID:        c.ID,
			Name:      name,
			Image:     image,
			State:     c.State,
			CreatedAt: time.Unix(c.Created, 0),
			Port:      port,
		})
	}

	return workbenches, nil
}

// Stop gracefully stops a managed container by name.
func (r *Runtime) Stop(ctx context.Context, name string) error {
	wb, err := r.find(ctx, name)
	if err != nil {
		return err
	}

	logger.Info("Stopping workbench container: %s (%s)", name, wb.ID[:12])

	timeout := stopTimeoutSeconds
	if err := r.client.ContainerStop(ctx, wb.ID, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", name, err)
	}

	return nil
}

// Remove force-removes a managed container by name, volumes included.
func (r *Runtime) Remove(ctx context.Context, name string) error {
	wb, err := r.find(ctx, name)
	if err != nil {
		return err
	}

	logger.Info("Removing workbench container: %s (%s)", name, wb.ID[:12])

	opts := container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}
	if err := r.client.ContainerRemove(ctx, wb.ID, opts); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}

	return nil
}

// Logs streams logs from a managed container. The caller must close the
// returned reader. Output includes Docker's stream-multiplexing headers
// unless the container was started with a TTY.
func (r *Runtime) Logs(ctx context.Context, name string, follow bool) (io.ReadCloser, error) {
	wb, err := r.find(ctx, name)
	if err != nil {
		return nil, err
	}

	reader, err := r.client.ContainerLogs(ctx, wb.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
		Timestamps: true,
		Tail:       "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get container logs: %w", err)
	}

	return reader, nil
}

// find locates a managed container by name.
func (r *Runtime) find(ctx context.Context, name string) (*Workbench, error) {
	workbenches, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range workbenches {
		if workbenches[i].Name == name {
			return &workbenches[i], nil
		}
	}

	return nil, fmt.Errorf("workbench container not found: %s", name)
}
