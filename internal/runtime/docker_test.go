package runtime

import (
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/launch"
)

func testInvocation() *launch.Invocation {
	return &launch.Invocation{
		Name:        "jukemir",
		Image:       "jukemir/jukemir:latest",
		CPUSet:      "0,2,3",
		GPUDevices:  "UUID-A,UUID-B",
		User:        "1000:1000",
		Mounts:      []launch.Mount{{Source: "/home/u/.cache/jukemir", Target: "/jukemir/cache"}},
		Port:        8888,
		Interactive: true,
		AutoRemove:  true,
		Detach:      true,
		Command:     []string{"bash"},
	}
}

func TestAPIConfig(t *testing.T) {
	containerConfig, hostConfig, err := apiConfig(testInvocation())
	require.NoError(t, err)

	assert.Equal(t, "jukemir/jukemir:latest", containerConfig.Image)
	assert.Equal(t, "1000:1000", containerConfig.User)
	assert.Equal(t, []string{"bash"}, []string(containerConfig.Cmd))
	assert.True(t, containerConfig.Tty)
	assert.True(t, containerConfig.OpenStdin)
	assert.Equal(t, "true", containerConfig.Labels[managedLabel])

	assert.True(t, hostConfig.AutoRemove)
	assert.Equal(t, "0,2,3", hostConfig.Resources.CpusetCpus)

	require.Len(t, hostConfig.Mounts, 1)
	assert.Equal(t, mount.TypeBind, hostConfig.Mounts[0].Type)
	assert.Equal(t, "/home/u/.cache/jukemir", hostConfig.Mounts[0].Source)
	assert.Equal(t, "/jukemir/cache", hostConfig.Mounts[0].Target)
}

func TestAPIConfigGPUDeviceRequest(t *testing.T) {
	_, hostConfig, err := apiConfig(testInvocation())
	require.NoError(t, err)

	require.Len(t, hostConfig.Resources.DeviceRequests, 1)
	req := hostConfig.Resources.DeviceRequests[0]
	assert.Equal(t, "nvidia", req.Driver)
	assert.Equal(t, []string{"UUID-A", "UUID-B"}, req.DeviceIDs)
	assert.Equal(t, [][]string{{"gpu"}}, req.Capabilities)
}

func TestAPIConfigNoGPUOmitsDeviceRequest(t *testing.T) {
	inv := testInvocation()
	inv.GPUDevices = ""

	_, hostConfig, err := apiConfig(inv)
	require.NoError(t, err)

	// No restriction at all rather than an empty device list, which some
	// runtimes reject.
	assert.Empty(t, hostConfig.Resources.DeviceRequests)
}

func TestAPIConfigPortBinding(t *testing.T) {
	_, hostConfig, err := apiConfig(testInvocation())
	require.NoError(t, err)

	port := nat.Port("8888/tcp")
	bindings, ok := hostConfig.PortBindings[port]
	require.True(t, ok)
	require.Len(t, bindings, 1)
	assert.Equal(t, "8888", bindings[0].HostPort)
}

func TestAttachOptions(t *testing.T) {
	inv := testInvocation()

	opts := attachOptions(inv)
	assert.True(t, opts.Stream)
	assert.True(t, opts.Stdin)
	assert.True(t, opts.Stdout)
	assert.True(t, opts.Stderr)

	inv.Interactive = false
	opts = attachOptions(inv)
	assert.False(t, opts.Stdin, "stdin must not be forwarded to a non-interactive container")
	assert.True(t, opts.Stdout)
}

func TestWaitCondition(t *testing.T) {
	inv := testInvocation()

	assert.Equal(t, container.WaitConditionRemoved, waitCondition(inv))

	inv.AutoRemove = false
	assert.Equal(t, container.WaitConditionNextExit, waitCondition(inv))
}
