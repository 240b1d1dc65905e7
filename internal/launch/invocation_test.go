package launch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLaunchConfig() *LaunchConfig {
	return &LaunchConfig{
		CacheDir:      "/home/u/.cache/jukemir",
		CPUSet:        []int{0, 2, 3},
		GPUIDs:        []string{"UUID-A", "UUID-B"},
		ContainerName: "jukemir",
		Image:         "jukemir/jukemir:latest",
		Port:          8888,
		UID:           1000,
		GID:           1000,
		Mounts: []Mount{
			{Source: "/home/u/.cache/jukemir", Target: ContainerCacheDir},
			{Source: "/work/jukemir", Target: ContainerSourceDir},
		},
		Detach:  true,
		Command: []string{"bash"},
	}
}

func TestComposeCPUSetFlag(t *testing.T) {
	inv := Compose(testLaunchConfig())

	// Order-preserving, comma-joined, no spaces.
	assert.Equal(t, "0,2,3", inv.CPUSet)
}

func TestComposeGPUDevices(t *testing.T) {
	inv := Compose(testLaunchConfig())

	assert.Equal(t, "UUID-A,UUID-B", inv.GPUDevices)
}

func TestComposeUserMapping(t *testing.T) {
	inv := Compose(testLaunchConfig())

	assert.Equal(t, "1000:1000", inv.User)
}

func TestComposeNoGPUOmitsFlag(t *testing.T) {
	lc := testLaunchConfig()
	lc.GPUIDs = nil

	inv := Compose(lc)
	assert.Empty(t, inv.GPUDevices)

	args := inv.Args()
	assert.NotContains(t, args, "--gpus")
}

func TestComposeArgs(t *testing.T) {
	inv := Compose(testLaunchConfig())

	expected := []string{
		"run",
		"-it",
		"--rm",
		"-d",
		"--name", "jukemir",
		"--cpuset-cpus", "0,2,3",
		"--gpus", "device=UUID-A,UUID-B",
		"-u", "1000:1000",
		"-v", "/home/u/.cache/jukemir:/jukemir/cache",
		"-v", "/work/jukemir:/jukemir/jukemir",
		"-p", "8888:8888",
		"jukemir/jukemir:latest",
		"bash",
	}
	assert.Equal(t, expected, inv.Args())
}

func TestComposeCacheMountAppearsOnce(t *testing.T) {
	inv := Compose(testLaunchConfig())

	count := 0
	for _, arg := range inv.Args() {
		if arg == "/home/u/.cache/jukemir:/jukemir/cache" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestComposeReadOnlyMountRendering(t *testing.T) {
	lc := testLaunchConfig()
	lc.Mounts = []Mount{{Source: "/src", Target: "/dst", ReadOnly: true}}

	inv := Compose(lc)
	assert.Contains(t, inv.Args(), "/src:/dst:ro")
}

func TestComposeForegroundOmitsDetach(t *testing.T) {
	lc := testLaunchConfig()
	lc.Detach = false

	args := Compose(lc).Args()
	assert.NotContains(t, args, "-d")
	assert.Contains(t, args, "-it")
	assert.Contains(t, args, "--rm")
}

func TestComposeDeterministic(t *testing.T) {
	lc := testLaunchConfig()

	first := Compose(lc)
	second := Compose(lc)

	// Identical inputs yield byte-identical invocations.
	require.Equal(t, first, second)
	assert.Equal(t, first.String(), second.String())
}

func TestComposeDoesNotAliasInput(t *testing.T) {
	lc := testLaunchConfig()
	inv := Compose(lc)

	lc.Mounts[0].Source = "/mutated"
	lc.Command[0] = "sh"

	assert.Equal(t, "/home/u/.cache/jukemir", inv.Mounts[0].Source)
	assert.Equal(t, []string{"bash"}, inv.Command)
}

func TestInvocationString(t *testing.T) {
	s := Compose(testLaunchConfig()).String()

	assert.True(t, strings.HasPrefix(s, "docker run "))
	assert.Contains(t, s, "--cpuset-cpus 0,2,3")
	assert.Contains(t, s, "--gpus device=UUID-A,UUID-B")
}
