// Package hostinfo provides host hardware and cache introspection for the
// jukemir launcher.
//
// This package answers the three questions a workbench launch needs from the
// host, each behind a narrow interface so commands can be tested with fakes:
//   - Where is the jukemir cache directory? (CacheDirProvider)
//   - Which CPUs may this process run on? (CPUAffinityProvider)
//   - Which GPU devices are installed? (GPUListProvider)
//
// Each query is a one-shot synchronous read of host state with no retry and
// no caching; every launch re-queries the host fresh.
package hostinfo

import "errors"

// Resolution failures are terminal for a launch. Callers match them with
// errors.Is and abort before any container-runtime call is attempted.
var (
	// ErrConfigUnavailable indicates the jukemir configuration provider
	// (the Python package exposing CACHE_DIR) could not be queried.
	ErrConfigUnavailable = errors.New("jukemir configuration unavailable")

	// ErrCPUQueryFailed indicates the host scheduler did not report a CPU
	// affinity set for the current process.
	ErrCPUQueryFailed = errors.New("cpu affinity query failed")

	// ErrGPUQueryFailed indicates the GPU management tool is absent or its
	// output did not match the expected device-listing format.
	ErrGPUQueryFailed = errors.New("gpu device query failed")
)

// CacheDirProvider resolves the jukemir cache directory on the host.
type CacheDirProvider interface {
	// CacheDir returns the absolute cache directory path, or an error
	// wrapping ErrConfigUnavailable.
	CacheDir() (string, error)
}

// CPUAffinityProvider resolves the set of CPUs the current process may be
// scheduled on.
type CPUAffinityProvider interface {
	// CPUSet returns CPU identifiers in the order the host reports them,
	// or an error wrapping ErrCPUQueryFailed.
	CPUSet() ([]int, error)
}

// GPUListProvider resolves the GPU devices installed on the host.
type GPUListProvider interface {
	// GPUIDs returns one device identifier per installed GPU. An empty
	// slice with a nil error means the query succeeded and no GPUs are
	// present. Errors wrap ErrGPUQueryFailed.
	GPUIDs() ([]string, error)
}

// Inspector bundles the three host providers used by a launch.
type Inspector struct {
	Cache CacheDirProvider
	CPU   CPUAffinityProvider
	GPU   GPUListProvider
}

// NewInspector returns an Inspector wired to the real host: the Python
// configuration provider, the Linux scheduler, and nvidia-smi.
//
// pythonBin is the interpreter used for the cache-directory query;
// cacheOverride, when non-empty, short-circuits that query entirely.
func NewInspector(pythonBin, cacheOverride string) *Inspector {
	return &Inspector{
		Cache: &PythonCacheDir{Python: pythonBin, Override: cacheOverride},
		CPU:   &SchedAffinity{},
		GPU:   &NvidiaSMI{},
	}
}
