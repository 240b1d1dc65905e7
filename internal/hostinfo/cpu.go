package hostinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sys/unix"
)

// SchedAffinity resolves the CPU set from the Linux scheduler via
// sched_getaffinity(2) on the current process.
//
// The affinity mask, not the total CPU count, is what the workbench
// container should be pinned to: on shared research machines the launcher
// is often started under taskset or a batch scheduler that has already
// restricted it to a slice of the host.
type SchedAffinity struct{}

// CPUSet implements CPUAffinityProvider. CPU identifiers are returned in
// ascending order, which is the order the kernel mask reports them.
func (s *SchedAffinity) CPUSet() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, fmt.Errorf("%w: sched_getaffinity: %v", ErrCPUQueryFailed, err)
	}

	var cpus []int
	for i := 0; i < len(mask)*64; i++ {
		if mask.IsSet(i) {
			cpus = append(cpus, i)
		}
	}

	if len(cpus) == 0 {
		return nil, fmt.Errorf("%w: scheduler reported an empty affinity mask", ErrCPUQueryFailed)
	}

	return cpus, nil
}

// CPUInventory describes the host CPU as reported by gopsutil. Used by the
// info command for display alongside the affinity set.
type CPUInventory struct {
	// ModelName is the CPU model string, e.g. "AMD EPYC 7513".
	ModelName string

	// Logical is the number of logical CPUs on the host.
	Logical int
}

// ReadCPUInventory collects CPU model and count information.
func ReadCPUInventory() (*CPUInventory, error) {
	logical, err := cpu.Counts(true)
	if err != nil {
		return nil, fmt.Errorf("failed to count CPUs: %w", err)
	}

	inv := &CPUInventory{Logical: logical}

	infos, err := cpu.Info()
	if err == nil && len(infos) > 0 {
		inv.ModelName = infos[0].ModelName
	}

	return inv, nil
}
