package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/hostinfo"
	"github.com/hugofloresgarcia/simplified-jukemir/internal/launch"
)

// InfoOptions holds options for the info command
type InfoOptions struct {
	*GlobalOptions
}

// NewInfoCommand creates the info command.
//
// The info command shows exactly what a launch would resolve from this
// host: the cache directory, the CPU affinity set, and the GPU devices.
// It is the diagnostic to run when 'jukemir run' fails a resolution step.
// Unlike run, info keeps going past individual failures so the whole
// picture is reported at once.
func NewInfoCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &InfoOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show resolved host configuration",
		Long: `Show the host configuration a launch would resolve.

Reports the jukemir cache directory, the CPU affinity set of this process,
the host CPU inventory, and the installed GPU devices. When the NVIDIA
management tool is unavailable, falls back to a PCI bus scan to at least
confirm whether GPU hardware is present.`,
		Example: `  jukemir info`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(opts)
		},
	}

	return cmd
}

// runInfo executes the info command logic
func runInfo(opts *InfoOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	host := hostinfo.NewInspector(cfg.PythonBin, cfg.CacheDir)

	fmt.Printf("Image:          %s\n", cfg.ImageRef())
	fmt.Printf("Container name: %s\n", cfg.ContainerName)
	fmt.Printf("Notebook port:  %d\n", cfg.Port)
	fmt.Println()

	if cacheDir, err := host.Cache.CacheDir(); err != nil {
		fmt.Printf("Cache dir:      unavailable (%v)\n", err)
	} else {
		fmt.Printf("Cache dir:      %s -> %s\n", cacheDir, launch.ContainerCacheDir)
	}

	if cpuSet, err := host.CPU.CPUSet(); err != nil {
		fmt.Printf("CPU affinity:   unavailable (%v)\n", err)
	} else {
		cpus := make([]string, len(cpuSet))
		for i, id := range cpuSet {
			cpus[i] = fmt.Sprintf("%d", id)
		}
		fmt.Printf("CPU affinity:   %s (%d CPUs)\n", strings.Join(cpus, ","), len(cpuSet))
	}

	if inv, err := hostinfo.ReadCPUInventory(); err == nil {
		if inv.ModelName != "" {
			fmt.Printf("CPU model:      %s\n", inv.ModelName)
		}
		fmt.Printf("Logical CPUs:   %d\n", inv.Logical)
	}

	printGPUInfo(host)

	return nil
}

// printGPUInfo reports GPU devices, falling back to a PCI scan when the
// management tool is unavailable.
func printGPUInfo(host *hostinfo.Inspector) {
	gpuIDs, err := host.GPU.GPUIDs()
	if err == nil {
		if len(gpuIDs) == 0 {
			fmt.Println("GPUs:           none detected")
			return
		}
		for i, id := range gpuIDs {
			fmt.Printf("GPU %d:          %s\n", i, id)
		}
		return
	}

	if !errors.Is(err, hostinfo.ErrGPUQueryFailed) {
		fmt.Printf("GPUs:           unavailable (%v)\n", err)
		return
	}

	// nvidia-smi is missing or broken; check the PCI bus directly so a
	// driver problem is distinguishable from absent hardware.
	pciGPUs, scanErr := hostinfo.ScanPCIGPUs()
	if scanErr != nil || len(pciGPUs) == 0 {
		fmt.Printf("GPUs:           unavailable (%v)\n", err)
		return
	}

	fmt.Printf("GPUs:           %d NVIDIA device(s) on the PCI bus, but the "+
		"management tool failed (%v)\n", len(pciGPUs), err)
	for _, gpu := range pciGPUs {
		fmt.Printf("  %s  device %s\n", gpu.BusAddress, gpu.DeviceID)
	}
}
