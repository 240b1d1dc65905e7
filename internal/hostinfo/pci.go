package hostinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// pciDevicesPath is the standard sysfs location for PCI devices on Linux.
	pciDevicesPath = "/sys/bus/pci/devices"

	// nvidiaVendorID is the PCI vendor ID assigned to NVIDIA.
	nvidiaVendorID = "0x10de"

	// displayClassPrefix matches PCI class codes for VGA and 3D controllers
	// (0x0300xx and 0x0302xx).
	displayClassPrefix = "0x03"
)

// PCIGPU describes a GPU found by scanning the PCI bus directly.
//
// The scan is a fallback for the info command on hosts where the driver
// tooling is not installed: it can confirm hardware is present even when
// nvidia-smi cannot run. It does not yield the stable device identifiers a
// launch needs, so the launcher never uses it for composition.
type PCIGPU struct {
	// BusAddress is the PCI bus address, e.g. "0000:01:00.0".
	BusAddress string

	// VendorID is the PCI vendor ID, e.g. "0x10de".
	VendorID string

	// DeviceID is the PCI device ID.
	DeviceID string
}

// ScanPCIGPUs scans sysfs for NVIDIA display controllers.
func ScanPCIGPUs() ([]PCIGPU, error) {
	if _, err := os.Stat(pciDevicesPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("PCI devices path not found: %s", pciDevicesPath)
	}

	entries, err := os.ReadDir(pciDevicesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PCI devices: %w", err)
	}

	var gpus []PCIGPU
	for _, entry := range entries {
		devicePath := filepath.Join(pciDevicesPath, entry.Name())

		vendor, err := readSysfsValue(filepath.Join(devicePath, "vendor"))
		if err != nil || vendor != nvidiaVendorID {
			continue
		}

		class, err := readSysfsValue(filepath.Join(devicePath, "class"))
		if err != nil || !strings.HasPrefix(class, displayClassPrefix) {
			continue
		}

		device, err := readSysfsValue(filepath.Join(devicePath, "device"))
		if err != nil {
			continue
		}

		gpus = append(gpus, PCIGPU{
			BusAddress: entry.Name(),
			VendorID:   vendor,
			DeviceID:   device,
		})
	}

	return gpus, nil
}

// readSysfsValue reads a single trimmed line from a sysfs attribute file.
func readSysfsValue(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
