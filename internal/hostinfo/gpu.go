package hostinfo

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"
)

// NvidiaSMI resolves installed GPUs by parsing `nvidia-smi -L`.
//
// The listing prints one line per device:
//
//	GPU 0: NVIDIA GeForce RTX 3090 (UUID: GPU-d2c2c943-...)
//
// The device identifier is the last whitespace-separated field with its
// single trailing delimiter stripped. Pinning the container to UUIDs rather
// than indices keeps the launch stable when other processes reorder device
// enumeration.
type NvidiaSMI struct {
	// Binary overrides the nvidia-smi path. Empty means look up "nvidia-smi"
	// in PATH.
	Binary string
}

// GPUIDs implements GPUListProvider.
//
// A host without the tool installed fails with ErrGPUQueryFailed; a host
// where the tool runs but reports no devices returns an empty slice, which
// callers treat per their no-GPU policy.
func (n *NvidiaSMI) GPUIDs() ([]string, error) {
	binary := n.Binary
	if binary == "" {
		binary = "nvidia-smi"
	}

	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%w: %s not found in PATH", ErrGPUQueryFailed, binary)
	}

	output, err := exec.Command(binary, "-L").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s -L: %v", ErrGPUQueryFailed, binary, err)
	}

	ids, err := ParseDeviceList(string(output))
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ParseDeviceList extracts device identifiers from `nvidia-smi -L` output.
//
// Exported separately from the provider so it can be tested against
// captured listings without the tool installed.
func ParseDeviceList(output string) ([]string, error) {
	var ids []string

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		// A device line has at least "GPU <index>: <identifier>".
		if len(fields) < 3 || fields[0] != "GPU" {
			return nil, fmt.Errorf("%w: unexpected device line: %q", ErrGPUQueryFailed, line)
		}

		token := fields[len(fields)-1]
		if len(token) < 2 {
			return nil, fmt.Errorf("%w: malformed device identifier: %q", ErrGPUQueryFailed, token)
		}

		// Strip the single trailing delimiter, e.g. the closing paren of
		// "(UUID: GPU-...)".
		ids = append(ids, token[:len(token)-1])
	}

	return ids, nil
}
