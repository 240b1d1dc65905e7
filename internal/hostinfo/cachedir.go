package hostinfo

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// cacheDirProgram is the one-line query executed by the Python interpreter.
// The jukemir package exposes its cache location as a module-level constant.
const cacheDirProgram = "from jukemir import CACHE_DIR; print(CACHE_DIR)"

// PythonCacheDir resolves the cache directory by asking the installed
// jukemir Python package for its CACHE_DIR constant.
//
// This mirrors how the workbench scripts have always located the cache: the
// Python package is the single source of truth, and the launcher delegates
// to it rather than duplicating the path logic. If the package is not
// installed (import error, missing interpreter), resolution fails with
// ErrConfigUnavailable and the launch aborts.
type PythonCacheDir struct {
	// Python is the interpreter binary to invoke, e.g. "python3".
	Python string

	// Override, when non-empty, is returned directly without invoking the
	// interpreter. Used for hosts where jukemir is only installed inside
	// the container.
	Override string
}

// CacheDir implements CacheDirProvider.
func (p *PythonCacheDir) CacheDir() (string, error) {
	if p.Override != "" {
		return p.Override, nil
	}

	python := p.Python
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, "-c", cacheDirProgram)
	output, err := cmd.Output()
	if err != nil {
		// Include the interpreter's stderr so import errors are visible.
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s: %s", ErrConfigUnavailable, python,
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%w: %s: %v", ErrConfigUnavailable, python, err)
	}

	dir := strings.TrimSpace(string(output))
	if dir == "" {
		return "", fmt.Errorf("%w: provider returned an empty path", ErrConfigUnavailable)
	}
	if !filepath.IsAbs(dir) {
		return "", fmt.Errorf("%w: provider returned a relative path: %q", ErrConfigUnavailable, dir)
	}

	return dir, nil
}
