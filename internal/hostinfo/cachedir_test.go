package hostinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInterpreter writes an executable script that ignores its arguments
// and behaves like a Python interpreter answering the cache-dir query.
func stubInterpreter(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "python3")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755)
	require.NoError(t, err)

	return path
}

func TestPythonCacheDirOverride(t *testing.T) {
	provider := &PythonCacheDir{Python: "does-not-matter", Override: "/custom/cache"}

	dir, err := provider.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/cache", dir)
}

func TestPythonCacheDirQuery(t *testing.T) {
	provider := &PythonCacheDir{
		Python: stubInterpreter(t, "echo /home/u/.cache/jukemir"),
	}

	dir, err := provider.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.cache/jukemir", dir)
}

func TestPythonCacheDirMissingInterpreter(t *testing.T) {
	provider := &PythonCacheDir{Python: "python3-definitely-not-installed"}

	_, err := provider.CacheDir()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigUnavailable)
}

func TestPythonCacheDirImportError(t *testing.T) {
	provider := &PythonCacheDir{
		Python: stubInterpreter(t, "echo \"ModuleNotFoundError: No module named 'jukemir'\" >&2; exit 1"),
	}

	_, err := provider.CacheDir()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigUnavailable)
	assert.Contains(t, err.Error(), "ModuleNotFoundError")
}

func TestPythonCacheDirEmptyOutput(t *testing.T) {
	provider := &PythonCacheDir{Python: stubInterpreter(t, "true")}

	_, err := provider.CacheDir()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigUnavailable)
}

func TestPythonCacheDirRelativePath(t *testing.T) {
	provider := &PythonCacheDir{Python: stubInterpreter(t, "echo cache/jukemir")}

	_, err := provider.CacheDir()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigUnavailable)
}
