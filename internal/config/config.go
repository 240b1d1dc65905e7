// Package config provides configuration management for the jukemir launcher.
//
// Launch configuration is sourced from the process environment, mirroring
// the env.sh file the workbench scripts historically used:
//   - DOCKER_NAME      container name for the workbench container
//   - DOCKER_NAMESPACE image namespace (registry org)
//   - DOCKER_TAG       image tag
//
// Additional JUKEMIR_* variables override resolver behavior for testing and
// nonstandard hosts. The environment is captured once into an explicit
// Config value so the rest of the launcher never reads ambient state.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultContainerName is the workbench container name when DOCKER_NAME
	// is unset.
	DefaultContainerName = "jukemir"

	// DefaultNamespace is the image namespace when DOCKER_NAMESPACE is unset.
	DefaultNamespace = "jukemir"

	// DefaultTag is the image tag when DOCKER_TAG is unset.
	DefaultTag = "latest"

	// DefaultPort is the published notebook port. The workbench runs a
	// Jupyter server on 8888 inside the container.
	DefaultPort = 8888

	// DefaultPythonBin is the interpreter used to query the jukemir package
	// for its cache directory.
	DefaultPythonBin = "python3"
)

// Config represents the complete launcher configuration.
//
// A Config is built once per invocation from the environment (see Load) and
// passed explicitly to the composer. It carries no host introspection
// results; those are resolved separately by the hostinfo providers.
type Config struct {
	// ContainerName is the name assigned to the workbench container.
	// Sourced from DOCKER_NAME.
	ContainerName string

	// ImageName is the image repository name within the namespace. The
	// env.sh convention uses the single DOCKER_NAME for both the container
	// and the image, so Load seeds both fields from it; overriding one
	// leaves the other untouched.
	ImageName string

	// Namespace is the image namespace, e.g. "jukemir".
	// Sourced from DOCKER_NAMESPACE.
	Namespace string

	// Tag is the image tag, e.g. "latest".
	// Sourced from DOCKER_TAG.
	Tag string

	// Port is the host port published to the container's notebook port.
	// Sourced from JUKEMIR_PORT.
	Port int

	// CacheDir, when non-empty, bypasses the configuration-provider query
	// and uses this path directly. Sourced from JUKEMIR_CACHE_DIR.
	CacheDir string

	// PythonBin is the interpreter invoked for the cache-directory query.
	// Sourced from JUKEMIR_PYTHON.
	PythonBin string
}

// envBindings maps config keys to the environment variables that feed them.
// DOCKER_* names are kept verbatim for compatibility with existing env.sh
// files; launcher-specific settings use the JUKEMIR_ prefix.
var envBindings = map[string]string{
	"name":      "DOCKER_NAME",
	"namespace": "DOCKER_NAMESPACE",
	"tag":       "DOCKER_TAG",
	"port":      "JUKEMIR_PORT",
	"cache_dir": "JUKEMIR_CACHE_DIR",
	"python":    "JUKEMIR_PYTHON",
}

// Load captures the process environment into a Config.
//
// Unset variables fall back to defaults; no variable is required, so a bare
// environment still produces a usable configuration. Validation of the
// resulting values happens in Validate, which callers should run before
// composing a launch.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("name", DefaultContainerName)
	v.SetDefault("namespace", DefaultNamespace)
	v.SetDefault("tag", DefaultTag)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("cache_dir", "")
	v.SetDefault("python", DefaultPythonBin)

	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", envVar, err)
		}
	}

	cfg := &Config{
		ContainerName: v.GetString("name"),
		ImageName:     v.GetString("name"),
		Namespace:     v.GetString("namespace"),
		Tag:           v.GetString("tag"),
		Port:          v.GetInt("port"),
		CacheDir:      v.GetString("cache_dir"),
		PythonBin:     v.GetString("python"),
	}

	return cfg, nil
}

// Validate checks that the configuration can produce a well-formed image
// reference and port mapping.
func (c *Config) Validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container name must not be empty")
	}
	if c.ImageName == "" {
		return fmt.Errorf("image name must not be empty")
	}
	if c.Namespace == "" {
		return fmt.Errorf("image namespace must not be empty")
	}
	if c.Tag == "" {
		return fmt.Errorf("image tag must not be empty")
	}
	if strings.ContainsAny(c.Namespace+c.ImageName+c.Tag, " \t") {
		return fmt.Errorf("image reference must not contain whitespace")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// ImageRef returns the full image reference composed from the namespace,
// image name, and tag.
//
// Example: "jukemir/jukemir:latest"
func (c *Config) ImageRef() string {
	return fmt.Sprintf("%s/%s:%s", c.Namespace, c.ImageName, c.Tag)
}
