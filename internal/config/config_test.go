package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLaunchEnv(t *testing.T) {
	t.Helper()
	for _, envVar := range envBindings {
		t.Setenv(envVar, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearLaunchEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultContainerName, cfg.ContainerName)
	assert.Equal(t, DefaultContainerName, cfg.ImageName)
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultTag, cfg.Tag)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultPythonBin, cfg.PythonBin)
	assert.Empty(t, cfg.CacheDir)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearLaunchEnv(t)
	t.Setenv("DOCKER_NAME", "workbench")
	t.Setenv("DOCKER_NAMESPACE", "mir-lab")
	t.Setenv("DOCKER_TAG", "v2")
	t.Setenv("JUKEMIR_PORT", "9999")
	t.Setenv("JUKEMIR_CACHE_DIR", "/scratch/jukemir")
	t.Setenv("JUKEMIR_PYTHON", "python3.11")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "workbench", cfg.ContainerName)
	assert.Equal(t, "workbench", cfg.ImageName)
	assert.Equal(t, "mir-lab", cfg.Namespace)
	assert.Equal(t, "v2", cfg.Tag)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "/scratch/jukemir", cfg.CacheDir)
	assert.Equal(t, "python3.11", cfg.PythonBin)
}

func TestImageRef(t *testing.T) {
	cfg := &Config{ImageName: "workbench", Namespace: "mir-lab", Tag: "v2"}

	assert.Equal(t, "mir-lab/workbench:v2", cfg.ImageRef())
}

func TestImageRefIndependentOfContainerName(t *testing.T) {
	cfg := &Config{
		ContainerName: "my-bench",
		ImageName:     "jukemir",
		Namespace:     "jukemir",
		Tag:           "latest",
	}

	assert.Equal(t, "jukemir/jukemir:latest", cfg.ImageRef())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ContainerName: "jukemir",
			ImageName:     "jukemir",
			Namespace:     "jukemir",
			Tag:           "latest",
			Port:          8888,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "empty name", mutate: func(c *Config) { c.ContainerName = "" }, wantErr: true},
		{name: "empty image name", mutate: func(c *Config) { c.ImageName = "" }, wantErr: true},
		{name: "whitespace in image name", mutate: func(c *Config) { c.ImageName = "my bench" }, wantErr: true},
		{name: "empty namespace", mutate: func(c *Config) { c.Namespace = "" }, wantErr: true},
		{name: "empty tag", mutate: func(c *Config) { c.Tag = "" }, wantErr: true},
		{name: "whitespace in tag", mutate: func(c *Config) { c.Tag = "v 2" }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
