package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/bootstrap/negotiate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Options()
	require.NoError(t, err)

	def := negotiate.DefaultOptions()
	assert.Equal(t, def.DeviceExtensions, opts.DeviceExtensions)
	assert.Equal(t, def.OptionalDeviceExtensions, opts.OptionalDeviceExtensions)
	assert.Equal(t, def.Swapchain, opts.Swapchain)
	assert.Equal(t, def.FallbackExtent, opts.FallbackExtent)
	assert.False(t, opts.EnableValidationLayers)
	assert.Empty(t, opts.DevicePredicates)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, "bootstrap.toml", `
[window]
width = 1280
height = 720

[instance]
enable_validation_layers = true

[device]
extensions = ["VK_KHR_swapchain", "VK_KHR_maintenance1"]
requirements = ["discrete-gpu", "sampler-anisotropy"]
sampler_anisotropy = true

[swapchain]
preferred_present_mode = "FIFO_RELAXED"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "Hello Swapchain", cfg.Window.Title, "keys missing from the file keep their default")
	assert.True(t, cfg.Instance.EnableValidationLayers)
	assert.Equal(t, []string{negotiate.KhronosValidationLayerName}, cfg.Instance.ValidationLayers)
	assert.Equal(t, []string{"VK_KHR_swapchain", "VK_KHR_maintenance1"}, cfg.Device.Extensions)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, negotiate.PresentModeFIFORelaxed, opts.Swapchain.PreferredPresentMode)
	assert.Equal(t, negotiate.FormatB8G8R8A8UNorm, opts.Swapchain.PreferredFormat.Format)
	assert.Equal(t, negotiate.Extent2D{Width: 1280, Height: 720}, opts.FallbackExtent)
	assert.True(t, opts.EnabledFeatures.SamplerAnisotropy)
	require.Len(t, opts.DevicePredicates, 2)
	assert.Equal(t, "discrete-gpu", opts.DevicePredicates[0].Name)
	assert.Equal(t, "sampler-anisotropy", opts.DevicePredicates[1].Name)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "bootstrap.toml", `
[window]
widht = 1280
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BOOTSTRAP_WIDTH", "1920")
	t.Setenv("BOOTSTRAP_VALIDATION", "true")
	t.Setenv("BOOTSTRAP_DEVICE_EXTENSIONS", "VK_KHR_swapchain, VK_EXT_memory_budget")
	t.Setenv("BOOTSTRAP_OPTIONAL_DEVICE_EXTENSIONS", "-")
	t.Setenv("BOOTSTRAP_PRESENT_MODE", "IMMEDIATE")
	t.Setenv("BOOTSTRAP_LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(""))

	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.True(t, cfg.Instance.EnableValidationLayers)
	assert.Equal(t, []string{"VK_KHR_swapchain", "VK_EXT_memory_budget"}, cfg.Device.Extensions)
	assert.Nil(t, cfg.Device.OptionalExtensions)
	assert.Equal(t, "IMMEDIATE", cfg.Swapchain.PreferredPresentMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvFile(t *testing.T) {
	t.Setenv("BOOTSTRAP_HEIGHT", "900")
	path := writeFile(t, ".env", "BOOTSTRAP_TITLE=from file\nBOOTSTRAP_HEIGHT=100\n")
	t.Cleanup(func() { os.Unsetenv("BOOTSTRAP_TITLE") })

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(path))

	assert.Equal(t, "from file", cfg.Window.Title)
	assert.Equal(t, 900, cfg.Window.Height, "the process environment wins over the file")
}

func TestApplyEnvBadNumber(t *testing.T) {
	t.Setenv("BOOTSTRAP_WIDTH", "wide")

	cfg := Default()
	err := cfg.ApplyEnv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOOTSTRAP_WIDTH")
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size 0x600"},
		{"empty extension", func(c *Config) { c.Device.Extensions = []string{"VK_KHR_swapchain", " "} }, "device extension 1 is empty"},
		{"empty optional extension", func(c *Config) { c.Device.OptionalExtensions = []string{""} }, "optional device extension 0 is empty"},
		{"empty layer", func(c *Config) {
			c.Instance.EnableValidationLayers = true
			c.Instance.ValidationLayers = []string{""}
		}, "validation layer 0 is empty"},
		{"unknown predicate", func(c *Config) { c.Device.Requirements = []string{"ray-tracing"} }, "ray-tracing"},
		{"unknown format", func(c *Config) { c.Swapchain.PreferredFormat = "RGB565" }, `unknown surface format "RGB565"`},
		{"unknown present mode", func(c *Config) { c.Swapchain.PreferredPresentMode = "VSYNC" }, `unknown present mode "VSYNC"`},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, `unknown log format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateIgnoresLayersWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Instance.ValidationLayers = []string{""}
	assert.NoError(t, cfg.Validate())
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warning"
	cfg.Log.Format = "json"

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "loud"
	_, err = cfg.Logger()
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Swapchain.PreferredPresentMode = "VSYNC"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "window size 0x600")
	assert.Contains(t, err.Error(), `unknown present mode "VSYNC"`)
}
