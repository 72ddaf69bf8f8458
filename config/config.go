// Package config holds the settings for a bootstrap run. Values start from
// Default and are overridden, in order, by a TOML file, the environment and
// command-line flags.
package config

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bootstrap/negotiate"
)

// EnvPrefix starts the name of every environment variable ApplyEnv reads.
const EnvPrefix = "BOOTSTRAP_"

type Config struct {
	Window    Window    `toml:"window"`
	Instance  Instance  `toml:"instance"`
	Device    Device    `toml:"device"`
	Swapchain Swapchain `toml:"swapchain"`
	Log       Log       `toml:"log"`
}

// Window configures the SDL window the swapchain presents to.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Instance struct {
	ApplicationName        string   `toml:"application_name"`
	EnableValidationLayers bool     `toml:"enable_validation_layers"`
	ValidationLayers       []string `toml:"validation_layers"`
}

type Device struct {
	// Extensions must all be supported for a device to be selected.
	Extensions []string `toml:"extensions"`
	// OptionalExtensions are enabled only when the selected device has them.
	OptionalExtensions []string `toml:"optional_extensions"`
	// Requirements name device predicates, see negotiate.PredicateNames.
	Requirements      []string `toml:"requirements"`
	SamplerAnisotropy bool     `toml:"sampler_anisotropy"`
}

type Swapchain struct {
	PreferredFormat      string `toml:"preferred_format"`
	PreferredPresentMode string `toml:"preferred_present_mode"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "Hello Swapchain",
			Width:  800,
			Height: 600,
		},
		Instance: Instance{
			ApplicationName:  "Hello Swapchain",
			ValidationLayers: []string{negotiate.KhronosValidationLayerName},
		},
		Device: Device{
			Extensions:         []string{negotiate.SwapchainExtensionName},
			OptionalExtensions: []string{negotiate.PortabilitySubsetExtensionName},
		},
		Swapchain: Swapchain{
			PreferredFormat:      negotiate.DefaultSurfaceFormat.Format.String(),
			PreferredPresentMode: negotiate.DefaultPresentMode.String(),
		},
		Log: Log{
			Level:  logrus.InfoLevel.String(),
			Format: "text",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path returns the defaults unchanged. Keys the file sets replace the
// default value entirely, lists included.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// ApplyEnv overrides c from BOOTSTRAP_* environment variables. If envFile is
// not empty it is loaded first; variables already set in the process
// environment take precedence over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return errors.Wrapf(err, "load env file %s", envFile)
		}
	}
	envy.Reload()

	if v := lookup("TITLE"); v != "" {
		c.Window.Title = v
	}
	if err := envInt("WIDTH", &c.Window.Width); err != nil {
		return err
	}
	if err := envInt("HEIGHT", &c.Window.Height); err != nil {
		return err
	}
	if err := envBool("VALIDATION", &c.Instance.EnableValidationLayers); err != nil {
		return err
	}
	envList("VALIDATION_LAYERS", &c.Instance.ValidationLayers)
	envList("DEVICE_EXTENSIONS", &c.Device.Extensions)
	envList("OPTIONAL_DEVICE_EXTENSIONS", &c.Device.OptionalExtensions)
	envList("REQUIREMENTS", &c.Device.Requirements)
	if err := envBool("SAMPLER_ANISOTROPY", &c.Device.SamplerAnisotropy); err != nil {
		return err
	}
	if v := lookup("FORMAT"); v != "" {
		c.Swapchain.PreferredFormat = v
	}
	if v := lookup("PRESENT_MODE"); v != "" {
		c.Swapchain.PreferredPresentMode = v
	}
	if v := lookup("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := lookup("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

func lookup(name string) string {
	return strings.TrimSpace(envy.Get(EnvPrefix+name, ""))
}

func envInt(name string, dst *int) error {
	v := lookup(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "%s%s", EnvPrefix, name)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v := lookup(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(err, "%s%s", EnvPrefix, name)
	}
	*dst = b
	return nil
}

// envList splits a comma separated variable. A variable set to "-" clears
// the list.
func envList(name string, dst *[]string) {
	v := lookup(name)
	switch v {
	case "":
		return
	case "-":
		*dst = nil
		return
	}

	var list []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	*dst = list
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, errors.Newf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Instance.EnableValidationLayers {
		errs = append(errs, checkNames("validation layer", c.Instance.ValidationLayers)...)
	}
	errs = append(errs, checkNames("device extension", c.Device.Extensions)...)
	errs = append(errs, checkNames("optional device extension", c.Device.OptionalExtensions)...)
	if _, err := negotiate.PredicatesByName(c.Device.Requirements); err != nil {
		errs = append(errs, err)
	}
	if _, ok := negotiate.ParseFormat(c.Swapchain.PreferredFormat); !ok {
		errs = append(errs, errors.Newf("unknown surface format %q", c.Swapchain.PreferredFormat))
	}
	if _, ok := negotiate.ParsePresentMode(c.Swapchain.PreferredPresentMode); !ok {
		errs = append(errs, errors.Newf("unknown present mode %q", c.Swapchain.PreferredPresentMode))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, errors.Newf("unknown log format %q", c.Log.Format))
	}

	return errors.Wrap(errors.Join(errs...), "invalid configuration")
}

func checkNames(kind string, names []string) []error {
	var errs []error
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.Newf("%s %d is empty", kind, i))
		}
	}
	return errs
}

// Options converts c into the options the negotiation pipeline takes. c
// should have passed Validate.
func (c Config) Options() (negotiate.Options, error) {
	opts := negotiate.DefaultOptions()

	format, ok := negotiate.ParseFormat(c.Swapchain.PreferredFormat)
	if !ok {
		return opts, errors.Newf("unknown surface format %q", c.Swapchain.PreferredFormat)
	}
	mode, ok := negotiate.ParsePresentMode(c.Swapchain.PreferredPresentMode)
	if !ok {
		return opts, errors.Newf("unknown present mode %q", c.Swapchain.PreferredPresentMode)
	}
	predicates, err := negotiate.PredicatesByName(c.Device.Requirements)
	if err != nil {
		return opts, err
	}

	opts.EnableValidationLayers = c.Instance.EnableValidationLayers
	opts.ValidationLayers = c.Instance.ValidationLayers
	opts.DeviceExtensions = c.Device.Extensions
	opts.OptionalDeviceExtensions = c.Device.OptionalExtensions
	opts.DevicePredicates = predicates
	opts.EnabledFeatures.SamplerAnisotropy = c.Device.SamplerAnisotropy
	opts.Swapchain.PreferredFormat.Format = format
	opts.Swapchain.PreferredPresentMode = mode
	opts.FallbackExtent = negotiate.Extent2D{Width: uint32(c.Window.Width), Height: uint32(c.Window.Height)}
	return opts, nil
}

// Logger builds a logger with the configured level and format.
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	logger := logrus.New()
	logger.SetLevel(level)
	switch c.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Newf("unknown log format %q", c.Log.Format)
	}
	return logger, nil
}
