package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/bootstrap/config"
)

func init() {
	runtime.LockOSThread()
}

type flags struct {
	configPath string
	envFile    string
	validation bool
	logLevel   string
	width      int
	height     int
}

func newRootCommand(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:           "hello_swapchain",
		Short:         "Open a window and negotiate a device and swapchain for it",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}
			return run(cfg, logger)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "TOML configuration file")
	pf.StringVar(&f.envFile, "env-file", "", "file of BOOTSTRAP_* variables to load")
	pf.BoolVar(&f.validation, "validation", false, "enable validation layers")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (overrides the configuration)")
	pf.IntVar(&f.width, "width", 0, "window width")
	pf.IntVar(&f.height, "height", 0, "window height")

	root.AddCommand(newDevicesCommand(f))
	return root
}

// loadConfig layers defaults, the config file, the environment and finally
// any flag set on the command line.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, *log.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.ApplyEnv(f.envFile); err != nil {
		return cfg, nil, err
	}

	changed := cmd.Flags().Changed
	if changed("validation") {
		cfg.Instance.EnableValidationLayers = f.validation
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("width") {
		cfg.Window.Width = f.width
	}
	if changed("height") {
		cfg.Window.Height = f.height
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return cfg, nil, err
	}
	logger.WithField("config", f.configPath).Debug("configuration loaded")
	return cfg, logger, nil
}

func main() {
	if err := newRootCommand(&flags{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", errors.WithStack(err))
		os.Exit(1)
	}
}
