package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dot5enko/pointindex/manager"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "pointindex",
	Short: "Multidimensional point index benchmark",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug level logs")

	rootCmd.AddCommand(runCmd, genCmd, inspectCmd)
}

// configFromFlags starts from DefaultConfig or --config and applies every flag the user set.
func configFromFlags(fs *pflag.FlagSet, path string, apply func(c *manager.Config)) (manager.Config, error) {

	config := manager.DefaultConfig()

	if path != "" {
		loaded, err := manager.LoadConfig(path)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	// config file values win over flag defaults, explicit flags win over both
	overridden := manager.DefaultConfig()
	apply(&overridden)

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dims":
			config.Dims = overridden.Dims
		case "layout":
			config.Layout = overridden.Layout
		case "gap":
			config.Gap = overridden.Gap
		case "workers":
			config.Workers = overridden.Workers
		case "timeout":
			config.TimeoutMs = overridden.TimeoutMs
		}
	})

	if debug {
		config.Debug = true
	}

	if config.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	return config, config.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %s", err.Error())
		os.Exit(1)
	}
}
