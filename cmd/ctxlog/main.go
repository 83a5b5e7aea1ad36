// Package main implements the ctxlog CLI for emitting records through the
// logging facade and inspecting its configuration.
package main

import (
	"os"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML configuration file
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ctxlog",
	Short: "Contextual logging facade CLI",
	Long: `ctxlog emits log records through the contextual logging facade and shows
how it is configured.

Configuration is read from defaults, an optional YAML file and LOG_*
environment variables, in increasing order of precedence.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(levelsCmd)
}

// loadConfig resolves configuration for a command.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
