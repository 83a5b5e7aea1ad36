package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd prints the resolved configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as JSON",
	Long: `Print the configuration after defaults, the optional YAML file and LOG_*
environment variables have been applied and validated.

Examples:
  ctxlog config
  LOG_ADAPTER=zerolog LOG_LEVEL=debug ctxlog config`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
