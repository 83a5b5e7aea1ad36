package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fyrsmithlabs/ctxlog/internal/logging"
	"github.com/spf13/cobra"
)

var levelsJSON bool

func init() {
	levelsCmd.Flags().BoolVar(&levelsJSON, "json", false, "output as JSON")
}

// levelsCmd prints how log methods map onto each adapter
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show how log methods map to adapter levels",
	Long: `Show the native level each adapter writes for every log method. A "-"
means the adapter does not provide the method.

Examples:
  ctxlog levels
  ctxlog levels --json`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	mappings := logging.LevelMappings()

	if levelsJSON {
		out, err := json.MarshalIndent(mappings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode levels: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tZAP\tZEROLOG")
	for _, m := range mappings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Method, m.Zap, m.Zerolog)
	}
	return w.Flush()
}
