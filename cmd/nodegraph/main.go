package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/cmd/nodegraph/commands"
	"github.com/teranos/nodegraph/logger"
)

var rootCmd = &cobra.Command{
	Use:   "nodegraph",
	Short: "nodegraph - force-directed graph layout for linked notes",
	Long: `nodegraph - force-directed graph layout and interaction engine.

nodegraph stores notes, tags and links in SQLite, filters them by tag or
neighborhood, and runs a force simulation whose frames stream to browsers
over a websocket.

Available commands:
  am      - Manage nodegraph configuration ("I am")
  db      - Database statistics
  ix      - Import a graph from a json, yaml or toml file
  layout  - Converge a layout headlessly and print node positions
  server  - Start the websocket layout server
  version - Show version information

Examples:
  nodegraph ix notes.yaml                  # Import notes
  nodegraph layout 'tag:work'              # Positions for the work tag
  nodegraph layout --focus n1 -f json      # Detail layout around n1
  nodegraph server --port 8787             # Start the server`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Setup(logger.Options{JSON: jsonLogs, Level: logger.VerbosityToLevel(verbosity)}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of the console format")

	// Add commands
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.IxCmd)
	rootCmd.AddCommand(commands.LayoutCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
