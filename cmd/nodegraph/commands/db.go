package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/db"
	"github.com/teranos/nodegraph/display"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Manage nodegraph database",
	Long: sym.DB + ` db - Inspect the nodegraph database

Examples:
  nodegraph db stats              # Row counts
  nodegraph db stats --json       # Row counts as JSON`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display schema version plus node, tag, node-tag and link counts",
	RunE:  runDbStats,
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "Custom database path (overrides config)")
	dbStatsCmd.Flags().Bool("json", false, "Output statistics as JSON")
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	database, path, err := openDatabase(dbPathFlag)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	stats, err := graph.NewStore(database, logger.Logger).Stats(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "failed to query database stats")
	}
	schema, err := db.SchemaVersion(database)
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{
			"path":   path,
			"schema": schema,
			"stats":  stats,
		})
	}

	fmt.Printf("%s Database Statistics\n", sym.DB)
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Path", "Schema", "Nodes", "Tags", "Node tags", "Links"},
		{
			path,
			schema,
			fmt.Sprintf("%d", stats.Nodes),
			fmt.Sprintf("%d", stats.Tags),
			fmt.Sprintf("%d", stats.NodeTags),
			fmt.Sprintf("%d", stats.Links),
		},
	}).Render()
}
