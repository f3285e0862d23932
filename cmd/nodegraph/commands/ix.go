package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/display"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/sym"
)

// IxCmd imports a graph file into the database
var IxCmd = &cobra.Command{
	Use:   "ix <file>",
	Short: sym.IX + " Import a graph file",
	Long: sym.IX + ` ix - Import notes, tags and links.

The file format follows the extension: .json, .yaml/.yml or .toml.
Nodes and tags without an id get one derived from their name. Existing
rows with the same id are updated.

Examples:
  nodegraph ix notes.yaml
  nodegraph ix export.json --db-path tmp/notes.db`,
	Args: cobra.ExactArgs(1),
	RunE: runIx,
}

var ixDBPath string

func init() {
	IxCmd.Flags().StringVar(&ixDBPath, "db-path", "", "Custom database path (overrides config)")
	IxCmd.Flags().Bool("json", false, "Output the import result as JSON")
}

func runIx(cmd *cobra.Command, args []string) error {
	g, err := graph.ReadImportFile(args[0])
	if err != nil {
		return err
	}

	database, path, err := openDatabase(ixDBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	res, err := graph.NewStore(database, logger.AddIXSymbol(logger.Logger)).Import(cmd.Context(), g)
	if err != nil {
		return errors.Wrapf(err, "failed to import %s", args[0])
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(res)
	}
	pterm.Success.Printf("%s Imported %d nodes, %d tags, %d links into %s (%s)\n",
		sym.IX, res.Nodes, res.Tags, res.Links, path, res.Duration)
	return nil
}
