package commands

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/sym"
	"github.com/teranos/nodegraph/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity int, dbPath string, port int) {
	versionInfo := version.Get()

	pterm.DefaultHeader.WithFullWidth(false).Printf("%s nodegraph %s", sym.Layout, sym.Graph)
	fmt.Println()

	_ = pterm.DefaultTable.WithData(pterm.TableData{
		{"Version", fmt.Sprintf("%s (commit %s)", versionInfo.Version, versionInfo.Short())},
		{"Built", versionInfo.BuildTime},
		{"Protocol", versionInfo.Protocol},
		{"Verbosity", fmt.Sprintf("%s: %s", logger.LevelName(verbosity), logger.VerbosityDescription(verbosity))},
		{"Database", dbPath},
		{"Port", fmt.Sprintf("%d", port)},
	}).Render()

	fmt.Println()
	pterm.Info.Println("Press Ctrl+C to stop")
}
