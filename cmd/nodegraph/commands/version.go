package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/display"
	"github.com/teranos/nodegraph/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show nodegraph version information",
	Long:  `Display version, build time, commit hash, protocol version and platform information for the nodegraph binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(info)
		}
		fmt.Println(info.String())
		fmt.Printf("Protocol: %s\n", info.Protocol)
		fmt.Printf("Platform: %s\n", info.Platform)
		fmt.Printf("Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
