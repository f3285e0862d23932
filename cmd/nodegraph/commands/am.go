package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/display"
	"github.com/teranos/nodegraph/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage nodegraph configuration",
	Long: sym.AM + ` am - Manage nodegraph configuration ("I am")

Display and validate layout, view, server and database settings.

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/nodegraph/config.toml)
3. User config (~/.nodegraph/am.toml)
4. UI overrides (~/.nodegraph/am_from_ui.toml)
5. Project config (./am.toml, searched up directories)
6. Environment variables (NODEGRAPH_* prefix)

Examples:
  nodegraph am show                    # Show current configuration
  nodegraph am show --format json      # Show configuration in JSON format
  nodegraph am get layout.link_distance
  nodegraph am validate`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current nodegraph configuration merged from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, layout.charge_strength)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration files nodegraph checks, in the order they are
merged, and which of them exist.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVarP(&configFormat, "format", "f", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format, err := display.ParseFormat(configFormat)
	if err != nil {
		return err
	}
	if format == display.FormatTable {
		format = display.FormatTOML
	}

	data, err := display.Marshal(am.GetViper().AllSettings(), format)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %s: %w", format, err)
	}
	if format != display.FormatJSON {
		fmt.Println("# nodegraph configuration")
	}
	fmt.Print(string(data))
	if format == display.FormatJSON {
		fmt.Println()
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if _, err := am.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !am.GetViper().IsSet(key) {
		return fmt.Errorf("configuration key %q not found", key)
	}
	fmt.Println(am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	data := pterm.TableData{{"#", "Source", "Path", "Status"}}
	data = append(data, []string{"1", "DEFAULT", "built-in", "active"})

	for i, path := range am.ConfigPaths() {
		status := "missing"
		if _, err := os.Stat(path); err == nil {
			status = "loaded"
		}
		data = append(data, []string{fmt.Sprintf("%d", i+2), "FILE", path, status})
	}
	data = append(data, []string{fmt.Sprintf("%d", len(data)), "ENV", "NODEGRAPH_*", "active"})

	fmt.Println("Configuration cascade (later overrides earlier):")
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
