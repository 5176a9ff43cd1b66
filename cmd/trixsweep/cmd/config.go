package cmd

import (
	"fmt"

	"github.com/rustyeddy/trixsweep/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage sweep configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  trixsweep config init sweep.yaml
  trixsweep config validate -c sweep.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Generate a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cfgPath
	if len(args) == 1 {
		out = args[0]
	}
	cfg := config.Default()
	if err := cfg.SaveToFile(out); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", out)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  trixsweep download -c %s\n", out)
	fmt.Printf("  trixsweep sweep -c %s\n", out)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	sides, _ := cfg.ParsedSides()

	fmt.Printf("✓ Configuration valid: %s\n", cfgPath)
	fmt.Printf("  Exchange:     %s (%s)\n", cfg.Exchange, cfg.DataDir)
	fmt.Printf("  Pairs:        %v\n", cfg.Pairs)
	fmt.Printf("  Timeframes:   %v\n", cfg.Timeframes)
	fmt.Printf("  Sides:        %s\n", sides)
	fmt.Printf("  Combinations: %d\n", cfg.Combinations())
	fmt.Printf("  Workers:      %d\n", cfg.WorkerCount())
	return nil
}
