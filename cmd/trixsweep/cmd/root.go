package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rustyeddy/trixsweep/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trixsweep",
	Short: "Parameter sweep backtester for a TRIX trend following strategy",
	Long: `trixsweep backtests a TRIX histogram strategy with a long moving average
trend filter over every combination of a parameter grid.

It provides tools for:
  - Downloading and caching exchange bars
  - Running the full parameter sweep on all CPUs
  - Backtesting a single combination with trade and day ledgers
  - Ranking sweep results with a weighted score
  - Converting result files for spreadsheets`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return nil
	},
}

var (
	cfgPath  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "sweep.yaml", "sweep configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// loadConfig reads --config. When the flag was left at its default and
// the file does not exist, the built-in defaults are used.
func loadConfig(cmd *cobra.Command) (*config.SweepConfig, error) {
	cfg, err := config.LoadFromFile(cfgPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Warnf("%s not found, using default configuration", cfgPath)
		return config.Default(), nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}
