package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rustyeddy/trixsweep/journal"
	"github.com/rustyeddy/trixsweep/rank"
	"github.com/rustyeddy/trixsweep/sweep"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest every combination of the parameter grid",
	Long: `Sweep runs one backtest per combination of timeframe, pair, TRIX length,
signal length, signal smoothing, trend filter length and position size.

Results are stored in the SQLite results database and exported per pair to
<results_dir>/<PAIR>_results_NNNN.csv together with an Excel friendly copy.
Pairs that already have an export are skipped, so an interrupted sweep can
simply be started again.

Example:
  trixsweep sweep -c sweep.yaml --top 20`,
	RunE: runSweep,
}

var (
	swTop     int
	swWorkers int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().IntVar(&swTop, "top", 10, "print the N best combinations by weighted rank (0 to skip)")
	sweepCmd.Flags().IntVarP(&swWorkers, "workers", "w", 0, "override the number of workers")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if swWorkers > 0 {
		cfg.Workers = swWorkers
	}

	var store sweep.RunStore
	if cfg.DBPath != "" {
		db, err := journal.NewSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		store = db
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	sum, err := sweep.New(cfg, store).Execute(ctx)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"sweep":   sum.SweepID,
		"rows":    len(sum.Rows),
		"failed":  sum.Failed,
		"skipped": len(sum.Skipped),
	}).Infof("sweep finished in %s", time.Since(started).Round(time.Second))

	if swTop > 0 && len(sum.Rows) > 0 {
		rank.Print(os.Stdout, rank.Top(rank.Score(sum.Rows, rank.DefaultWeights), swTop, true))
	}
	return nil
}
