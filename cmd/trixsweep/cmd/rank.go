package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/trixsweep/journal"
	"github.com/rustyeddy/trixsweep/pkg/id"
	"github.com/rustyeddy/trixsweep/rank"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [results.csv ...]",
	Short: "Rank sweep results with a weighted score",
	Long: `Rank normalizes wallet, win rate, Sharpe ratio, average profit and
drawdown of every result row and orders the rows by a weighted score.

Rows come from the CSV exports given as arguments or, without arguments,
from the results database (the latest sweep unless --sweep is given).

Examples:
  trixsweep rank --top 20
  trixsweep rank --per-group 3 --recurrence
  trixsweep rank results/BTCUSDT_results_0001.csv results/ETHUSDT_results_0001.csv`,
	RunE: runRank,
}

var (
	rkDB         string
	rkSweep      string
	rkAll        bool
	rkTop        int
	rkPerGroup   int
	rkRecurrence bool
	rkPlain      bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rkDB, "db", "", "results database (default: db_path of the configuration)")
	rankCmd.Flags().StringVar(&rkSweep, "sweep", "", "sweep id to rank (default: latest)")
	rankCmd.Flags().BoolVar(&rkAll, "all", false, "rank the rows of every sweep in the database")
	rankCmd.Flags().IntVar(&rkTop, "top", 20, "number of rows to print")
	rankCmd.Flags().IntVar(&rkPerGroup, "per-group", 0, "print the best N rows of every timeframe and pair instead")
	rankCmd.Flags().BoolVar(&rkRecurrence, "recurrence", false, "count how often each parameter set appears in the selection")
	rankCmd.Flags().BoolVar(&rkPlain, "plain", false, "order by the unweighted score")
}

func runRank(cmd *cobra.Command, args []string) error {
	rows, err := rankRows(cmd, args)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("no result rows to rank")
	}

	scored := rank.Score(rows, rank.DefaultWeights)
	var sel []rank.Scored
	if rkPerGroup > 0 {
		sel = rank.TopPerGroup(scored, rkPerGroup)
	} else {
		sel = rank.Top(scored, rkTop, !rkPlain)
	}

	fmt.Printf("Ranked %d rows\n", len(rows))
	rank.Print(os.Stdout, sel)
	if rkRecurrence {
		rank.PrintRecurrence(os.Stdout, rank.ParameterRecurrence(sel, byTimeframe))
	}
	return nil
}

func byTimeframe(s rank.Scored) string {
	return s.Timeframe
}

func rankRows(cmd *cobra.Command, args []string) ([]journal.RunRecord, error) {
	if len(args) > 0 {
		var rows []journal.RunRecord
		for _, path := range args {
			r, err := journal.ReadRuns(path)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r...)
		}
		return rows, nil
	}

	path := rkDB
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("results database: %w", err)
	}
	db, err := journal.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if rkAll {
		return db.ListAllRuns()
	}
	sweepID := rkSweep
	if sweepID == "" {
		if sweepID, err = db.LatestSweep(); err != nil {
			return nil, err
		}
	}
	if started, err := id.Time(sweepID); err == nil {
		fmt.Printf("Sweep %s, started %s\n", sweepID, started.Local().Format(time.DateTime))
	}
	return db.ListRuns(sweepID)
}
