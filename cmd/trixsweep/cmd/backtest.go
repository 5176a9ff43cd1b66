package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/trixsweep/backtest"
	"github.com/rustyeddy/trixsweep/indicators"
	"github.com/rustyeddy/trixsweep/journal"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/pkg/id"
	"github.com/rustyeddy/trixsweep/signals"
	"github.com/rustyeddy/trixsweep/sweep"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a single parameter combination",
	Long: `Backtest runs one combination against the cached bars and prints a
summary. The trade and day ledgers can be written as CSV, and the run can be
written up as an Org-mode block.

Wallet, leverage, dates, sides and entry mode come from the configuration.

Example:
  trixsweep backtest -c sweep.yaml --pair BTCUSDT --tf 4h --trix 11 --signal 7 --smoothing ema --trend 300`,
	RunE: runBacktest,
}

var (
	btPair      string
	btTimeframe string
	btTrix      int
	btSignal    int
	btSmoothing string
	btTrend     int
	btSize      float64
	btTrades    string
	btDays      string
	btOrg       string
	btLast      int
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btPair, "pair", "p", "BTCUSDT", "pair to trade")
	backtestCmd.Flags().StringVar(&btTimeframe, "tf", "1h", "bar timeframe")
	backtestCmd.Flags().IntVar(&btTrix, "trix", 11, "TRIX length")
	backtestCmd.Flags().IntVar(&btSignal, "signal", 7, "TRIX signal length")
	backtestCmd.Flags().StringVar(&btSmoothing, "smoothing", "ema", "signal smoothing (sma, ema)")
	backtestCmd.Flags().IntVar(&btTrend, "trend", 200, "trend filter EMA length")
	backtestCmd.Flags().Float64Var(&btSize, "size", 1, "fraction of the wallet per position (0, 1]")
	backtestCmd.Flags().StringVar(&btTrades, "trades", "", "write the trade ledger to this CSV file")
	backtestCmd.Flags().StringVar(&btDays, "days", "", "write the daily wallet ledger to this CSV file")
	backtestCmd.Flags().StringVar(&btOrg, "org", "", "write an Org-mode summary to this file")
	backtestCmd.Flags().IntVar(&btLast, "last", 10, "print the last N trades (0 for none)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sides, err := cfg.ParsedSides()
	if err != nil {
		return err
	}
	start, end, err := cfg.Range()
	if err != nil {
		return err
	}
	mode, err := signals.ParseEntryMode(cfg.EntryMode)
	if err != nil {
		return err
	}
	smoothing, err := indicators.ParseSmoothing(btSmoothing)
	if err != nil {
		return err
	}
	if _, err := market.ParseTimeframe(btTimeframe); err != nil {
		return err
	}

	combo := sweep.Combination{
		Timeframe: btTimeframe,
		Pair:      market.Symbol(btPair),
		Params: signals.TrixParams{
			TrixLength:   btTrix,
			SignalLength: btSignal,
			Smoothing:    smoothing,
			TrendLength:  btTrend,
			Mode:         mode,
		},
		Size: btSize,
	}

	runner := &sweep.Runner{
		Bars: market.NewStore(cfg.DataDir, cfg.Exchange),
		Base: backtest.Config{
			InitialWallet: cfg.InitialWallet,
			Leverage:      cfg.Leverage,
			Start:         start,
			End:           end,
			Fees:          backtest.DefaultFees,
		},
		Sides: sides,
	}
	res, err := runner.RunOne(combo)
	if err != nil {
		return fmt.Errorf("backtest %s: %w", combo, err)
	}

	backtest.PrintResult(os.Stdout, fmt.Sprintf("%s %s %s", combo.Key(), combo.Params, sides), cfg.InitialWallet, res)
	if btLast > 0 && len(res.Trades) > 0 {
		backtest.PrintTrades(os.Stdout, res.Trades, btLast)
	}

	if btTrades != "" {
		if err := journal.WriteTrades(btTrades, res.Trades); err != nil {
			return err
		}
		fmt.Printf("✓ Trades written to %s\n", btTrades)
	}
	if btDays != "" {
		if err := journal.WriteDays(btDays, res.Days); err != nil {
			return err
		}
		fmt.Printf("✓ Days written to %s\n", btDays)
	}
	if btOrg != "" {
		run := journal.RunRecord{
			RunID:         id.New(),
			Exchange:      cfg.Exchange,
			Pair:          combo.Pair,
			Timeframe:     combo.Timeframe,
			TrixLength:    combo.Params.TrixLength,
			SignalLength:  combo.Params.SignalLength,
			SignalType:    string(combo.Params.Smoothing),
			LongMALength:  combo.Params.TrendLength,
			Size:          combo.Size,
			Sides:         sides.String(),
			EntryMode:     string(mode),
			StartDate:     cfg.StartDate,
			EndDate:       cfg.EndDate,
			InitialWallet: cfg.InitialWallet,
			Wallet:        res.Wallet,
			SharpeRatio:   res.SharpeRatio,
			WinRate:       res.WinRate,
			AvgProfit:     res.AvgProfit,
			TotalTrades:   res.TotalTrades,
			MaxDrawdown:   res.MaxDrawdown,
		}
		if err := journal.WriteOrg(btOrg, journal.NewOrgReport(run, res, btLast)); err != nil {
			return err
		}
		fmt.Printf("✓ Org summary written to %s\n", btOrg)
	}
	return nil
}
