package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rustyeddy/trixsweep/config"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/market/data"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download missing bars from Binance",
	Long: `Download brings the bar cache of every configured pair and timeframe up
to date. Only bars after the last cached one are fetched; bars that are still
forming are left for the next run.

Credentials are optional for public market data and are read from
BINANCE_API_KEY and BINANCE_SECRET_KEY, or from a .env file.

Example:
  trixsweep download -c sweep.yaml --since 2019-01-01`,
	RunE: runDownload,
}

var (
	dlSince   string
	dlEnv     string
	dlWorkers int
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&dlSince, "since", "", "first day to fetch for empty caches (default: start_date, else 2017-01-01)")
	downloadCmd.Flags().StringVar(&dlEnv, "env", ".env", "dotenv file with exchange credentials")
	downloadCmd.Flags().IntVarP(&dlWorkers, "workers", "w", 4, "concurrent downloads")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	since, err := downloadSince(cfg)
	if err != nil {
		return err
	}
	secrets, err := config.LoadSecrets(dlEnv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	syncer := &data.Syncer{
		Store:   market.NewStore(cfg.DataDir, cfg.Exchange),
		Source:  data.NewBinance(secrets.APIKey, secrets.SecretKey),
		Since:   since,
		Workers: dlWorkers,
	}

	fmt.Printf("Syncing %d pairs x %d timeframes into %s\n", len(cfg.Pairs), len(cfg.Timeframes), cfg.DataDir)
	rep, err := syncer.Sync(ctx, cfg.Pairs, cfg.Timeframes)

	fmt.Printf("✓ %d updated, %d current, %d failed, %d new bars\n", rep.Updated, rep.Current, rep.Failed, rep.Bars)
	return err
}

func downloadSince(cfg *config.SweepConfig) (time.Time, error) {
	day := dlSince
	if day == "" {
		day = cfg.StartDate
	}
	if day == "" {
		day = "2017-01-01"
	}
	t, err := time.ParseInLocation(time.DateOnly, day, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("since: %w", err)
	}
	return t, nil
}
