package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/trixsweep/backtest"
	"github.com/rustyeddy/trixsweep/config"
	"github.com/rustyeddy/trixsweep/journal"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/pkg/id"
	log "github.com/sirupsen/logrus"
)

// RunStore persists result rows; *journal.SQLite implements it.
type RunStore interface {
	RecordRuns(ctx context.Context, rows []journal.RunRecord) error
}

// Sweep runs a whole configuration pair by pair. Rows of a pair are
// stored and exported as soon as the pair is finished, so an interrupted
// sweep resumes with the pairs that have no export yet.
type Sweep struct {
	Cfg   *config.SweepConfig
	Bars  BarLoader
	Store RunStore // optional
	Excel *journal.Excel

	// Now stamps the rows; time.Now when nil.
	Now func() time.Time
}

// Summary describes a finished sweep.
type Summary struct {
	SweepID string
	Rows    []journal.RunRecord
	Exports []string // CSV files written, Excel twins excluded
	Skipped []string // pairs already exported
	Failed  int
}

// New wires a sweep reading bars from the configured store.
func New(cfg *config.SweepConfig, store RunStore) *Sweep {
	return &Sweep{
		Cfg:   cfg,
		Bars:  market.NewStore(cfg.DataDir, cfg.Exchange),
		Store: store,
		Excel: journal.NewExcel(),
	}
}

func (s *Sweep) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Execute runs every combination of the configuration.
func (s *Sweep) Execute(ctx context.Context) (Summary, error) {
	cfg := s.Cfg
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	sides, err := cfg.ParsedSides()
	if err != nil {
		return Summary{}, err
	}
	start, end, err := cfg.Range()
	if err != nil {
		return Summary{}, err
	}
	combos, err := Grid(cfg)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{SweepID: id.At(s.now())}

	done := map[string]bool{}
	if cfg.ResultsDir != "" {
		if done, err = journal.ExportedPairs(cfg.ResultsDir); err != nil {
			return sum, err
		}
	}

	cache := NewCache(s.Bars)
	runner := &Runner{
		Bars: cache,
		Base: backtest.Config{
			InitialWallet: cfg.InitialWallet,
			Leverage:      cfg.Leverage,
			Start:         start,
			End:           end,
			Fees:          backtest.DefaultFees,
		},
		Sides:   sides,
		Workers: cfg.WorkerCount(),
		OnDone:  logProgress,
	}

	pairs, groups := GroupByPair(combos)
	log.Infof("sweep %s: %d combinations over %d pairs, %d workers",
		sum.SweepID, len(combos), len(pairs), runner.Workers)

	for _, pair := range pairs {
		if done[pair] {
			log.Infof("sweep: %s already exported, skipping", pair)
			sum.Skipped = append(sum.Skipped, pair)
			continue
		}

		outcomes := runner.Run(ctx, groups[pair])
		cache.Forget(pair)
		if err := ctx.Err(); err != nil {
			// a partial group is neither stored nor exported
			return sum, err
		}

		rows := make([]journal.RunRecord, len(outcomes))
		for i, o := range outcomes {
			rows[i] = s.record(sum.SweepID, o)
			if o.Err != nil {
				sum.Failed++
			}
		}

		if s.Store != nil {
			if err := s.Store.RecordRuns(ctx, rows); err != nil {
				return sum, fmt.Errorf("store %s: %w", pair, err)
			}
		}
		if cfg.ResultsDir != "" {
			path, err := s.export(pair, rows)
			if err != nil {
				return sum, err
			}
			sum.Exports = append(sum.Exports, path)
		}
		sum.Rows = append(sum.Rows, rows...)
	}
	return sum, nil
}

func (s *Sweep) export(pair string, rows []journal.RunRecord) (string, error) {
	path, err := journal.ExportRuns(s.Cfg.ResultsDir, pair+journal.ResultsSuffix, rows)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", pair, err)
	}
	if s.Excel != nil {
		if err := s.Excel.ConvertFile(path, journal.ExcelPath(path)); err != nil {
			return "", err
		}
	}
	log.Infof("sweep: %s results saved to %s", pair, path)
	return path, nil
}

// record turns an outcome into a result row.
func (s *Sweep) record(sweepID string, o Outcome) journal.RunRecord {
	created := s.now()
	r := journal.RunRecord{
		RunID:         id.At(created),
		SweepID:       sweepID,
		Created:       created,
		Exchange:      s.Cfg.Exchange,
		Pair:          o.Pair,
		Timeframe:     o.Timeframe,
		TrixLength:    o.Params.TrixLength,
		SignalLength:  o.Params.SignalLength,
		SignalType:    string(o.Params.Smoothing),
		LongMALength:  o.Params.TrendLength,
		Size:          o.Size,
		Sides:         sidesOf(s.Cfg),
		EntryMode:     string(o.Params.Mode),
		StartDate:     s.Cfg.StartDate,
		EndDate:       s.Cfg.EndDate,
		InitialWallet: s.Cfg.InitialWallet,
		Wallet:        o.Result.Wallet,
		SharpeRatio:   o.Result.SharpeRatio,
		WinRate:       o.Result.WinRate,
		AvgProfit:     o.Result.AvgProfit,
		TotalTrades:   o.Result.TotalTrades,
		MaxDrawdown:   o.Result.MaxDrawdown,
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

func sidesOf(cfg *config.SweepConfig) string {
	sides, err := cfg.ParsedSides()
	if err != nil {
		return ""
	}
	return sides.String()
}

func logProgress(o Outcome, p *Progress) {
	done, failed, total, eta := p.Snapshot()
	entry := log.WithFields(log.Fields{
		"pair":   o.Pair,
		"tf":     o.Timeframe,
		"done":   done,
		"total":  total,
		"failed": failed,
	})
	if done == total || done%50 == 0 {
		entry.Infof("processed %d/%d combinations, eta %s", done, total, eta.Round(time.Second))
	} else {
		entry.Debugf("processed %s", o.Combination)
	}
}
