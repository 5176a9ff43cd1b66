package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rustyeddy/trixsweep/backtest"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/signals"
	log "github.com/sirupsen/logrus"
)

// Outcome is the result of one combination. Err is set when the
// combination could not be simulated; Result is then the sentinel.
type Outcome struct {
	Combination
	Result backtest.Result
	Err    error
}

// Runner simulates combinations. Each run owns its signal index, ledger
// and result; bars are shared read-only through the cache.
type Runner struct {
	Bars    BarLoader
	Base    backtest.Config // DefaultFraction is taken from each combination
	Sides   market.Sides
	Workers int

	// OnDone, when set, is called after every finished combination with
	// the shared progress. It may be called from several goroutines.
	OnDone func(o Outcome, p *Progress)
}

// RunOne simulates a single combination.
func (r *Runner) RunOne(c Combination) (backtest.Result, error) {
	series, err := r.Bars.Load(c.Pair, c.Timeframe)
	if err != nil {
		return backtest.Sentinel(), err
	}
	if series.Len() == 0 {
		return backtest.Sentinel(), fmt.Errorf("%w: no bars for %s", signals.ErrInsufficientBars, c.Key())
	}

	conds, err := signals.TrixConditions(series, c.Params)
	if err != nil {
		return backtest.Sentinel(), err
	}
	ix, err := signals.Build(r.Sides, map[string]signals.Conditions{c.Key(): conds})
	if err != nil {
		return backtest.Sentinel(), err
	}

	cfg := r.Base
	cfg.DefaultFraction = c.Size
	engine, err := backtest.NewEngine(cfg, c.Key(), map[string]*market.Series{c.Key(): series}, ix)
	if err != nil {
		return backtest.Sentinel(), err
	}
	return engine.Run(), nil
}

// Run simulates every combination on at most Workers goroutines and
// returns the outcomes in input order. A failing combination is reported
// in its Outcome and never stops the others. When ctx is cancelled the
// combinations not started yet are returned with ctx's error.
func (r *Runner) Run(ctx context.Context, combos []Combination) []Outcome {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(combos) {
		workers = len(combos)
	}

	out := make([]Outcome, len(combos))
	for i, c := range combos {
		out[i] = Outcome{Combination: c, Result: backtest.Sentinel(), Err: context.Canceled}
	}
	progress := NewProgress(len(combos))

	jobCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				o := r.run(combos[i])
				// each index is written by exactly one worker
				out[i] = o
				progress.Done(o.Err != nil)
				if r.OnDone != nil {
					r.OnDone(o, progress)
				}
			}
		}()
	}

feed:
	for i := range combos {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range out {
			if out[i].Err == context.Canceled {
				out[i].Err = err
			}
		}
	}
	return out
}

func (r *Runner) run(c Combination) (o Outcome) {
	o.Combination = c
	defer func() {
		if p := recover(); p != nil {
			o.Result = backtest.Sentinel()
			o.Err = fmt.Errorf("panic: %v", p)
		}
		if o.Err != nil {
			log.WithError(o.Err).Warnf("combination %s failed, reporting zero statistics", c)
		}
	}()

	o.Result, o.Err = r.RunOne(c)
	if o.Err == nil {
		log.Debugf("%s: wallet=%.2f trades=%d", c, o.Result.Wallet, o.Result.TotalTrades)
	}
	return o
}
