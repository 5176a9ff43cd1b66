package data

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rustyeddy/trixsweep/market"
	log "github.com/sirupsen/logrus"
)

// Syncer brings the bar cache up to date from a Downloader.
type Syncer struct {
	Store   *market.Store
	Source  Downloader
	Since   time.Time // first bar to fetch for pairs without a cache
	Workers int
	Now     func() time.Time
}

// SyncReport counts what a Sync did.
type SyncReport struct {
	Updated int // caches that gained bars
	Current int // caches that were already up to date
	Failed  int
	Bars    int // bars added in total
}

type syncJob struct {
	pair, timeframe string
}

// Sync downloads, for every pair and timeframe, only the bars after the
// last cached one, merges them and rewrites the cache file. Failures of
// one cache do not stop the others; they are joined into the returned
// error.
func (s *Syncer) Sync(ctx context.Context, pairs, timeframes []string) (SyncReport, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = min(4, runtime.NumCPU())
	}

	jobCh := make(chan syncJob)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		rep  SyncReport
		errs []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				added, err := s.syncOne(ctx, j.pair, j.timeframe)

				mu.Lock()
				switch {
				case err != nil:
					rep.Failed++
					errs = append(errs, err)
				case added == 0:
					rep.Current++
				default:
					rep.Updated++
					rep.Bars += added
				}
				mu.Unlock()

				if err != nil {
					log.WithError(err).Errorf("sync %s %s failed", j.pair, j.timeframe)
				} else {
					log.Infof("sync %s %s: +%d bars", j.pair, j.timeframe, added)
				}
			}
		}()
	}

feed:
	for _, tf := range timeframes {
		for _, p := range pairs {
			select {
			case jobCh <- syncJob{pair: p, timeframe: tf}:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return rep, errors.Join(errs...)
}

func (s *Syncer) syncOne(ctx context.Context, pair, timeframe string) (int, error) {
	step, err := market.ParseTimeframe(timeframe)
	if err != nil {
		return 0, err
	}

	var series *market.Series
	if s.Store.Exists(pair, timeframe) {
		if series, err = s.Store.Load(pair, timeframe); err != nil {
			return 0, err
		}
	} else if series, err = market.NewSeries(pair, timeframe, nil); err != nil {
		return 0, err
	}

	from := s.Since
	if series.Len() > 0 {
		from = series.Last().Add(step)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	to := now().UTC()
	if !from.Before(to) {
		return 0, nil
	}

	bars, err := s.Source.Klines(ctx, pair, timeframe, from, to)
	if err != nil {
		return 0, fmt.Errorf("download %s %s: %w", pair, timeframe, err)
	}
	added := series.Append(bars...)
	if added == 0 {
		return 0, nil
	}
	if err := s.Store.Save(series); err != nil {
		return 0, fmt.Errorf("save %s %s: %w", pair, timeframe, err)
	}
	return added, nil
}
