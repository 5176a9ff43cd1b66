// Package data fetches OHLCV bars from an exchange and keeps the local
// CSV cache of market.Store up to date.
package data

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/rustyeddy/trixsweep/market"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Downloader returns the closed bars of a pair with open times in
// [start, end), ascending.
type Downloader interface {
	Klines(ctx context.Context, pair, timeframe string, start, end time.Time) ([]market.Bar, error)
}

// PageLimit is the largest kline page Binance serves.
const PageLimit = 1000

type Binance struct {
	client  *binance.Client
	limiter *rate.Limiter

	MaxRetries int
	Backoff    time.Duration
	Now        func() time.Time
}

func NewBinance(apiKey, secretKey string) *Binance {
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client := binance.NewClient(apiKey, secretKey)
	client.HTTPClient = httpClient

	return &Binance{
		client: client,
		// 10 requests per second with burst of 20
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		MaxRetries: 3,
		Backoff:    100 * time.Millisecond,
		Now:        time.Now,
	}
}

// SetBaseURL points the client at another endpoint (testnet, mirror).
func (b *Binance) SetBaseURL(url string) {
	b.client.BaseURL = url
}

// Klines pages through the kline endpoint. Bars that are still forming at
// Now are left out.
func (b *Binance) Klines(ctx context.Context, pair, timeframe string, start, end time.Time) ([]market.Bar, error) {
	step, err := market.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	symbol := market.Symbol(pair)
	now := b.Now().UnixMilli()

	var bars []market.Bar
	from := start.UnixMilli()
	to := end.UnixMilli() - 1
	for from <= to {
		page, err := b.page(ctx, symbol, timeframe, from, to)
		if err != nil {
			return nil, fmt.Errorf("klines %s %s: %w", symbol, timeframe, err)
		}
		for _, k := range page {
			if k.CloseTime >= now {
				continue
			}
			bar, err := toBar(k)
			if err != nil {
				return nil, fmt.Errorf("klines %s %s: %w", symbol, timeframe, err)
			}
			bars = append(bars, bar)
		}
		if len(page) < PageLimit {
			break
		}
		from = page[len(page)-1].OpenTime + step.Milliseconds()
	}

	log.Debugf("binance: %d %s %s bars from %s", len(bars), symbol, timeframe, start.Format(time.DateOnly))
	return bars, nil
}

func (b *Binance) page(ctx context.Context, symbol, interval string, from, to int64) ([]*binance.Kline, error) {
	var lastErr error
	for attempt := 0; attempt <= b.MaxRetries; attempt++ {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err := b.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(from).
			EndTime(to).
			Limit(PageLimit).
			Do(ctx)
		if err == nil {
			return klines, nil
		}
		lastErr = err
		if attempt == b.MaxRetries {
			break
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * b.Backoff
		log.WithError(err).Warnf("binance: retrying %s %s in %s", symbol, interval, wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func toBar(k *binance.Kline) (market.Bar, error) {
	var (
		bar = market.Bar{Time: time.UnixMilli(k.OpenTime).UTC()}
		err error
	)
	for _, f := range []struct {
		dst *float64
		src string
	}{
		{&bar.Open, k.Open},
		{&bar.High, k.High},
		{&bar.Low, k.Low},
		{&bar.Close, k.Close},
		{&bar.Volume, k.Volume},
	} {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return market.Bar{}, fmt.Errorf("bad kline at %d: %w", k.OpenTime, err)
		}
	}
	return bar, nil
}
