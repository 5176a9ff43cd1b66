package market

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
)

// barRow is the on-disk layout of a cached bar. Dates are unix milliseconds,
// the same unit exchanges use for kline open times.
type barRow struct {
	Date   int64   `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// Store keeps bars as one CSV file per exchange, timeframe and pair:
//
//	<Dir>/<Exchange>/<timeframe>/<PAIR>.csv
type Store struct {
	Dir      string
	Exchange string
}

func NewStore(dir, exchange string) *Store {
	return &Store{Dir: dir, Exchange: exchange}
}

// Symbol strips separators so "BTC/USDT" and "BTCUSDT" share a file.
func Symbol(pair string) string {
	return strings.ToUpper(strings.NewReplacer("/", "", "-", "", "_", "").Replace(pair))
}

func (s *Store) Path(pair, timeframe string) string {
	return filepath.Join(s.Dir, s.Exchange, timeframe, Symbol(pair)+".csv")
}

// Exists reports whether bars are cached for the pair and timeframe.
func (s *Store) Exists(pair, timeframe string) bool {
	_, err := os.Stat(s.Path(pair, timeframe))
	return err == nil
}

// Load reads the cached bars of a pair. The returned series is sorted and
// de-duplicated.
func (s *Store) Load(pair, timeframe string) (*Series, error) {
	path := s.Path(pair, timeframe)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars %s: %w", path, err)
	}
	defer f.Close()

	var rows []*barRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return NewSeries(pair, timeframe, nil)
		}
		return nil, fmt.Errorf("parse bars %s: %w", path, err)
	}

	bars := make([]Bar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, Bar{
			Time:   time.UnixMilli(r.Date).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	series, err := NewSeries(pair, timeframe, bars)
	if err != nil {
		return nil, err
	}
	if series.duplicates > 0 {
		log.Warnf("bars %s: dropped %d duplicate rows", path, series.duplicates)
	}
	return series, nil
}

// Save rewrites the cache file of a series.
func (s *Store) Save(series *Series) error {
	path := s.Path(series.Pair, series.Timeframe)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bars dir: %w", err)
	}

	rows := make([]*barRow, 0, len(series.Bars))
	for _, b := range series.Bars {
		rows = append(rows, &barRow{
			Date:   b.Time.UnixMilli(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bars %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write bars %s: %w", path, err)
	}
	return nil
}
