// journal/csv.go
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rustyeddy/trixsweep/backtest"
)

// ResultsSuffix marks per-pair sweep exports: <PAIR>_results_0001.csv.
const ResultsSuffix = "_results"

// UniquePath returns <dir>/<base>_NNNN<ext> with the first index that
// does not exist yet, starting at 0001.
func UniquePath(dir, base, ext string) string {
	for i := 1; ; i++ {
		p := filepath.Join(dir, fmt.Sprintf("%s_%04d%s", base, i, ext))
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
	}
}

// ExportRuns writes rows as CSV to a fresh file in dir and returns its path.
func ExportRuns(dir, base string, rows []RunRecord) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := UniquePath(dir, base, ".csv")
	if err := writeCSV(path, &rows); err != nil {
		return "", err
	}
	return path, nil
}

// ReadRuns loads rows written by ExportRuns.
func ReadRuns(path string) ([]RunRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []RunRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ExportedPairs lists the pairs that already have a results export in dir.
func ExportedPairs(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}

	done := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".csv" {
			continue
		}
		if i := strings.Index(name, ResultsSuffix+"_"); i > 0 {
			done[name[:i]] = true
		}
	}
	return done, nil
}

type tradeRow struct {
	Instrument  string  `csv:"pair"`
	OpenDate    string  `csv:"open_date"`
	CloseDate   string  `csv:"close_date"`
	Position    string  `csv:"position"`
	OpenReason  string  `csv:"open_reason"`
	CloseReason string  `csv:"close_reason"`
	OpenPrice   float64 `csv:"open_price"`
	ClosePrice  float64 `csv:"close_price"`
	OpenFee     float64 `csv:"open_fee"`
	CloseFee    float64 `csv:"close_fee"`
	OpenSize    float64 `csv:"open_trade_size"`
	CloseSize   float64 `csv:"close_trade_size"`
	PnL         float64 `csv:"pnl"`
	Wallet      float64 `csv:"wallet"`
}

type dayRow struct {
	Day           string  `csv:"day"`
	Wallet        float64 `csv:"wallet"`
	Price         float64 `csv:"price"`
	LongExposure  float64 `csv:"long_exposition"`
	ShortExposure float64 `csv:"short_exposition"`
}

const stamp = "2006-01-02 15:04:05"

// WriteTrades writes the trade ledger of a run.
func WriteTrades(path string, trades []backtest.Trade) error {
	rows := make([]tradeRow, len(trades))
	for i, t := range trades {
		rows[i] = tradeRow{
			Instrument:  t.Instrument,
			OpenDate:    t.OpenTime.UTC().Format(stamp),
			CloseDate:   t.CloseTime.UTC().Format(stamp),
			Position:    t.Side.String(),
			OpenReason:  t.OpenReason,
			CloseReason: t.CloseReason,
			OpenPrice:   t.OpenPrice,
			ClosePrice:  t.ClosePrice,
			OpenFee:     t.OpenFee,
			CloseFee:    t.CloseFee,
			OpenSize:    t.OpenSize,
			CloseSize:   t.CloseSize,
			PnL:         t.PnL(),
			Wallet:      t.Wallet,
		}
	}
	return writeCSV(path, &rows)
}

// WriteDays writes the daily wallet ledger of a run.
func WriteDays(path string, days []backtest.DaySnapshot) error {
	rows := make([]dayRow, len(days))
	for i, d := range days {
		rows[i] = dayRow{
			Day:           d.Day.Format(time.DateOnly),
			Wallet:        d.Wallet,
			Price:         d.Price,
			LongExposure:  d.LongExposure,
			ShortExposure: d.ShortExposure,
		}
	}
	return writeCSV(path, &rows)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
