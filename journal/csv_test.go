package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/trixsweep/backtest"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readHeader(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	header, err := csv.NewReader(strings.NewReader(string(data))).Read()
	require.NoError(t, err)
	return header
}

func TestUniquePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p1 := UniquePath(dir, "BTCUSDT_results", ".csv")
	assert.Equal(t, filepath.Join(dir, "BTCUSDT_results_0001.csv"), p1)

	require.NoError(t, os.WriteFile(p1, nil, 0644))
	assert.Equal(t, filepath.Join(dir, "BTCUSDT_results_0002.csv"), UniquePath(dir, "BTCUSDT_results", ".csv"))
}

func TestExportAndReadRuns(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "results")
	rows := []RunRecord{sampleRun("R1", "S1", "BTCUSDT"), sampleRun("R2", "S1", "BTCUSDT")}
	rows[1].Error = "no bars"

	path, err := ExportRuns(dir, "BTCUSDT"+ResultsSuffix, rows)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT_results_0001.csv", filepath.Base(path))

	header := readHeader(t, path)
	assert.Contains(t, header, "trix_signal_type")
	assert.Contains(t, header, "max_drawdown")

	back, err := ReadRuns(path)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, rows[0].Wallet, back[0].Wallet)
	assert.Equal(t, rows[0].LongMALength, back[0].LongMALength)
	assert.Equal(t, rows[0].RunID, back[0].RunID)
	assert.Equal(t, "no bars", back[1].Error)

	path2, err := ExportRuns(dir, "BTCUSDT"+ResultsSuffix, rows)
	require.NoError(t, err)
	assert.NotEqual(t, path, path2)
}

func TestExportedPairs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"BTCUSDT_results_0001.csv", "ETHUSDT_results_0003.csv", "notes.txt", "_results_0001.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	done, err := ExportedPairs(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"BTCUSDT": true, "ETHUSDT": true}, done)

	none, err := ExportedPairs(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWriteTradesAndDays(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	open := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []backtest.Trade{{
		Instrument: "1d-BTCUSDT",
		OpenTime:   open,
		CloseTime:  open.AddDate(0, 0, 2),
		Side:       market.Long,
		OpenReason: "Market", CloseReason: "Market",
		OpenPrice: 100, ClosePrice: 90,
		OpenFee: 0.5, CloseFee: 0.449775,
		OpenSize: 999.5, CloseSize: 899.55,
		Wallet: 899.100225,
	}}
	days := []backtest.DaySnapshot{{Day: open, Wallet: 1000, Price: 100}}

	tp := filepath.Join(dir, "trades.csv")
	dp := filepath.Join(dir, "days.csv")
	require.NoError(t, WriteTrades(tp, trades))
	require.NoError(t, WriteDays(dp, days))

	assert.Equal(t, []string{
		"pair", "open_date", "close_date", "position", "open_reason", "close_reason",
		"open_price", "close_price", "open_fee", "close_fee",
		"open_trade_size", "close_trade_size", "pnl", "wallet",
	}, readHeader(t, tp))
	assert.Equal(t, []string{"day", "wallet", "price", "long_exposition", "short_exposition"}, readHeader(t, dp))

	data, err := os.ReadFile(tp)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-03 00:00:00")
	assert.Contains(t, string(data), "LONG")

	data, err = os.ReadFile(dp)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-01,1000,100")
}
