package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/trixsweep/backtest"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrg(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res := backtest.Result{
		Wallet: 1100,
		Trades: []backtest.Trade{
			{Side: market.Long, OpenTime: day, CloseTime: day.Add(time.Hour), OpenSize: 100, CloseSize: 130},
			{Side: market.Short, OpenTime: day, CloseTime: day.Add(2 * time.Hour), OpenSize: 100, CloseSize: 90},
			{Side: market.Long, OpenTime: day, CloseTime: day.Add(3 * time.Hour), OpenSize: 100, CloseSize: 180},
		},
		Days: []backtest.DaySnapshot{{Day: day}, {Day: day.AddDate(0, 0, 9)}},
	}
	run := sampleRun("R1", "S1", "BTCUSDT")
	run.InitialWallet = 1000

	rep := NewOrgReport(run, res, 2)
	assert.Equal(t, 2, rep.Wins)
	assert.Equal(t, 1, rep.Losses)
	assert.InDelta(t, 10.0, rep.Return, 1e-9)
	require.Len(t, rep.Trades, 2)

	out, err := RenderOrg(rep)
	require.NoError(t, err)
	assert.Contains(t, out, "* BACKTEST: TRIX BTCUSDT 1h")
	assert.Contains(t, out, ":RUN_ID:      R1")
	assert.Contains(t, out, ":START_DATE:  2024-03-01")
	assert.Contains(t, out, ":END_DATE:    2024-03-10")
	assert.Contains(t, out, "| Trend MA length    | 200 |")
	assert.Contains(t, out, "| SHORT |")
	assert.Contains(t, out, "| 80.00 |")

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, WriteOrg(path, rep))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}
