package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func snapshots(wallets ...float64) []DaySnapshot {
	out := make([]DaySnapshot, len(wallets))
	for i, w := range wallets {
		out[i] = DaySnapshot{Day: day0.AddDate(0, 0, i), Wallet: w}
	}
	return out
}

func trade(openSize, closeSize float64) Trade {
	return Trade{OpenSize: openSize, CloseSize: closeSize}
}

func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	trades := []Trade{trade(100, 110), trade(100, 95), trade(100, 120), trade(100, 100)}
	days := snapshots(1000, 1100, 1050, 1200, 900, 1300)
	m := ComputeMetrics(trades, days)

	assert.Equal(t, 4, m.TotalTrades)
	assert.InDelta(t, 0.5, m.WinRate, 1e-12)
	assert.InDelta(t, (0.10-0.05+0.20+0)/4, m.AvgProfit, 1e-12)
	assert.InDelta(t, -25.0, m.MaxDrawdown, 1e-9) // 1200 -> 900
	assert.Greater(t, m.SharpeRatio, 0.0)
}

func TestSharpe(t *testing.T) {
	t.Parallel()

	days := snapshots(100, 110, 99, 108.9)
	rets := []float64{0.1, -0.1, 0.1}
	mean := (0.1 - 0.1 + 0.1) / 3
	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	sd := math.Sqrt(ss / 2)
	assert.InDelta(t, math.Sqrt(365)*mean/sd, sharpe(days), 1e-9)
}

func TestMetricsUndefinedResolveToZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		trades []Trade
		days   []DaySnapshot
	}{
		{name: "no trades", days: snapshots(1000, 1100, 900)},
		{name: "no days", trades: []Trade{trade(100, 90)}},
		{name: "single day", trades: []Trade{trade(100, 90)}, days: snapshots(1000)},
		{name: "single return", trades: []Trade{trade(100, 90)}, days: snapshots(1000, 1100)},
		{name: "flat wallet", trades: []Trade{trade(100, 90)}, days: snapshots(1000, 1000, 1000, 1000)},
		{name: "zero open size", trades: []Trade{trade(0, 10)}, days: snapshots(0, 0, 0)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := ComputeMetrics(tt.trades, tt.days)
			for _, v := range []float64{m.SharpeRatio, m.WinRate, m.AvgProfit, m.MaxDrawdown} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
			assert.Equal(t, 0.0, m.SharpeRatio)
			assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
		})
	}
}

func TestMaxDrawdownMonotonicRise(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, maxDrawdown(snapshots(1, 2, 3, 4)))
}

func TestDailyReturnsSkipZeroWallet(t *testing.T) {
	t.Parallel()

	days := []DaySnapshot{
		{Day: time.Unix(0, 0), Wallet: 0},
		{Day: time.Unix(86400, 0), Wallet: 10},
		{Day: time.Unix(2*86400, 0), Wallet: 11},
	}
	assert.InDelta(t, 0.1, dailyReturns(days)[0], 1e-12)
	assert.Len(t, dailyReturns(days), 1)
}
