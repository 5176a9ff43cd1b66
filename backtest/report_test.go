package backtest

import (
	"bytes"
	"testing"

	"github.com/rustyeddy/trixsweep/market"
	"github.com/stretchr/testify/assert"
)

func TestPrintResult(t *testing.T) {
	t.Parallel()

	r := Result{
		Metrics: Metrics{TotalTrades: 2, WinRate: 0.5, MaxDrawdown: -12.5},
		Wallet:  1100,
		Days:    snapshots(1000, 1100),
	}
	var buf bytes.Buffer
	PrintResult(&buf, "1h-BTCUSDT", 1000, r)

	out := buf.String()
	assert.Contains(t, out, "1h-BTCUSDT")
	assert.Contains(t, out, "1100.00")
	assert.Contains(t, out, "10.00%")
	assert.Contains(t, out, "-12.50%")
	assert.Contains(t, out, "Period: 2024-03-01 -> 2024-03-02")
}

func TestPrintTradesLastN(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{Instrument: "1h-AAA", Side: market.Long},
		{Instrument: "1h-BBB", Side: market.Short},
		{Instrument: "1h-CCC", Side: market.Long},
	}
	var buf bytes.Buffer
	PrintTrades(&buf, trades, 2)

	out := buf.String()
	assert.NotContains(t, out, "1h-AAA")
	assert.Contains(t, out, "1h-BBB")
	assert.Contains(t, out, "SHORT")
	assert.Contains(t, out, "1h-CCC")
}
