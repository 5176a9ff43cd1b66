package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
)

// TradingDays annualizes the daily Sharpe ratio. Crypto trades every day.
const TradingDays = 365

// Metrics summarizes a run. Every field is finite; statistics that are
// undefined for the given ledgers are 0.
type Metrics struct {
	SharpeRatio float64
	WinRate     float64 // fraction of trades with a positive return
	AvgProfit   float64 // mean trade return relative to entry notional
	TotalTrades int
	MaxDrawdown float64 // percent, <= 0
}

// ComputeMetrics derives the summary statistics from the realized trades
// and the daily snapshots.
func ComputeMetrics(trades []Trade, days []DaySnapshot) Metrics {
	m := Metrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return m
	}

	returns := make([]float64, len(trades))
	wins := 0
	for i, t := range trades {
		returns[i] = t.Return()
		if returns[i] > 0 {
			wins++
		}
	}
	m.WinRate = float64(wins) / float64(len(trades))
	if avg, err := stats.Mean(returns); err == nil {
		m.AvgProfit = finite(avg)
	}

	m.SharpeRatio = sharpe(days)
	m.MaxDrawdown = maxDrawdown(days)
	return m
}

func dailyReturns(days []DaySnapshot) []float64 {
	var out []float64
	for i := 1; i < len(days); i++ {
		prev := days[i-1].Wallet
		if prev == 0 {
			continue
		}
		out = append(out, (days[i].Wallet-prev)/prev)
	}
	return out
}

func sharpe(days []DaySnapshot) float64 {
	rets := dailyReturns(days)
	if len(rets) < 2 {
		return 0
	}
	mean, err := stats.Mean(rets)
	if err != nil {
		return 0
	}
	sd, err := stats.StandardDeviationSample(rets)
	if err != nil || sd == 0 {
		return 0
	}
	return finite(math.Sqrt(TradingDays) * mean / sd)
}

func maxDrawdown(days []DaySnapshot) float64 {
	ath := math.Inf(-1)
	worst := 0.0
	for _, d := range days {
		if d.Wallet > ath {
			ath = d.Wallet
		}
		if ath <= 0 {
			continue
		}
		if dd := (ath - d.Wallet) / ath; dd > worst {
			worst = dd
		}
	}
	if worst == 0 {
		return 0
	}
	return finite(-worst * 100)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
