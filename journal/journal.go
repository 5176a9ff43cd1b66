// journal/journal.go
package journal

import (
	"time"
)

// RunRecord is one row of a sweep: the parameters of a combination and the
// statistics of its backtest. Failed combinations carry zero statistics
// and a non-empty Error.
type RunRecord struct {
	RunID   string    `csv:"run_id"`
	SweepID string    `csv:"sweep_id"`
	Created time.Time `csv:"-"`

	Exchange     string  `csv:"exchange"`
	Pair         string  `csv:"pair"`
	Timeframe    string  `csv:"timeframe"`
	TrixLength   int     `csv:"trix_length"`
	SignalLength int     `csv:"trix_signal_length"`
	SignalType   string  `csv:"trix_signal_type"`
	LongMALength int     `csv:"long_ma_length"`
	Size         float64 `csv:"size"`
	Sides        string  `csv:"sides"`
	EntryMode    string  `csv:"entry_mode"`
	StartDate    string  `csv:"start_date"`
	EndDate      string  `csv:"end_date"`

	InitialWallet float64 `csv:"initial_wallet"`
	Wallet        float64 `csv:"wallet"`
	SharpeRatio   float64 `csv:"sharpe_ratio"`
	WinRate       float64 `csv:"win_rate"`
	AvgProfit     float64 `csv:"avg_profit"`
	TotalTrades   int     `csv:"total_trades"`
	MaxDrawdown   float64 `csv:"max_drawdown"`

	Error string `csv:"error"`
}

// Failed reports whether the combination could not be simulated.
func (r RunRecord) Failed() bool {
	return r.Error != ""
}

type Journal interface {
	RecordRun(RunRecord) error
	Close() error
}
