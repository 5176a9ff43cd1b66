package backtest

// Result is the outcome of one simulation run.
type Result struct {
	Metrics

	Wallet float64
	Trades []Trade
	Days   []DaySnapshot
	Open   []Position // positions still open when the timeline ended
}

// Sentinel is the all-zero result reported for combinations that could
// not be simulated. It is distinct from an error so that a sweep keeps
// one row per combination.
func Sentinel() Result {
	return Result{}
}

func newResult(l *Ledger, days []DaySnapshot) Result {
	res := Result{
		Wallet: l.Wallet(),
		Trades: l.Trades(),
		Days:   days,
		Open:   l.Open(),
	}
	if len(res.Trades) == 0 {
		// no signal fired: statistics stay at zero
		return res
	}
	res.Metrics = ComputeMetrics(res.Trades, res.Days)
	return res
}

// NetPL is the realized profit over the run.
func (r Result) NetPL() float64 {
	total := 0.0
	for _, t := range r.Trades {
		total += t.PnL()
	}
	return total
}
