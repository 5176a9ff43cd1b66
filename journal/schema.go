// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	sweep_id TEXT NOT NULL,
	created DATETIME NOT NULL,
	exchange TEXT NOT NULL,
	pair TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	trix_length INTEGER NOT NULL,
	trix_signal_length INTEGER NOT NULL,
	trix_signal_type TEXT NOT NULL,
	long_ma_length INTEGER NOT NULL,
	size REAL NOT NULL,
	sides TEXT NOT NULL,
	entry_mode TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	initial_wallet REAL NOT NULL,
	wallet REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	win_rate REAL NOT NULL,
	avg_profit REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	max_drawdown REAL NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_sweep ON runs(sweep_id);
CREATE INDEX IF NOT EXISTS idx_runs_pair ON runs(pair, timeframe);
`
