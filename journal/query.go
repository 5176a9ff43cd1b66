package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

const selectRun = `
	SELECT run_id, sweep_id, created, exchange, pair, timeframe,
	       trix_length, trix_signal_length, trix_signal_type, long_ma_length, size, sides, entry_mode,
	       start_date, end_date, initial_wallet, wallet,
	       sharpe_ratio, win_rate, avg_profit, total_trades, max_drawdown, error
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var r RunRecord
	err := s.Scan(
		&r.RunID, &r.SweepID, &r.Created, &r.Exchange, &r.Pair, &r.Timeframe,
		&r.TrixLength, &r.SignalLength, &r.SignalType, &r.LongMALength, &r.Size, &r.Sides, &r.EntryMode,
		&r.StartDate, &r.EndDate, &r.InitialWallet, &r.Wallet,
		&r.SharpeRatio, &r.WinRate, &r.AvgProfit, &r.TotalTrades, &r.MaxDrawdown, &r.Error,
	)
	return r, err
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	r, err := scanRun(j.db.QueryRow(selectRun+` WHERE run_id = ?`, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns the runs of one sweep in insertion order.
func (j *SQLite) ListRuns(sweepID string) ([]RunRecord, error) {
	return j.list(selectRun+` WHERE sweep_id = ? ORDER BY rowid ASC`, sweepID)
}

// ListAllRuns returns every stored run, oldest sweep first.
func (j *SQLite) ListAllRuns() ([]RunRecord, error) {
	return j.list(selectRun + ` ORDER BY sweep_id ASC, rowid ASC`)
}

// LatestSweep returns the ID of the most recent sweep, or "" when the
// store is empty.
func (j *SQLite) LatestSweep() (string, error) {
	var id sql.NullString
	if err := j.db.QueryRow(`SELECT MAX(sweep_id) FROM runs`).Scan(&id); err != nil {
		return "", err
	}
	return id.String, nil
}

func (j *SQLite) list(query string, args ...any) ([]RunRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
