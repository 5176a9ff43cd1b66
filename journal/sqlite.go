package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the result store at path.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer; the sweep serializes inserts through RecordRuns
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

const insertRun = `
	INSERT INTO runs
	(run_id, sweep_id, created, exchange, pair, timeframe,
	 trix_length, trix_signal_length, trix_signal_type, long_ma_length, size, sides, entry_mode,
	 start_date, end_date, initial_wallet, wallet,
	 sharpe_ratio, win_rate, avg_profit, total_trades, max_drawdown, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func runArgs(r RunRecord) []any {
	return []any{
		r.RunID, r.SweepID, r.Created.UTC(), r.Exchange, r.Pair, r.Timeframe,
		r.TrixLength, r.SignalLength, r.SignalType, r.LongMALength, r.Size, r.Sides, r.EntryMode,
		r.StartDate, r.EndDate, r.InitialWallet, r.Wallet,
		r.SharpeRatio, r.WinRate, r.AvgProfit, r.TotalTrades, r.MaxDrawdown, r.Error,
	}
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(insertRun, runArgs(r)...)
	return err
}

// RecordRuns inserts rows in one transaction.
func (j *SQLite) RecordRuns(ctx context.Context, rows []RunRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertRun)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runArgs(r)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert run %s: %w", r.RunID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
