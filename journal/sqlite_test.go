package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "results.sqlite")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func sampleRun(runID, sweepID, pair string) RunRecord {
	return RunRecord{
		RunID:         runID,
		SweepID:       sweepID,
		Created:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Exchange:      "binance",
		Pair:          pair,
		Timeframe:     "1h",
		TrixLength:    11,
		SignalLength:  7,
		SignalType:    "ema",
		LongMALength:  200,
		Size:          1,
		Sides:         "long",
		EntryMode:     "cross",
		StartDate:     "2020-01-01",
		InitialWallet: 1000,
		Wallet:        1234.5,
		SharpeRatio:   1.2,
		WinRate:       0.55,
		AvgProfit:     0.012,
		TotalTrades:   42,
		MaxDrawdown:   -18.5,
	}
}

func TestRecordAndGetRun(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	want := sampleRun("R1", "S1", "BTCUSDT")
	require.NoError(t, j.RecordRun(want))

	got, err := j.GetRun("R1")
	require.NoError(t, err)
	assert.True(t, got.Created.Equal(want.Created))
	got.Created = want.Created
	assert.Equal(t, want, got)
	assert.False(t, got.Failed())
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetRun("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRecordRunsAndList(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	var first, second []RunRecord
	for i := 0; i < 3; i++ {
		first = append(first, sampleRun(fmt.Sprintf("A%d", i), "S1", "BTCUSDT"))
	}
	failed := sampleRun("B0", "S2", "ETHUSDT")
	failed.Error = "insufficient bars"
	second = append(second, failed)

	ctx := context.Background()
	require.NoError(t, j.RecordRuns(ctx, first))
	require.NoError(t, j.RecordRuns(ctx, second))

	runs, err := j.ListRuns("S1")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		assert.Equal(t, fmt.Sprintf("A%d", i), r.RunID)
	}

	all, err := j.ListAllRuns()
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.True(t, all[3].Failed())

	latest, err := j.LatestSweep()
	require.NoError(t, err)
	assert.Equal(t, "S2", latest)
}

func TestRecordRunsRollsBackOnDuplicate(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	rows := []RunRecord{sampleRun("X", "S1", "BTCUSDT"), sampleRun("X", "S1", "BTCUSDT")}
	require.Error(t, j.RecordRuns(context.Background(), rows))

	all, err := j.ListAllRuns()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLatestSweepEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	id, err := j.LatestSweep()
	require.NoError(t, err)
	assert.Equal(t, "", id)
}
