package signals

import (
	"testing"
	"time"

	"github.com/rustyeddy/trixsweep/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time {
	return t0.Add(time.Duration(h) * time.Hour)
}

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	conds := map[string]Conditions{
		"1h-ETHUSDT": {
			Times:     []time.Time{at(0), at(1), at(2)},
			OpenLong:  []bool{true, false, false},
			CloseLong: []bool{false, false, true},
			OpenShort: []bool{false, true, false},
		},
		"1h-BTCUSDT": {
			Times:      []time.Time{at(0), at(2)},
			OpenLong:   []bool{true, false},
			CloseShort: []bool{false, true},
		},
	}

	ix, err := Build(market.Sides{Long: true, Short: true}, conds)
	require.NoError(t, err)

	assert.Equal(t, []string{"1h-BTCUSDT", "1h-ETHUSDT"}, ix.Keys(OpenLong, at(0)))
	assert.Equal(t, []string{"1h-ETHUSDT"}, ix.Keys(CloseLong, at(2)))
	assert.Equal(t, []string{"1h-ETHUSDT"}, ix.Keys(OpenShort, at(1)))
	assert.Equal(t, []string{"1h-BTCUSDT"}, ix.Keys(CloseShort, at(2)))
	assert.Empty(t, ix.Keys(OpenLong, at(1)))

	assert.Contains(t, ix.Keys(OpenLong, at(0)), "1h-ETHUSDT")
	assert.NotContains(t, ix.Keys(OpenLong, at(2)), "1h-ETHUSDT")
	assert.Equal(t, 2, ix.Count(OpenLong))
}

func TestBuildIndexDisabledSideIsEmpty(t *testing.T) {
	t.Parallel()

	conds := map[string]Conditions{
		"1h-BTCUSDT": {
			Times:      []time.Time{at(0), at(1)},
			OpenLong:   []bool{true, false},
			CloseLong:  []bool{false, true},
			OpenShort:  []bool{false, true},
			CloseShort: []bool{true, false},
		},
	}

	longOnly, err := Build(market.Sides{Long: true}, conds)
	require.NoError(t, err)
	assert.Equal(t, 1, longOnly.Count(OpenLong))
	assert.Equal(t, 1, longOnly.Count(CloseLong))
	assert.Zero(t, longOnly.Count(OpenShort))
	assert.Zero(t, longOnly.Count(CloseShort))

	shortOnly, err := Build(market.Sides{Short: true}, conds)
	require.NoError(t, err)
	assert.Zero(t, shortOnly.Count(OpenLong))
	assert.Zero(t, shortOnly.Count(CloseLong))
	assert.Equal(t, 1, shortOnly.Count(OpenShort))
	assert.Equal(t, 1, shortOnly.Count(CloseShort))
}

func TestBuildIndexLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := Build(market.Sides{Long: true}, map[string]Conditions{
		"k": {Times: []time.Time{at(0)}, OpenLong: []bool{true, false}},
	})
	assert.Error(t, err)
}

func TestNilIndex(t *testing.T) {
	t.Parallel()

	var ix *Index
	assert.Nil(t, ix.Keys(OpenLong, at(0)))
	assert.NotContains(t, ix.Keys(CloseLong, at(0)), "k")
}
