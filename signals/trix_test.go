package signals

import (
	"testing"

	"github.com/rustyeddy/trixsweep/indicators"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vSeries falls for n bars then rises for n bars.
func vSeries(t *testing.T, n int) *market.Series {
	t.Helper()

	bars := make([]market.Bar, 0, 2*n)
	price := 200.0
	for i := 0; i < 2*n; i++ {
		if i < n {
			price -= 1
		} else {
			price += 2
		}
		bars = append(bars, market.Bar{Time: at(i), Open: price, High: price, Low: price, Close: price})
	}
	s, err := market.NewSeries("BTCUSDT", "1h", bars)
	require.NoError(t, err)
	return s
}

func count(col []bool) int {
	n := 0
	for _, v := range col {
		if v {
			n++
		}
	}
	return n
}

func TestTrixConditionsVShape(t *testing.T) {
	t.Parallel()

	s := vSeries(t, 40)
	p := TrixParams{TrixLength: 3, SignalLength: 2, Smoothing: indicators.SmoothingSMA, TrendLength: 5}

	c, err := TrixConditions(s, p)
	require.NoError(t, err)
	require.Len(t, c.Times, s.Len())

	for i := 0; i < p.Warmup()-1; i++ {
		assert.False(t, c.OpenLong[i] || c.CloseLong[i] || c.OpenShort[i] || c.CloseShort[i], "warm-up bar %d fired", i)
	}

	level := p
	level.Mode = EntryLevel
	lc, err := TrixConditions(s, level)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, count(lc.OpenLong), 1)
	assert.GreaterOrEqual(t, count(lc.OpenLong), count(c.OpenLong))

	for _, cc := range []Conditions{c, lc} {
		for i, v := range cc.OpenLong {
			if v {
				assert.GreaterOrEqual(t, i, 40, "long entries only on the rising leg")
				assert.False(t, cc.CloseLong[i], "open and close long cannot both hold")
			}
		}
	}
}

func TestTrixConditionsInsufficientBars(t *testing.T) {
	t.Parallel()

	s := vSeries(t, 3)
	_, err := TrixConditions(s, TrixParams{TrixLength: 7, SignalLength: 7, Smoothing: indicators.SmoothingEMA, TrendLength: 200})
	assert.ErrorIs(t, err, ErrInsufficientBars)
}

func TestParseEntryMode(t *testing.T) {
	t.Parallel()

	m, err := ParseEntryMode("")
	require.NoError(t, err)
	assert.Equal(t, EntryCross, m)

	m, err = ParseEntryMode("LEVEL")
	require.NoError(t, err)
	assert.Equal(t, EntryLevel, m)

	_, err = ParseEntryMode("touch")
	assert.Error(t, err)
}

func TestTrixParamsWarmup(t *testing.T) {
	t.Parallel()

	p := TrixParams{TrixLength: 7, SignalLength: 7, TrendLength: 200}
	assert.Equal(t, 200, p.Warmup())

	p.TrendLength = 5
	assert.Equal(t, 3*6+1+7, p.Warmup())
}
