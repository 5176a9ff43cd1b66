package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCloses() []float64 {
	return []float64{102, 105, 106, 108, 110, 111, 113, 114, 116, 118}
}

func TestSMA(t *testing.T) {
	t.Parallel()

	got, err := SMA(testCloses(), 5)
	require.NoError(t, err)
	require.Len(t, got, 10)

	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(got[i]), "index %d", i)
	}
	// 102,105,106,108,110 => 531/5
	assert.InDelta(t, 106.2, got[4], 1e-9)
	// Last 5 closes: 111,113,114,116,118 => 572/5 = 114.4
	assert.InDelta(t, 114.4, got[9], 1e-9)
}

func TestEMASeededWithSMA(t *testing.T) {
	t.Parallel()

	got, err := EMA(testCloses(), 5)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(got[3]))
	assert.InDelta(t, 106.2, got[4], 1e-9)

	k := 2.0 / 6.0
	want := (111-106.2)*k + 106.2
	assert.InDelta(t, want, got[5], 1e-9)
}

func TestMASkipsNaN(t *testing.T) {
	t.Parallel()

	in := []float64{math.NaN(), math.NaN(), 1, 2, 3}
	got, err := SMA(in, 2)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]))
	assert.InDelta(t, 1.5, got[3], 1e-9)
	assert.InDelta(t, 2.5, got[4], 1e-9)
}

func TestMAInvalidPeriod(t *testing.T) {
	t.Parallel()

	_, err := SMA(testCloses(), 0)
	assert.Error(t, err)
	_, err = EMA(testCloses(), -1)
	assert.Error(t, err)
}

func TestStreamingReset(t *testing.T) {
	t.Parallel()

	e := NewEMA(3)
	for _, v := range []float64{1, 2, 3} {
		e.Update(v)
	}
	assert.True(t, e.Ready())
	assert.InDelta(t, 2.0, e.Value(), 1e-9)
	assert.Equal(t, "EMA(3)", e.Name())

	e.Reset()
	assert.False(t, e.Ready())
	assert.Equal(t, 0.0, e.Value())
}
