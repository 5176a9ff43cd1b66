package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestTRIXWarmup(t *testing.T) {
	t.Parallel()

	tr := TRIX{Length: 3, SignalLength: 2, Smoothing: SmoothingSMA}
	res, err := tr.Compute(ramp(30, 100, 1))
	require.NoError(t, err)

	first := -1
	for i, h := range res.Hist {
		if !math.IsNaN(h) {
			first = i
			break
		}
	}
	assert.Equal(t, tr.Warmup()-1, first)
}

func TestTRIXRisingPriceHasPositiveLine(t *testing.T) {
	t.Parallel()

	for _, sm := range []Smoothing{SmoothingSMA, SmoothingEMA} {
		tr := TRIX{Length: 4, SignalLength: 3, Smoothing: sm}
		res, err := tr.Compute(ramp(60, 100, 2))
		require.NoError(t, err)

		last := len(res.Line) - 1
		assert.Greater(t, res.Line[last], 0.0, sm)
		assert.InDelta(t, res.Line[last]-res.Signal[last], res.Hist[last], 1e-12)
	}
}

func TestTRIXInvalid(t *testing.T) {
	t.Parallel()

	_, err := TRIX{Length: 0, SignalLength: 3, Smoothing: SmoothingSMA}.Compute(ramp(10, 1, 1))
	assert.Error(t, err)

	_, err = TRIX{Length: 3, SignalLength: 3, Smoothing: "wma"}.Compute(ramp(10, 1, 1))
	assert.ErrorIs(t, err, ErrUnknownSmoothing)
}

func TestParseSmoothing(t *testing.T) {
	t.Parallel()

	s, err := ParseSmoothing(" EMA ")
	require.NoError(t, err)
	assert.Equal(t, SmoothingEMA, s)

	_, err = ParseSmoothing("hull")
	assert.ErrorIs(t, err, ErrUnknownSmoothing)
}
