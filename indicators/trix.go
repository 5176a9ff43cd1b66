package indicators

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownSmoothing = errors.New("unknown signal smoothing")

// Smoothing selects the moving average applied to the TRIX line to build
// its signal line.
type Smoothing string

const (
	SmoothingSMA Smoothing = "sma"
	SmoothingEMA Smoothing = "ema"
)

func ParseSmoothing(s string) (Smoothing, error) {
	switch Smoothing(strings.ToLower(strings.TrimSpace(s))) {
	case SmoothingSMA:
		return SmoothingSMA, nil
	case SmoothingEMA:
		return SmoothingEMA, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSmoothing, s)
	}
}

// TRIX is the triple smoothed momentum oscillator.
type TRIX struct {
	Length       int
	SignalLength int
	Smoothing    Smoothing
}

// TRIXSeries holds the oscillator lines aligned with the input closes.
// Warm-up positions are NaN.
type TRIXSeries struct {
	Line   []float64 // percent change of the triple EMA
	Signal []float64
	Hist   []float64 // Line - Signal
}

func (t TRIX) Name() string {
	return fmt.Sprintf("TRIX(%d,%d,%s)", t.Length, t.SignalLength, t.Smoothing)
}

func (t TRIX) Compute(closes []float64) (TRIXSeries, error) {
	if t.Length <= 0 || t.SignalLength <= 0 {
		return TRIXSeries{}, fmt.Errorf("trix lengths must be positive, got %d/%d", t.Length, t.SignalLength)
	}

	triple := closes
	for i := 0; i < 3; i++ {
		var err error
		if triple, err = EMA(triple, t.Length); err != nil {
			return TRIXSeries{}, err
		}
	}

	line := make([]float64, len(triple))
	for i := range triple {
		line[i] = math.NaN()
		if i == 0 {
			continue
		}
		prev, cur := triple[i-1], triple[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			continue
		}
		line[i] = 100 * (cur - prev) / prev
	}

	var (
		signal []float64
		err    error
	)
	switch t.Smoothing {
	case SmoothingSMA:
		signal, err = SMA(line, t.SignalLength)
	case SmoothingEMA:
		signal, err = EMA(line, t.SignalLength)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownSmoothing, t.Smoothing)
	}
	if err != nil {
		return TRIXSeries{}, err
	}

	hist := make([]float64, len(line))
	for i := range line {
		hist[i] = line[i] - signal[i]
	}

	return TRIXSeries{Line: line, Signal: signal, Hist: hist}, nil
}

// Warmup is the number of bars needed before the histogram is defined.
func (t TRIX) Warmup() int {
	return 3*(t.Length-1) + 1 + t.SignalLength
}
