package signals

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/trixsweep/indicators"
	"github.com/rustyeddy/trixsweep/market"
)

var ErrInsufficientBars = errors.New("insufficient bars")

// EntryMode selects how the histogram triggers entries.
type EntryMode string

const (
	// EntryCross opens when the histogram crosses zero on this bar.
	EntryCross EntryMode = "cross"
	// EntryLevel opens on every bar where the histogram has the right sign.
	EntryLevel EntryMode = "level"
)

func ParseEntryMode(s string) (EntryMode, error) {
	switch EntryMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", EntryCross:
		return EntryCross, nil
	case EntryLevel:
		return EntryLevel, nil
	default:
		return "", fmt.Errorf("unknown entry mode %q (supported: cross, level)", s)
	}
}

// TrixParams is one point of the indicator parameter grid.
type TrixParams struct {
	TrixLength   int                  `json:"trix_length" yaml:"trix_length"`
	SignalLength int                  `json:"trix_signal_length" yaml:"trix_signal_length"`
	Smoothing    indicators.Smoothing `json:"trix_signal_type" yaml:"trix_signal_type"`
	TrendLength  int                  `json:"long_ma_length" yaml:"long_ma_length"`
	Mode         EntryMode            `json:"entry_mode,omitempty" yaml:"entry_mode,omitempty"`
}

func (p TrixParams) String() string {
	return fmt.Sprintf("trix=%d signal=%d/%s trend=%d", p.TrixLength, p.SignalLength, p.Smoothing, p.TrendLength)
}

// Warmup is the number of bars needed before any signal can fire.
func (p TrixParams) Warmup() int {
	w := indicators.TRIX{Length: p.TrixLength, SignalLength: p.SignalLength}.Warmup()
	if p.TrendLength > w {
		w = p.TrendLength
	}
	return w
}

// TrixConditions derives the entry and exit conditions of one instrument:
//
//	open long   histogram enters positive territory and close > trend EMA
//	close long  histogram < 0
//	open short  histogram enters negative territory and close < trend EMA
//	close short histogram > 0
//
// Bars whose indicators are still warming up never fire.
func TrixConditions(s *market.Series, p TrixParams) (Conditions, error) {
	if s.Len() < p.Warmup() {
		return Conditions{}, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientBars, s.Key(), s.Len(), p.Warmup())
	}

	closes := s.Closes()
	trix, err := indicators.TRIX{
		Length:       p.TrixLength,
		SignalLength: p.SignalLength,
		Smoothing:    p.Smoothing,
	}.Compute(closes)
	if err != nil {
		return Conditions{}, err
	}
	trend, err := indicators.EMA(closes, p.TrendLength)
	if err != nil {
		return Conditions{}, err
	}

	n := s.Len()
	c := Conditions{
		Times:      make([]time.Time, n),
		OpenLong:   make([]bool, n),
		CloseLong:  make([]bool, n),
		OpenShort:  make([]bool, n),
		CloseShort: make([]bool, n),
	}

	for i, b := range s.Bars {
		c.Times[i] = b.Time
		h := trix.Hist[i]
		if math.IsNaN(h) {
			continue
		}

		c.CloseLong[i] = h < 0
		c.CloseShort[i] = h > 0

		ma := trend[i]
		if math.IsNaN(ma) {
			continue
		}

		enterLong, enterShort := h > 0, h < 0
		if p.Mode != EntryLevel {
			prev := math.NaN()
			if i > 0 {
				prev = trix.Hist[i-1]
			}
			// a cross needs a defined previous value
			enterLong = enterLong && !math.IsNaN(prev) && prev <= 0
			enterShort = enterShort && !math.IsNaN(prev) && prev >= 0
		}

		c.OpenLong[i] = enterLong && b.Close > ma
		c.OpenShort[i] = enterShort && b.Close < ma
	}
	return c, nil
}
