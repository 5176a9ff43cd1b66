package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/signals"
)

var (
	ErrInvalidRange      = errors.New("start date is after end date")
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// Config controls a single simulation run.
type Config struct {
	InitialWallet float64
	Leverage      float64
	Start         time.Time // zero means unbounded
	End           time.Time // zero means unbounded, inclusive otherwise

	DefaultFraction float64
	Fractions       map[string]float64
	Fees            Fees
}

func (c Config) Validate() error {
	if c.InitialWallet <= 0 {
		return fmt.Errorf("initial wallet must be positive, got %g", c.InitialWallet)
	}
	if c.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive, got %g", c.Leverage)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.Start.After(c.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, c.Start.Format(time.DateOnly), c.End.Format(time.DateOnly))
	}
	if c.DefaultFraction <= 0 || c.DefaultFraction > 1 {
		return fmt.Errorf("position fraction must be in (0, 1], got %g", c.DefaultFraction)
	}
	for k, f := range c.Fractions {
		if f <= 0 || f > 1 {
			return fmt.Errorf("position fraction of %s must be in (0, 1], got %g", k, f)
		}
	}
	if c.Fees.Taker < 0 || c.Fees.Maker < 0 {
		return fmt.Errorf("fees must not be negative")
	}
	return nil
}

// DaySnapshot is the mark-to-market wallet at the first bar of a day,
// before any trading on that bar.
type DaySnapshot struct {
	Day           time.Time
	Wallet        float64
	Price         float64 // reference instrument open
	LongExposure  float64
	ShortExposure float64
}

// Engine walks the reference instrument's bars and trades every
// instrument of the run from a prebuilt signal index.
type Engine struct {
	cfg    Config
	ref    *market.Series
	series map[string]*market.Series
	index  *signals.Index

	// OnStep, when set, is called after each reference bar is processed.
	OnStep func(t time.Time, l *Ledger)
}

// NewEngine validates cfg and restricts every series to [Start, End].
// ref is the instrument key whose bars drive the simulation.
func NewEngine(cfg Config, ref string, series map[string]*market.Series, ix *signals.Index) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ix == nil {
		return nil, fmt.Errorf("backtest: signal index is required")
	}
	if _, ok := series[ref]; !ok {
		return nil, fmt.Errorf("%w: reference %q", ErrUnknownInstrument, ref)
	}

	e := &Engine{
		cfg:    cfg,
		series: make(map[string]*market.Series, len(series)),
		index:  ix,
	}
	for k, s := range series {
		e.series[k] = s.Truncate(cfg.Start, cfg.End)
	}
	e.ref = e.series[ref]
	return e, nil
}

// bar returns the bar of an instrument at t. Instruments without a bar at
// t are skipped by the caller.
func (e *Engine) bar(key string, t time.Time) (market.Bar, bool) {
	s, ok := e.series[key]
	if !ok {
		return market.Bar{}, false
	}
	return s.At(t)
}

// Run simulates the whole reference timeline. For every bar it:
//  1. records a DaySnapshot when the bar starts a new calendar day,
//  2. closes positions whose close signal fires (longs, then shorts),
//  3. opens positions whose open signal fires (longs, then shorts).
//
// Closing always happens before opening at the same timestamp: the open
// phase sees the ledger after this bar's closes, so an instrument whose
// close and open signals both fire at t is closed and then reopened at t.
func (e *Engine) Run() Result {
	ledger := NewLedger(e.cfg.InitialWallet, Sizing{
		Leverage:        e.cfg.Leverage,
		DefaultFraction: e.cfg.DefaultFraction,
		Fractions:       e.cfg.Fractions,
	}, e.cfg.Fees)

	var (
		days    []DaySnapshot
		prevDay time.Time
	)

	for _, ref := range e.ref.Bars {
		t := ref.Time

		if day := ref.Day(); !day.Equal(prevDay) {
			days = append(days, e.snapshot(ledger, day, ref))
			prevDay = day
		}

		e.closePhase(ledger, t)
		e.openPhase(ledger, t)

		if e.OnStep != nil {
			e.OnStep(t, ledger)
		}
	}

	return newResult(ledger, days)
}

func (e *Engine) snapshot(l *Ledger, day time.Time, ref market.Bar) DaySnapshot {
	wallet := l.MarkToMarket(func(key string) (float64, bool) {
		b, ok := e.bar(key, ref.Time)
		return b.Open, ok
	})
	long, short := l.Exposure()
	return DaySnapshot{
		Day:           day,
		Wallet:        wallet,
		Price:         ref.Open,
		LongExposure:  long,
		ShortExposure: short,
	}
}

func (e *Engine) closePhase(l *Ledger, t time.Time) {
	if l.OpenCount() == 0 {
		return
	}
	for _, step := range []struct {
		action signals.Action
		side   market.Side
	}{
		{signals.CloseLong, market.Long},
		{signals.CloseShort, market.Short},
	} {
		for _, key := range e.index.Keys(step.action, t) {
			p, ok := l.Position(key)
			if !ok || p.Side != step.side {
				continue
			}
			b, ok := e.bar(key, t)
			if !ok {
				continue
			}
			l.Close(key, b, ReasonMarket)
		}
	}
}

func (e *Engine) openPhase(l *Ledger, t time.Time) {
	for _, step := range []struct {
		action signals.Action
		side   market.Side
	}{
		{signals.OpenLong, market.Long},
		{signals.OpenShort, market.Short},
	} {
		for _, key := range e.index.Keys(step.action, t) {
			b, ok := e.bar(key, t)
			if !ok {
				continue
			}
			l.TryOpen(key, step.side, b, ReasonMarket)
		}
	}
}
