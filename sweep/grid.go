// Package sweep runs one backtest per point of a parameter grid on a
// bounded pool of workers.
package sweep

import (
	"fmt"

	"github.com/rustyeddy/trixsweep/config"
	"github.com/rustyeddy/trixsweep/indicators"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/signals"
)

// Combination is one point of the grid. Ordinal is its position in the
// full grid and is stable for a given configuration.
type Combination struct {
	Ordinal   int
	Timeframe string
	Pair      string
	Params    signals.TrixParams
	Size      float64
}

// Key is the instrument key traded by the combination.
func (c Combination) Key() string {
	return market.Key(c.Timeframe, c.Pair)
}

func (c Combination) String() string {
	return fmt.Sprintf("#%d %s %s size=%g", c.Ordinal, c.Key(), c.Params, c.Size)
}

// Grid expands the Cartesian product of the configured values in the order
// timeframe, pair, trix length, signal length, smoothing, trend length,
// size.
func Grid(cfg *config.SweepConfig) ([]Combination, error) {
	mode, err := signals.ParseEntryMode(cfg.EntryMode)
	if err != nil {
		return nil, err
	}
	smoothings := make([]indicators.Smoothing, len(cfg.TrixSignalTypes))
	for i, s := range cfg.TrixSignalTypes {
		if smoothings[i], err = indicators.ParseSmoothing(s); err != nil {
			return nil, err
		}
	}

	out := make([]Combination, 0, cfg.Combinations())
	for _, tf := range cfg.Timeframes {
		if _, err := market.ParseTimeframe(tf); err != nil {
			return nil, err
		}
		for _, pair := range cfg.Pairs {
			for _, tl := range cfg.TrixLengths {
				for _, sl := range cfg.TrixSignalLengths {
					for _, sm := range smoothings {
						for _, ml := range cfg.LongMALengths {
							for _, size := range cfg.Sizes {
								out = append(out, Combination{
									Ordinal:   len(out),
									Timeframe: tf,
									Pair:      market.Symbol(pair),
									Params: signals.TrixParams{
										TrixLength:   tl,
										SignalLength: sl,
										Smoothing:    sm,
										TrendLength:  ml,
										Mode:         mode,
									},
									Size: size,
								})
							}
						}
					}
				}
			}
		}
	}
	return out, nil
}

// GroupByPair splits combinations per pair. Pairs are returned in order of
// first appearance; each group keeps grid order.
func GroupByPair(combos []Combination) ([]string, map[string][]Combination) {
	var pairs []string
	groups := map[string][]Combination{}
	for _, c := range combos {
		if _, ok := groups[c.Pair]; !ok {
			pairs = append(pairs, c.Pair)
		}
		groups[c.Pair] = append(groups[c.Pair], c)
	}
	return pairs, groups
}
