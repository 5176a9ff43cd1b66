// Package signals turns per-instrument indicator conditions into the
// timestamp keyed action sets consumed by the backtest engine.
package signals

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/trixsweep/market"
)

// Action is one of the four decisions a signal can trigger.
type Action int

const (
	OpenLong Action = iota
	CloseLong
	OpenShort
	CloseShort
)

func (a Action) String() string {
	switch a {
	case OpenLong:
		return "open-long"
	case CloseLong:
		return "close-long"
	case OpenShort:
		return "open-short"
	case CloseShort:
		return "close-short"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Index maps timestamps to the sorted instrument keys triggering each
// action. It is read-only once built.
type Index struct {
	actions [4]map[int64][]string
}

// Keys returns the instruments triggering action a at t, sorted by key.
// The returned slice must not be modified.
func (ix *Index) Keys(a Action, t time.Time) []string {
	if ix == nil {
		return nil
	}
	return ix.actions[a][t.UnixNano()]
}

// Count returns the number of (timestamp, key) pairs for an action.
func (ix *Index) Count(a Action) int {
	n := 0
	for _, keys := range ix.actions[a] {
		n += len(keys)
	}
	return n
}

// Conditions are the per-bar boolean decisions of one instrument, aligned
// with Times.
type Conditions struct {
	Times      []time.Time
	OpenLong   []bool
	CloseLong  []bool
	OpenShort  []bool
	CloseShort []bool
}

func (c Conditions) validate() error {
	n := len(c.Times)
	for a, col := range [][]bool{c.OpenLong, c.CloseLong, c.OpenShort, c.CloseShort} {
		if col != nil && len(col) != n {
			return fmt.Errorf("%s: %d values for %d bars", Action(a), len(col), n)
		}
	}
	return nil
}

// Build assembles the index. Actions of a disabled side are left empty.
func Build(sides market.Sides, conds map[string]Conditions) (*Index, error) {
	ix := &Index{}
	for a := range ix.actions {
		ix.actions[a] = map[int64][]string{}
	}

	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		c := conds[key]
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("signals %s: %w", key, err)
		}

		cols := [4][]bool{}
		if sides.Long {
			cols[OpenLong], cols[CloseLong] = c.OpenLong, c.CloseLong
		}
		if sides.Short {
			cols[OpenShort], cols[CloseShort] = c.OpenShort, c.CloseShort
		}

		for a, col := range cols {
			for i, fire := range col {
				if !fire {
					continue
				}
				ts := c.Times[i].UnixNano()
				// keys are visited in sorted order so each slice stays sorted
				ix.actions[a][ts] = append(ix.actions[a][ts], key)
			}
		}
	}
	return ix, nil
}
