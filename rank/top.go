package rank

import (
	"fmt"
	"sort"
)

// Top returns the n best rows by weighted rank (plain rank when weighted
// is false). n <= 0 returns every row, sorted.
func Top(rows []Scored, n int, weighted bool) []Scored {
	out := append([]Scored(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return rankOf(out[i], weighted) < rankOf(out[j], weighted)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func rankOf(s Scored, weighted bool) int {
	if weighted {
		return s.WeightedRank
	}
	return s.Rank
}

// GroupKey identifies a (pair, timeframe) group.
func GroupKey(s Scored) string {
	return s.Timeframe + "-" + s.Pair
}

// TopPerGroup keeps, for every (pair, timeframe), the n best rows by plain
// rank together with the n best by weighted rank, without duplicates.
// Groups are returned in key order.
func TopPerGroup(rows []Scored, n int) []Scored {
	groups := map[string][]Scored{}
	for _, r := range rows {
		k := GroupKey(r)
		groups[k] = append(groups[k], r)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Scored
	for _, k := range keys {
		seen := map[string]bool{}
		for _, weighted := range []bool{false, true} {
			for _, r := range Top(groups[k], n, weighted) {
				id := r.RunID
				if id == "" {
					id = ParamKey(r)
				}
				if seen[id] {
					continue
				}
				seen[id] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// ParamKey is the indicator parameter set of a row.
func ParamKey(s Scored) string {
	return fmt.Sprintf("%d/%d/%s/%d", s.TrixLength, s.SignalLength, s.SignalType, s.LongMALength)
}

// Recurrence is how often a parameter set appears within a group.
type Recurrence struct {
	Group   string
	Params  string
	Count   int
	Percent float64
}

// ParameterRecurrence counts parameter sets per group, typically over the
// output of TopPerGroup, to show which settings keep winning.
func ParameterRecurrence(rows []Scored, group func(Scored) string) []Recurrence {
	type key struct{ group, params string }
	counts := map[key]int{}
	totals := map[string]int{}
	for _, r := range rows {
		k := key{group(r), ParamKey(r)}
		counts[k]++
		totals[k.group]++
	}

	out := make([]Recurrence, 0, len(counts))
	for k, c := range counts {
		out = append(out, Recurrence{
			Group:   k.group,
			Params:  k.params,
			Count:   c,
			Percent: float64(c) / float64(totals[k.group]) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Params < out[j].Params
	})
	return out
}
