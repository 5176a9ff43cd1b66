package market

import (
	"fmt"
	"sort"
	"time"
)

// Series is the ordered bar history of one instrument (pair + timeframe).
// Bar times are strictly ascending; lookups by timestamp are O(1).
type Series struct {
	Pair      string
	Timeframe string
	Step      time.Duration
	Bars      []Bar

	duplicates int
	index      map[int64]int
}

// Gap is a run of missing bars between two present bars.
type Gap struct {
	After   time.Time // last bar before the gap
	Missing int       // number of missing intervals
}

type GapStats struct {
	Total      int
	Present    int
	Missing    int
	GapCount   int
	LongestGap int
	Duplicates int
}

// NewSeries sorts bars by time and keeps the first bar for any duplicated
// timestamp.
func NewSeries(pair, timeframe string, bars []Bar) (*Series, error) {
	step, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	s := &Series{
		Pair:      pair,
		Timeframe: timeframe,
		Step:      step,
		Bars:      sorted[:0],
	}
	for _, b := range sorted {
		b.Time = b.Time.UTC()
		if n := len(s.Bars); n > 0 && s.Bars[n-1].Time.Equal(b.Time) {
			s.duplicates++
			continue
		}
		s.Bars = append(s.Bars, b)
	}
	s.buildIndex()
	return s, nil
}

func (s *Series) buildIndex() {
	s.index = make(map[int64]int, len(s.Bars))
	for i, b := range s.Bars {
		s.index[b.Time.UnixNano()] = i
	}
}

// Key is the instrument key of the series.
func (s *Series) Key() string {
	return Key(s.Timeframe, s.Pair)
}

func (s *Series) Len() int {
	return len(s.Bars)
}

// At returns the bar opening exactly at t.
func (s *Series) At(t time.Time) (Bar, bool) {
	i := s.indexOf(t)
	if i < 0 {
		return Bar{}, false
	}
	return s.Bars[i], true
}

// indexOf returns the position of the bar opening at t, or -1.
func (s *Series) indexOf(t time.Time) int {
	i, ok := s.index[t.UnixNano()]
	if !ok {
		return -1
	}
	return i
}

func (s *Series) First() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[0].Time
}

func (s *Series) Last() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Time
}

// Closes returns the close prices in bar order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Truncate returns a new series restricted to bars within [start, end].
// A zero start or end leaves that side open. The receiver is not modified.
func (s *Series) Truncate(start, end time.Time) *Series {
	lo := 0
	if !start.IsZero() {
		lo = sort.Search(len(s.Bars), func(i int) bool {
			return !s.Bars[i].Time.Before(start)
		})
	}
	hi := len(s.Bars)
	if !end.IsZero() {
		hi = sort.Search(len(s.Bars), func(i int) bool {
			return s.Bars[i].Time.After(end)
		})
	}
	if hi < lo {
		hi = lo
	}

	out := &Series{
		Pair:      s.Pair,
		Timeframe: s.Timeframe,
		Step:      s.Step,
		Bars:      append([]Bar(nil), s.Bars[lo:hi]...),
	}
	out.buildIndex()
	return out
}

// Append adds bars newer than the current last bar; older or duplicate
// timestamps are ignored. It returns the number of bars added.
func (s *Series) Append(bars ...Bar) int {
	added := 0
	for _, b := range bars {
		b.Time = b.Time.UTC()
		if len(s.Bars) > 0 && !b.Time.After(s.Last()) {
			continue
		}
		s.Bars = append(s.Bars, b)
		s.index[b.Time.UnixNano()] = len(s.Bars) - 1
		added++
	}
	return added
}

// Gaps reports runs of missing bars according to the series step.
func (s *Series) Gaps() []Gap {
	var gaps []Gap
	if s.Step <= 0 {
		return gaps
	}
	for i := 1; i < len(s.Bars); i++ {
		delta := s.Bars[i].Time.Sub(s.Bars[i-1].Time)
		if missing := int(delta/s.Step) - 1; missing > 0 {
			gaps = append(gaps, Gap{After: s.Bars[i-1].Time, Missing: missing})
		}
	}
	return gaps
}

func (s *Series) Stats() GapStats {
	st := GapStats{
		Present:    len(s.Bars),
		Duplicates: s.duplicates,
	}
	for _, g := range s.Gaps() {
		st.GapCount++
		st.Missing += g.Missing
		if g.Missing > st.LongestGap {
			st.LongestGap = g.Missing
		}
	}
	st.Total = st.Present + st.Missing
	return st
}

func (s *Series) String() string {
	return fmt.Sprintf("%s %d bars [%s .. %s]", s.Key(), len(s.Bars),
		s.First().Format(time.RFC3339), s.Last().Format(time.RFC3339))
}
