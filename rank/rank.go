// Package rank scores sweep results so that the best parameter sets can be
// picked across pairs and timeframes.
package rank

import (
	"math"
	"sort"

	"github.com/rustyeddy/trixsweep/journal"
)

// Weights of the normalized columns in the weighted score.
type Weights struct {
	Wallet    float64
	WinRate   float64
	Sharpe    float64
	AvgProfit float64
	Drawdown  float64
}

var DefaultWeights = Weights{Wallet: 2, WinRate: 1, Sharpe: 2, AvgProfit: 1, Drawdown: 1}

// Scored is a result row with its normalized columns, scores and ranks.
// Rank 1 is the best row; equal scores share a rank.
type Scored struct {
	journal.RunRecord

	WalletNorm    float64
	WinRateNorm   float64
	SharpeNorm    float64
	AvgProfitNorm float64
	DrawdownNorm  float64

	Score         float64
	WeightedScore float64
	Rank          int
	WeightedRank  int
}

// Score normalizes every metric by its column maximum and ranks the rows
// by plain and weighted score. The input order is preserved.
func Score(rows []journal.RunRecord, w Weights) []Scored {
	out := make([]Scored, len(rows))
	if len(rows) == 0 {
		return out
	}

	maxWallet, maxWin, maxSharpe, maxAvg, maxDD := math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, r := range rows {
		maxWallet = math.Max(maxWallet, r.Wallet)
		maxWin = math.Max(maxWin, r.WinRate)
		maxSharpe = math.Max(maxSharpe, r.SharpeRatio)
		maxAvg = math.Max(maxAvg, r.AvgProfit)
		maxDD = math.Max(maxDD, r.MaxDrawdown)
	}

	for i, r := range rows {
		s := Scored{
			RunRecord:     r,
			WalletNorm:    ratio(r.Wallet, maxWallet),
			WinRateNorm:   ratio(r.WinRate, maxWin),
			SharpeNorm:    ratio(r.SharpeRatio, maxSharpe),
			AvgProfitNorm: ratio(r.AvgProfit, maxAvg),
			// drawdowns are <= 0; the shallowest scores 1
			DrawdownNorm: ratio(100+r.MaxDrawdown, 100+maxDD),
		}
		s.Score = s.WalletNorm + s.WinRateNorm + s.SharpeNorm + s.AvgProfitNorm + s.DrawdownNorm
		s.WeightedScore = s.WalletNorm*w.Wallet + s.WinRateNorm*w.WinRate +
			s.SharpeNorm*w.Sharpe + s.AvgProfitNorm*w.AvgProfit + s.DrawdownNorm*w.Drawdown
		out[i] = s
	}

	assignRanks(out, func(s Scored) float64 { return s.Score }, func(s *Scored, r int) { s.Rank = r })
	assignRanks(out, func(s Scored) float64 { return s.WeightedScore }, func(s *Scored, r int) { s.WeightedRank = r })
	return out
}

func ratio(v, max float64) float64 {
	if max == 0 {
		return 0
	}
	r := v / max
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// assignRanks gives rank 1 to the highest score. Ties share the lowest
// rank of the group.
func assignRanks(rows []Scored, score func(Scored) float64, set func(*Scored, int)) {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return score(rows[idx[a]]) > score(rows[idx[b]])
	})
	rank := 0
	for pos, i := range idx {
		if pos == 0 || score(rows[i]) != score(rows[idx[pos-1]]) {
			rank = pos + 1
		}
		set(&rows[i], rank)
	}
}
