package rank

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Print renders scored rows as a console table.
func Print(w io.Writer, rows []Scored) {
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"W.Rank", "Rank", "Pair", "TF", "Params", "Size", "Wallet", "Win %", "Sharpe", "Avg %", "Max DD %", "Trades", "W.Score"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)

	for _, r := range rows {
		table.Append([]string{
			fmt.Sprintf("%d", r.WeightedRank),
			fmt.Sprintf("%d", r.Rank),
			r.Pair,
			r.Timeframe,
			ParamKey(r),
			fmt.Sprintf("%.2f", r.Size),
			p.Sprintf("%.2f", r.Wallet),
			fmt.Sprintf("%.1f", r.WinRate*100),
			fmt.Sprintf("%.2f", r.SharpeRatio),
			fmt.Sprintf("%.2f", r.AvgProfit*100),
			fmt.Sprintf("%.2f", r.MaxDrawdown),
			p.Sprintf("%d", r.TotalTrades),
			fmt.Sprintf("%.3f", r.WeightedScore),
		})
	}
	table.Render()
}

// PrintRecurrence renders parameter recurrence counts.
func PrintRecurrence(w io.Writer, rec []Recurrence) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Group", "Params", "Count", "%"})
	table.SetAutoWrapText(false)
	for _, r := range rec {
		table.Append([]string{r.Group, r.Params, fmt.Sprintf("%d", r.Count), fmt.Sprintf("%.1f", r.Percent)})
	}
	table.Render()
}
