package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// PrintResult writes a human readable summary of a run.
func PrintResult(w io.Writer, title string, initial float64, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)

	ret := 0.0
	if initial > 0 {
		ret = (r.Wallet - initial) / initial * 100
	}

	table.AppendBulk([][]string{
		{"Start Wallet", fmt.Sprintf("%.2f", initial)},
		{"End Wallet", fmt.Sprintf("%.2f", r.Wallet)},
		{"Net P/L", fmt.Sprintf("%.2f", r.NetPL())},
		{"Return", fmt.Sprintf("%.2f%%", ret)},
		{"Trades", fmt.Sprintf("%d", r.TotalTrades)},
		{"Win Rate", fmt.Sprintf("%.2f%%", r.WinRate*100)},
		{"Avg Profit", fmt.Sprintf("%.2f%%", r.AvgProfit*100)},
		{"Sharpe", fmt.Sprintf("%.2f", r.SharpeRatio)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", r.MaxDrawdown)},
		{"Days", fmt.Sprintf("%d", len(r.Days))},
		{"Open Positions", fmt.Sprintf("%d", len(r.Open))},
	})
	table.Render()

	if len(r.Days) > 0 {
		fmt.Fprintf(w, "Period: %s -> %s\n",
			r.Days[0].Day.Format(time.DateOnly),
			r.Days[len(r.Days)-1].Day.Format(time.DateOnly))
	}
}

// PrintTrades writes the last n trades (all when n <= 0).
func PrintTrades(w io.Writer, trades []Trade, n int) {
	if n > 0 && len(trades) > n {
		trades = trades[len(trades)-n:]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Instrument", "Side", "Open", "Close", "Open Px", "Close Px", "P/L", "Wallet"})
	table.SetAutoWrapText(false)
	for _, t := range trades {
		table.Append([]string{
			t.Instrument,
			t.Side.String(),
			t.OpenTime.Format("2006-01-02 15:04"),
			t.CloseTime.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.4f", t.OpenPrice),
			fmt.Sprintf("%.4f", t.ClosePrice),
			fmt.Sprintf("%.2f", t.PnL()),
			fmt.Sprintf("%.2f", t.Wallet),
		})
	}
	table.Render()
}
