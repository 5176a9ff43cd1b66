package journal

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/trixsweep/backtest"
)

// OrgReport is the data rendered into an Org-mode run summary.
type OrgReport struct {
	Run    RunRecord
	Wins   int
	Losses int
	NetPL  float64
	Return float64 // percent
	First  time.Time
	Last   time.Time
	Trades []backtest.Trade // most recent trades
}

// NewOrgReport summarizes a run for WriteOrg. At most lastN trades are
// listed.
func NewOrgReport(run RunRecord, res backtest.Result, lastN int) OrgReport {
	rep := OrgReport{Run: run, NetPL: res.NetPL()}
	for _, t := range res.Trades {
		if t.PnL() > 0 {
			rep.Wins++
		} else {
			rep.Losses++
		}
	}
	if run.InitialWallet > 0 {
		rep.Return = (res.Wallet - run.InitialWallet) / run.InitialWallet * 100
	}
	if n := len(res.Days); n > 0 {
		rep.First, rep.Last = res.Days[0].Day, res.Days[n-1].Day
	}
	rep.Trades = res.Trades
	if lastN > 0 && len(rep.Trades) > lastN {
		rep.Trades = rep.Trades[len(rep.Trades)-lastN:]
	}
	return rep
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "(open)"
		}
		return t.Format("2006-01-02")
	},
	"stamp": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}

var orgTmpl = template.Must(template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate))

// RenderOrg returns the Org block of a report.
func RenderOrg(rep OrgReport) (string, error) {
	buf := new(bytes.Buffer)
	if err := orgTmpl.Execute(buf, rep); err != nil {
		return "", fmt.Errorf("render org: %w", err)
	}
	return buf.String(), nil
}

// WriteOrg renders rep to path.
func WriteOrg(path string, rep OrgReport) error {
	s, err := RenderOrg(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const RunOrgTemplate = `
* BACKTEST: TRIX {{.Run.Pair}} {{.Run.Timeframe}}
:PROPERTIES:
:RUN_ID:      {{if .Run.RunID}}{{.Run.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    trix
:EXCHANGE:    {{.Run.Exchange}}
:TIMEFRAME:   {{.Run.Timeframe}}
:PAIR:        {{.Run.Pair}}
:START_DATE:  {{date .First}}
:END_DATE:    {{date .Last}}
:START_BAL:   {{printf "%.2f" .Run.InitialWallet}}
:END_BAL:     {{printf "%.2f" .Run.Wallet}}
:NET_PL:      {{printf "%.2f" .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .Return}}
:MAX_DD_PCT:  {{printf "%.2f" .Run.MaxDrawdown}}
:TRADES:      {{.Run.TotalTrades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:SHARPE:      {{printf "%.2f" .Run.SharpeRatio}}
:END:

** Strategy Parameters
| Parameter          | Value |
|--------------------+-------|
| TRIX length        | {{.Run.TrixLength}} |
| Signal length      | {{.Run.SignalLength}} |
| Signal smoothing   | {{.Run.SignalType}} |
| Trend MA length    | {{.Run.LongMALength}} |
| Position size %    | {{printf "%.2f" (mul100 .Run.Size)}} |
| Sides              | {{.Run.Sides}} |
| Entry mode         | {{.Run.EntryMode}} |

** Performance Summary
- Net P/L:       *{{printf "%.2f" .NetPL}}*
- Return:        *{{printf "%.2f" .Return}}%*
- Max Drawdown:  *{{printf "%.2f" .Run.MaxDrawdown}}%*
- Win Rate:      *{{printf "%.2f" (mul100 .Run.WinRate)}}%*
- Avg Profit:    *{{printf "%.2f" (mul100 .Run.AvgProfit)}}%*

{{- if .Trades }}

** Trades
| Side | Open | Close | Open Px | Close Px | P/L |
|------+------+-------+---------+----------+-----|
{{- range .Trades }}
| {{.Side}} | {{stamp .OpenTime}} | {{stamp .CloseTime}} | {{printf "%.4f" .OpenPrice}} | {{printf "%.4f" .ClosePrice}} | {{printf "%.2f" .PnL}} |
{{- end }}
{{- end }}
`
