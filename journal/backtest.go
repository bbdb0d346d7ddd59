package journal

import (
	"bytes"
	"math"
	"os"
	"text/template"
	"time"
)

// BacktestRun mirrors the backtest_runs table, plus the trades and equity
// curve that belong to it.
type BacktestRun struct {
	RunID     string
	Created   time.Time
	Symbol    string
	Timeframe string
	Dataset   string

	Strategy string
	Params   []byte // strategy params as JSON

	Start   time.Time
	End     time.Time
	Candles int

	// account
	InitialCapital float64
	FinalEquity    float64

	// results
	NetProfit    float64
	ReturnPct    float64
	Trades       int
	Wins         int
	Losses       int
	WinRate      float64
	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64 // +Inf with profits and no losses
	AvgWin       float64
	AvgLoss      float64
	LargestWin   float64
	LargestLoss  float64
	MaxDDPct     float64
	Sharpe       float64
	Sortino      float64
	Calmar       float64

	TradeRecords []TradeRecord
	Equity       []EquitySnapshot

	OrgPath string
	Notes   []string
}

var backtestOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"pf": formatProfitFactor,
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return formatFixed(pf, 2)
}

// FormatOrg renders the run as an Org-mode heading.
func (v *BacktestRun) FormatOrg() (string, error) {
	t, err := template.New("backtest").Funcs(backtestOrgFuncs).Parse(BacktestOrgTemplate)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg writes FormatOrg to v.OrgPath.
func (v *BacktestRun) WriteOrg() error {
	s, err := v.FormatOrg()
	if err != nil {
		return err
	}
	return os.WriteFile(v.OrgPath, []byte(s), 0o644)
}

const BacktestOrgTemplate = `
* BACKTEST: {{.Strategy}} {{.Symbol}} {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:TIMEFRAME:   {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:SYMBOL:      {{.Symbol}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:CANDLES:     {{.Candles}}
:START_CAP:   {{printf "%.2f" .InitialCapital}}
:END_EQUITY:  {{printf "%.2f" .FinalEquity}}
:NET_PL:      {{printf "%.2f" .NetProfit}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:PROFIT_FAC:  {{pf .ProfitFactor}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
#+begin_src json
{{printf "%s" .Params}}
#+end_src

** Performance Summary
- Net P/L:          *{{printf "%.2f" .NetProfit}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .MaxDDPct}}%*
- Win Rate:         *{{printf "%.2f" .WinRate}}%*
- Profit Factor:    *{{pf .ProfitFactor}}*
- Sharpe:           *{{printf "%.3f" .Sharpe}}*
- Sortino:          *{{printf "%.3f" .Sortino}}*
- Calmar:           *{{printf "%.3f" .Calmar}}*

** Trade Distribution
| Outcome | Count | Average | Largest |
|---------+-------+---------+---------|
| Wins    | {{.Wins}} | {{printf "%.2f" .AvgWin}} | {{printf "%.2f" .LargestWin}} |
| Losses  | {{.Losses}} | {{printf "%.2f" .AvgLoss}} | {{printf "%.2f" .LargestLoss}} |
| Total   | {{.Trades}} | | |

{{- if .TradeRecords }}

** Trades
| # | Entry | Exit | Entry Px | Exit Px | P/L | P/L % | Reason |
|---+-------+------+----------+---------+-----+-------+--------|
{{- range .TradeRecords }}
| {{.TradeID}} | {{.EntryTime.Format "2006-01-02 15:04"}} | {{.ExitTime.Format "2006-01-02 15:04"}} | {{printf "%.4f" .EntryPrice}} | {{printf "%.4f" .ExitPrice}} | {{printf "%.2f" .PnL}} | {{printf "%.2f" .PnLPct}} | {{.Reason}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
