package backtest

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/candlelab/backtester/journal"
	"github.com/candlelab/backtester/market"
)

// RunInfo describes where a result came from, for the journal.
type RunInfo struct {
	RunID     string
	Created   time.Time
	Symbol    string
	Timeframe string
	Dataset   string
}

// Record converts a result into a journal row with its trades and equity.
func Record(info RunInfo, candles []market.Candle, res Result) (journal.BacktestRun, error) {
	params, err := res.Params.JSON()
	if err != nil {
		return journal.BacktestRun{}, err
	}

	start, end := market.Span(candles)
	m := res.Metrics

	r := journal.BacktestRun{
		RunID:     info.RunID,
		Created:   info.Created,
		Symbol:    info.Symbol,
		Timeframe: info.Timeframe,
		Dataset:   info.Dataset,
		Strategy:  string(res.Strategy),
		Params:    params,
		Start:     start,
		End:       end,
		Candles:   len(candles),

		InitialCapital: res.Options.InitialCapital,
		FinalEquity:    m.FinalEquity,

		NetProfit:    m.NetProfit,
		ReturnPct:    m.TotalReturnPct,
		Trades:       m.TotalTrades,
		Wins:         m.WinningTrades,
		Losses:       m.LosingTrades,
		WinRate:      m.WinRate,
		GrossProfit:  m.GrossProfit,
		GrossLoss:    m.GrossLoss,
		ProfitFactor: m.ProfitFactor,
		AvgWin:       m.AvgWin,
		AvgLoss:      m.AvgLoss,
		LargestWin:   m.LargestWin,
		LargestLoss:  m.LargestLoss,
		MaxDDPct:     m.MaxDrawdownPct,
		Sharpe:       m.Sharpe,
		Sortino:      m.Sortino,
		Calmar:       m.Calmar,
	}

	for _, t := range res.Trades {
		r.TradeRecords = append(r.TradeRecords, journal.TradeRecord{
			TradeID:    t.ID,
			Side:       t.Side.String(),
			EntryPrice: t.EntryPrice,
			EntryTime:  time.Unix(t.EntryTime, 0).UTC(),
			ExitPrice:  t.ExitPrice,
			ExitTime:   time.Unix(t.ExitTime, 0).UTC(),
			Quantity:   t.Quantity,
			PnL:        t.PnL,
			PnLPct:     t.PnLPercent,
			Reason:     t.CloseReason,
		})
	}
	for _, e := range res.Equity {
		r.Equity = append(r.Equity, journal.EquitySnapshot{
			Time:  time.Unix(e.Time, 0).UTC(),
			Value: e.Value,
		})
	}
	return r, nil
}

func PrintBacktestRun(w io.Writer, r journal.BacktestRun) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)
	fmt.Fprintf(w, "Timeframe:     %s\n", r.Timeframe)
	if r.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", r.Dataset)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Candles:       %d\n", r.Candles)

	if len(r.Params) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Parameters")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "%s\n", r.Params)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate)
	fmt.Fprintf(w, "Avg Win:       %.2f\n", r.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      %.2f\n", r.AvgLoss)
	fmt.Fprintf(w, "Largest Win:   %.2f\n", r.LargestWin)
	fmt.Fprintf(w, "Largest Loss:  %.2f\n", r.LargestLoss)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "End Equity:    %.2f\n", r.FinalEquity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.NetProfit)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.ReturnPct)
	if math.IsInf(r.ProfitFactor, 1) {
		fmt.Fprintln(w, "Profit Factor: inf")
	} else {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.ProfitFactor)
	}
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDDPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk-Adjusted")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Sharpe:        %.3f\n", r.Sharpe)
	fmt.Fprintf(w, "Sortino:       %.3f\n", r.Sortino)
	fmt.Fprintf(w, "Calmar:        %.3f\n", r.Calmar)

	if r.OrgPath != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Org Report:    %s\n", r.OrgPath)
	}

	fmt.Fprintln(w, "==================================================")
}

// PrintSweep writes the top n ranked results as a table. n <= 0 prints all.
func PrintSweep(w io.Writer, ranked []SweepResult, n int) {
	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}

	fmt.Fprintf(w, "%-4s %-6s %8s %9s %8s %8s %9s  %s\n",
		"rank", "point", "trades", "return%", "win%", "maxdd%", "sharpe", "params")
	for i, r := range ranked[:n] {
		params, _ := r.Params.JSON()
		m := r.Metrics
		fmt.Fprintf(w, "%-4d %-6d %8d %9.2f %8.2f %8.2f %9.3f  %s\n",
			i+1, r.Index, m.TotalTrades, m.TotalReturnPct, m.WinRate, m.MaxDrawdownPct, m.Sharpe, params)
	}
}
