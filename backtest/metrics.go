package backtest

import "math"

// minutesPerYear is used to annualise per-candle returns.
const minutesPerYear = 365 * 24 * 60

// Metrics is the aggregate performance report of a run. Every ratio falls
// back to 0 when its denominator is 0, except ProfitFactor which is +Inf when
// there are profits and no losses.
type Metrics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	NetProfit      float64
	FinalEquity    float64
	TotalReturnPct float64
	WinRate        float64

	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64
	AvgWin       float64
	AvgLoss      float64
	LargestWin   float64
	LargestLoss  float64

	MaxDrawdownPct float64
	Sharpe         float64
	Sortino        float64
	Calmar         float64
}

// PeriodsPerYear converts a sampling interval into the number of candles per year.
func PeriodsPerYear(intervalMinutes int) float64 {
	return float64(minutesPerYear) / float64(intervalMinutes)
}

// CalculateMetrics rolls trades and the equity curve up into Metrics.
// A losing trade is any trade with pnl <= 0.
func CalculateMetrics(trades []Trade, equity []EquityPoint, initialCapital float64, intervalMinutes int) Metrics {
	var m Metrics

	for _, t := range trades {
		if !t.Closed {
			continue
		}
		m.TotalTrades++
		m.NetProfit += t.PnL

		if t.PnL > 0 {
			m.WinningTrades++
			m.GrossProfit += t.PnL
			if m.WinningTrades == 1 || t.PnL > m.LargestWin {
				m.LargestWin = t.PnL
			}
		} else {
			m.LosingTrades++
			m.GrossLoss += t.PnL
			if m.LosingTrades == 1 || t.PnL < m.LargestLoss {
				m.LargestLoss = t.PnL
			}
		}
	}
	m.GrossLoss = math.Abs(m.GrossLoss)

	m.TotalReturnPct = 100 * m.NetProfit / initialCapital

	if m.TotalTrades > 0 {
		m.WinRate = 100 * float64(m.WinningTrades) / float64(m.TotalTrades)
	}

	switch {
	case m.GrossLoss > 0:
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	case m.GrossProfit > 0:
		m.ProfitFactor = math.Inf(1)
	}

	if m.WinningTrades > 0 {
		m.AvgWin = m.GrossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = m.GrossLoss / float64(m.LosingTrades)
	}

	m.FinalEquity = initialCapital
	if n := len(equity); n > 0 {
		m.FinalEquity = equity[n-1].Value
	}

	m.MaxDrawdownPct = maxDrawdown(equity)

	returns := stepReturns(equity)
	ppy := PeriodsPerYear(intervalMinutes)
	m.Sharpe = sharpe(returns, ppy)
	m.Sortino = sortino(returns, ppy)

	if m.MaxDrawdownPct != 0 {
		m.Calmar = m.TotalReturnPct / m.MaxDrawdownPct
	}

	return m
}

// maxDrawdown returns the largest percent decline from a running peak. The
// first point seeds the peak.
func maxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Value
	maxDD := 0.0
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		dd := (peak - p.Value) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// stepReturns returns the simple return between consecutive equity points.
func stepReturns(equity []EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		out[i-1] = (equity[i].Value - prev) / prev
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// popStdDev is the population standard deviation (denominator len(xs)).
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	v := 0.0
	for _, x := range xs {
		d := x - m
		v += d * d
	}
	return math.Sqrt(v / float64(len(xs)))
}

func sharpe(returns []float64, periodsPerYear float64) float64 {
	std := popStdDev(returns)
	if std == 0 {
		return 0
	}
	return mean(returns) / std * math.Sqrt(periodsPerYear)
}

// sortino uses the root mean square of the strictly negative returns as the
// downside deviation.
func sortino(returns []float64, periodsPerYear float64) float64 {
	sumSq := 0.0
	n := 0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	downside := math.Sqrt(sumSq / float64(n))
	if downside == 0 {
		return 0
	}
	return mean(returns) / downside * math.Sqrt(periodsPerYear)
}
