package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func closed(pnl float64) Trade {
	return Trade{PnL: pnl, Closed: true}
}

func curve(values ...float64) []EquityPoint {
	out := make([]EquityPoint, len(values))
	for i, v := range values {
		out[i] = EquityPoint{Time: int64(i) * 60, Value: v}
	}
	return out
}

func TestCalculateMetricsTradeStats(t *testing.T) {
	t.Parallel()

	trades := []Trade{closed(300), closed(-100), closed(0), closed(100), closed(-200)}
	m := CalculateMetrics(trades, nil, 10000, 60)

	assert.Equal(t, 5, m.TotalTrades)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 3, m.LosingTrades, "zero pnl counts as a loss")
	assert.Equal(t, 100.0, m.NetProfit)
	assert.Equal(t, 1.0, m.TotalReturnPct)
	assert.Equal(t, 40.0, m.WinRate)
	assert.Equal(t, 400.0, m.GrossProfit)
	assert.Equal(t, 300.0, m.GrossLoss)
	assert.InDelta(t, 4.0/3.0, m.ProfitFactor, 1e-12)
	assert.Equal(t, 200.0, m.AvgWin)
	assert.Equal(t, 100.0, m.AvgLoss)
	assert.Equal(t, 300.0, m.LargestWin)
	assert.Equal(t, -200.0, m.LargestLoss)
	assert.Equal(t, 10000.0, m.FinalEquity, "empty curve keeps initial capital")
}

func TestCalculateMetricsProfitFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		trades []Trade
		want   float64
	}{
		{"no trades", nil, 0},
		{"only wins", []Trade{closed(10), closed(5)}, math.Inf(1)},
		{"only losses", []Trade{closed(-10)}, 0},
		{"break even only", []Trade{closed(0)}, 0},
		{"mixed", []Trade{closed(30), closed(-10)}, 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := CalculateMetrics(tt.trades, nil, 10000, 60)
			assert.Equal(t, tt.want, m.ProfitFactor)
		})
	}
}

func TestCalculateMetricsSkipsOpenTrades(t *testing.T) {
	t.Parallel()

	m := CalculateMetrics([]Trade{{PnL: 50}, closed(20)}, nil, 1000, 60)
	assert.Equal(t, 1, m.TotalTrades)
	assert.Equal(t, 20.0, m.NetProfit)
}

func TestCalculateMetricsDegenerateInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		equity []EquityPoint
	}{
		{"empty", nil},
		{"single point", curve(10000)},
		{"flat", curve(10000, 10000, 10000)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := CalculateMetrics(nil, tt.equity, 10000, 60)

			assert.Equal(t, 0.0, m.WinRate)
			assert.Equal(t, 0.0, m.MaxDrawdownPct)
			assert.Equal(t, 0.0, m.Sharpe)
			assert.Equal(t, 0.0, m.Sortino)
			assert.Equal(t, 0.0, m.Calmar)
			assert.Equal(t, 0.0, m.ProfitFactor)
			assert.Equal(t, 10000.0, m.FinalEquity)
		})
	}
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"rising", []float64{100, 110, 120}, 0},
		{"first point seeds peak", []float64{100, 50, 75}, 50},
		{"deepest of two", []float64{100, 90, 200, 150, 210}, 25},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, maxDrawdown(curve(tt.values...)), 1e-12)
		})
	}
}

func TestSharpeAndSortino(t *testing.T) {
	t.Parallel()

	// returns: +10%, -10%
	eq := curve(100, 110, 99)
	r := stepReturns(eq)
	assert.InDeltaSlice(t, []float64{0.1, -0.1}, r, 1e-12)

	ppy := PeriodsPerYear(1440)
	assert.Equal(t, 365.0, ppy)

	// mean 0 gives 0 for both ratios
	assert.InDelta(t, 0, sharpe(r, ppy), 1e-9)
	assert.InDelta(t, 0, sortino(r, ppy), 1e-9)

	r = []float64{0.02, -0.01, 0.03, -0.02}
	mu := 0.005
	std := math.Sqrt((0.015*0.015 + 0.015*0.015 + 0.025*0.025 + 0.025*0.025) / 4)
	down := math.Sqrt((0.01*0.01 + 0.02*0.02) / 2)

	assert.InDelta(t, mu/std*math.Sqrt(ppy), sharpe(r, ppy), 1e-9)
	assert.InDelta(t, mu/down*math.Sqrt(ppy), sortino(r, ppy), 1e-9)
	assert.Equal(t, 0.0, sortino([]float64{0.01, 0.02}, ppy), "no negative returns")
}

func TestCalculateMetricsCalmar(t *testing.T) {
	t.Parallel()

	m := CalculateMetrics([]Trade{closed(1000)}, curve(10000, 8000, 11000), 10000, 60)
	assert.InDelta(t, 20.0, m.MaxDrawdownPct, 1e-12)
	assert.InDelta(t, 10.0, m.TotalReturnPct, 1e-12)
	assert.InDelta(t, 0.5, m.Calmar, 1e-12)
	assert.Equal(t, 11000.0, m.FinalEquity)
}

func TestPeriodsPerYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 525600.0, PeriodsPerYear(1))
	assert.Equal(t, 8760.0, PeriodsPerYear(60))
	assert.Equal(t, 2190.0, PeriodsPerYear(240))
}
