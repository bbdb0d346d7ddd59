package backtest

import (
	"testing"

	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	H = strategies.Hold
	B = strategies.Buy
	S = strategies.Sell
)

// candlesFrom builds hourly candles whose OHLC all equal the given closes.
func candlesFrom(closes ...float64) []market.Candle {
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			Time:  1704067200 + int64(i)*3600,
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return out
}

func TestSimulateTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		closes     []float64
		signals    []strategies.Signal
		wantTrades int
		wantReason []string
		wantEquity []float64
	}{
		{
			name:       "no signals",
			closes:     []float64{100, 101, 102},
			signals:    []strategies.Signal{H, H, H},
			wantEquity: []float64{10000, 10000, 10000},
		},
		{
			name:       "sell while flat is ignored",
			closes:     []float64{100, 90},
			signals:    []strategies.Signal{S, S},
			wantEquity: []float64{10000, 10000},
		},
		{
			name:       "buy then sell",
			closes:     []float64{100, 110, 120},
			signals:    []strategies.Signal{B, H, S},
			wantTrades: 1,
			wantReason: []string{"test signal"},
			wantEquity: []float64{10000, 11000, 12000},
		},
		{
			name:       "second buy while long is ignored",
			closes:     []float64{100, 50, 200},
			signals:    []strategies.Signal{B, B, S},
			wantTrades: 1,
			wantReason: []string{"test signal"},
			wantEquity: []float64{10000, 5000, 20000},
		},
		{
			name:       "open position closed at the end",
			closes:     []float64{100, 100, 80},
			signals:    []strategies.Signal{H, B, H},
			wantTrades: 1,
			wantReason: []string{EndOfBacktest},
			wantEquity: []float64{10000, 10000, 8000},
		},
		{
			name:       "two round trips",
			closes:     []float64{100, 200, 200, 100},
			signals:    []strategies.Signal{B, S, B, S},
			wantTrades: 2,
			wantReason: []string{"test signal", "test signal"},
			wantEquity: []float64{10000, 20000, 20000, 10000},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			candles := candlesFrom(tt.closes...)
			trades, equity, err := Simulate(candles, tt.signals, 10000, "test signal")
			require.NoError(t, err)

			require.Len(t, trades, tt.wantTrades)
			for i, tr := range trades {
				assert.Equal(t, tt.wantReason[i], tr.CloseReason)
				assert.Equal(t, i+1, tr.ID)
				assert.True(t, tr.Closed)
				assert.Equal(t, Long, tr.Side)
			}

			require.Len(t, equity, len(candles))
			for i, e := range equity {
				assert.Equal(t, candles[i].Time, e.Time)
				assert.InDelta(t, tt.wantEquity[i], e.Value, 1e-9)
			}
		})
	}
}

func TestSimulateTradeFields(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(100, 125, 150)
	trades, _, err := Simulate(candles, []strategies.Signal{B, S, H}, 10000, "x")
	require.NoError(t, err)
	require.Len(t, trades, 1)

	tr := trades[0]
	assert.Equal(t, 100.0, tr.EntryPrice)
	assert.Equal(t, candles[0].Time, tr.EntryTime)
	assert.Equal(t, 125.0, tr.ExitPrice)
	assert.Equal(t, candles[1].Time, tr.ExitTime)
	assert.Equal(t, 100.0, tr.Quantity)
	assert.Equal(t, 2500.0, tr.PnL)
	assert.Equal(t, 25.0, tr.PnLPercent)
}

func TestSimulateCapitalConservation(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(100, 103, 97, 120, 111, 90, 95)
	signals := []strategies.Signal{B, H, S, B, S, B, H}

	e := NewEngine(5000, "x")
	require.NoError(t, e.Run(candles, signals))

	sum := 0.0
	for _, tr := range e.Trades {
		sum += tr.PnL
	}
	assert.InDelta(t, 5000+sum, e.Capital, 1e-9)
	assert.False(t, e.Pos.Open)

	last := e.Trades[len(e.Trades)-1]
	assert.Equal(t, EndOfBacktest, last.CloseReason)
	assert.Equal(t, candles[len(candles)-1].Time, last.ExitTime)
	assert.InDelta(t, e.Capital, e.Equity[len(e.Equity)-1].Value, 1e-9)
}

func TestSimulateEmpty(t *testing.T) {
	t.Parallel()

	trades, equity, err := Simulate(nil, nil, 10000, "x")
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Empty(t, equity)
}

func TestSimulateLengthMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := Simulate(candlesFrom(1, 2), []strategies.Signal{H}, 10000, "x")
	assert.Error(t, err)
}

func TestSideString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LONG", Long.String())
	assert.Equal(t, "side(-1)", Side(-1).String())
}
