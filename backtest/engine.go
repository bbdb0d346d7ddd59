package backtest

import (
	"fmt"

	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/strategies"
)

// EndOfBacktest is the close reason of a position still open after the last candle.
const EndOfBacktest = "end of backtest"

// Side: +1 long. Shorting is not supported.
type Side int8

const Long Side = +1

func (s Side) String() string {
	if s == Long {
		return "LONG"
	}
	return fmt.Sprintf("side(%d)", int8(s))
}

// Trade is a completed round trip. It is created on entry and finished once,
// on the exit signal or at the end of the series.
type Trade struct {
	ID          int
	Side        Side
	EntryPrice  float64
	EntryTime   int64
	ExitPrice   float64
	ExitTime    int64
	Quantity    float64
	PnL         float64
	PnLPercent  float64
	CloseReason string
	Closed      bool
}

// EquityPoint is the marked account value at a candle close.
type EquityPoint struct {
	Time  int64
	Value float64
}

// Position is the single open long, if any.
type Position struct {
	Open       bool
	TradeID    int
	EntryPrice float64
	EntryTime  int64
	Quantity   float64
}

// Engine is the FLAT/LONG state machine that turns signals into trades.
// It deploys all capital on every entry and charges no fees.
type Engine struct {
	Reason string // close reason for signal exits

	Capital float64
	Pos     Position
	Trades  []Trade
	Equity  []EquityPoint

	nextID int
}

// NewEngine returns a flat engine holding initialCapital.
func NewEngine(initialCapital float64, reason string) *Engine {
	return &Engine{
		Reason:  reason,
		Capital: initialCapital,
		nextID:  1,
	}
}

// Run feeds every candle and its signal through the engine, then closes any
// open position at the final close.
func (e *Engine) Run(candles []market.Candle, signals []strategies.Signal) error {
	if len(signals) != len(candles) {
		return fmt.Errorf("backtest: %d signals for %d candles", len(signals), len(candles))
	}

	e.Equity = make([]EquityPoint, 0, len(candles))
	for i, c := range candles {
		e.Step(c, signals[i])
	}

	if e.Pos.Open && len(candles) > 0 {
		last := candles[len(candles)-1]
		e.closePosition(last.Time, last.Close, EndOfBacktest)
	}
	return nil
}

// Step applies one candle: a transition if the signal allows one, then an
// equity mark at the close.
func (e *Engine) Step(c market.Candle, sig strategies.Signal) {
	switch {
	case sig == strategies.Buy && !e.Pos.Open:
		e.openPosition(c)
	case sig == strategies.Sell && e.Pos.Open:
		e.closePosition(c.Time, c.Close, e.Reason)
	}

	value := e.Capital
	if e.Pos.Open {
		value = e.Capital * (c.Close / e.Pos.EntryPrice)
	}
	e.Equity = append(e.Equity, EquityPoint{Time: c.Time, Value: value})
}

func (e *Engine) openPosition(c market.Candle) {
	// Fill model: all capital at the bar close. Non-positive prices are not
	// rejected and produce non-finite quantities.
	e.Pos = Position{
		Open:       true,
		TradeID:    e.nextID,
		EntryPrice: c.Close,
		EntryTime:  c.Time,
		Quantity:   e.Capital / c.Close,
	}
	e.nextID++
}

func (e *Engine) closePosition(t int64, exit float64, reason string) {
	p := e.Pos
	e.Pos = Position{}

	pnl := (exit - p.EntryPrice) * p.Quantity
	e.Capital += pnl

	e.Trades = append(e.Trades, Trade{
		ID:          p.TradeID,
		Side:        Long,
		EntryPrice:  p.EntryPrice,
		EntryTime:   p.EntryTime,
		ExitPrice:   exit,
		ExitTime:    t,
		Quantity:    p.Quantity,
		PnL:         pnl,
		PnLPercent:  (exit - p.EntryPrice) / p.EntryPrice * 100,
		CloseReason: reason,
		Closed:      true,
	})
}

// Simulate runs a fresh Engine over candles and signals.
func Simulate(candles []market.Candle, signals []strategies.Signal, initialCapital float64, reason string) ([]Trade, []EquityPoint, error) {
	e := NewEngine(initialCapital, reason)
	if err := e.Run(candles, signals); err != nil {
		return nil, nil, err
	}
	return e.Trades, e.Equity, nil
}
