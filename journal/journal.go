// Package journal persists backtest runs: a SQLite store, CSV exports and
// Org-mode reports.
package journal

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run id is not in the journal.
var ErrRunNotFound = errors.New("backtest run not found")

// TradeRecord is one completed trade of a run.
type TradeRecord struct {
	TradeID    int
	Side       string
	EntryPrice float64
	EntryTime  time.Time
	ExitPrice  float64
	ExitTime   time.Time
	Quantity   float64
	PnL        float64
	PnLPct     float64
	Reason     string
}

// EquitySnapshot is the marked account value at one candle.
type EquitySnapshot struct {
	Time  time.Time
	Value float64
}

// Journal records finished runs.
type Journal interface {
	RecordRun(ctx context.Context, run BacktestRun) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRun(context.Context, BacktestRun) error { return nil }
func (Nop) Close() error                                 { return nil }
