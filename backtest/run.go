package backtest

import (
	"fmt"

	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/strategies"
)

const (
	DefaultInitialCapital  = 10000.0
	DefaultIntervalMinutes = 60
)

// Options are the account and sampling inputs of a run. Zero values select
// the defaults above.
type Options struct {
	InitialCapital  float64
	IntervalMinutes int
}

func (o Options) withDefaults() Options {
	if o.InitialCapital == 0 {
		o.InitialCapital = DefaultInitialCapital
	}
	if o.IntervalMinutes == 0 {
		o.IntervalMinutes = DefaultIntervalMinutes
	}
	return o
}

// Result is everything a single backtest produces.
type Result struct {
	Strategy strategies.Kind
	Params   strategies.Params
	Options  Options

	Signals []strategies.Signal
	Trades  []Trade
	Equity  []EquityPoint
	Metrics Metrics
}

// Run backtests one strategy over candles. It holds no state between calls:
// identical inputs always give identical results, and concurrent calls are
// independent. An empty candle series yields an empty result, not an error.
func Run(candles []market.Candle, kind strategies.Kind, params strategies.Params, opts Options) (Result, error) {
	opts = opts.withDefaults()

	signals, err := strategies.Generate(kind, market.Closes(candles), params)
	if err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}

	trades, equity, err := Simulate(candles, signals, opts.InitialCapital, kind.Label()+" signal")
	if err != nil {
		return Result{}, err
	}

	return Result{
		Strategy: kind,
		Params:   params,
		Options:  opts,
		Signals:  signals,
		Trades:   trades,
		Equity:   equity,
		Metrics:  CalculateMetrics(trades, equity, opts.InitialCapital, opts.IntervalMinutes),
	}, nil
}
