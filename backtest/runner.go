package backtest

import (
	"context"
	"fmt"

	"github.com/candlelab/backtester/journal"
	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/strategies"
	"go.uber.org/zap"
)

// Runner executes one backtest and hands the outcome to a journal.
type Runner struct {
	Candles  []market.Candle
	Strategy strategies.Kind
	Params   strategies.Params
	Options  Options

	Info    RunInfo
	Journal journal.Journal // nil disables recording
	OrgPath string          // optional Org report
	Notes   []string

	Log *zap.Logger
}

// Run backtests, records and returns the run.
func (r *Runner) Run(ctx context.Context) (journal.BacktestRun, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	if r.Info.RunID == "" {
		return journal.BacktestRun{}, fmt.Errorf("backtest: run id is required")
	}

	log.Debug("backtest starting",
		zap.String("run_id", r.Info.RunID),
		zap.Stringer("strategy", r.Strategy),
		zap.Int("candles", len(r.Candles)),
	)

	res, err := Run(r.Candles, r.Strategy, r.Params, r.Options)
	if err != nil {
		return journal.BacktestRun{}, err
	}

	rec, err := Record(r.Info, r.Candles, res)
	if err != nil {
		return journal.BacktestRun{}, err
	}
	rec.Notes = r.Notes

	if r.OrgPath != "" {
		rec.OrgPath = r.OrgPath
		if err := rec.WriteOrg(); err != nil {
			return rec, fmt.Errorf("write org report: %w", err)
		}
	}

	if r.Journal != nil {
		if err := r.Journal.RecordRun(ctx, rec); err != nil {
			return rec, fmt.Errorf("record run %s: %w", rec.RunID, err)
		}
	}

	log.Info("backtest finished",
		zap.String("run_id", rec.RunID),
		zap.Int("trades", rec.Trades),
		zap.Float64("return_pct", rec.ReturnPct),
		zap.Float64("sharpe", rec.Sharpe),
	)
	return rec, nil
}
