package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

const runColumns = `run_id, created, symbol, timeframe, strategy, params, dataset, start_time, end_time, candles,
	initial_capital, final_equity, net_profit, return_pct, trades, wins, losses, win_rate,
	gross_profit, gross_loss, profit_factor, avg_win, avg_loss, largest_win, largest_loss,
	max_dd_pct, sharpe, sortino, calmar`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (BacktestRun, error) {
	var (
		r                       BacktestRun
		params                  string
		created, startTs, endTs int64
		pf                      sql.NullFloat64
	)
	err := s.Scan(
		&r.RunID, &created, &r.Symbol, &r.Timeframe, &r.Strategy, &params, &r.Dataset,
		&startTs, &endTs, &r.Candles,
		&r.InitialCapital, &r.FinalEquity, &r.NetProfit, &r.ReturnPct, &r.Trades, &r.Wins, &r.Losses, &r.WinRate,
		&r.GrossProfit, &r.GrossLoss, &pf, &r.AvgWin, &r.AvgLoss, &r.LargestWin, &r.LargestLoss,
		&r.MaxDDPct, &r.Sharpe, &r.Sortino, &r.Calmar,
	)
	if err != nil {
		return BacktestRun{}, err
	}

	r.Params = []byte(params)
	r.Created = time.Unix(created, 0).UTC()
	r.Start = time.Unix(startTs, 0).UTC()
	r.End = time.Unix(endTs, 0).UTC()
	r.ProfitFactor = pf.Float64
	if !pf.Valid {
		r.ProfitFactor = math.Inf(1)
	}
	return r, nil
}

// GetRun returns a run summary by id, without trades or equity.
func (j *SQLite) GetRun(ctx context.Context, runID string) (BacktestRun, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM backtest_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BacktestRun{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return BacktestRun{}, err
	}
	return r, nil
}

// LoadRun returns a run with its trades and equity curve.
func (j *SQLite) LoadRun(ctx context.Context, runID string) (BacktestRun, error) {
	r, err := j.GetRun(ctx, runID)
	if err != nil {
		return BacktestRun{}, err
	}
	if r.TradeRecords, err = j.ListTrades(ctx, runID); err != nil {
		return BacktestRun{}, err
	}
	if r.Equity, err = j.ListEquity(ctx, runID); err != nil {
		return BacktestRun{}, err
	}
	return r, nil
}

// ListRuns returns run summaries, newest first. limit <= 0 returns all runs.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]BacktestRun, error) {
	q := `SELECT ` + runColumns + ` FROM backtest_runs ORDER BY created DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BacktestRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns a run's trades in id order.
func (j *SQLite) ListTrades(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT trade_id, side, entry_price, entry_time, exit_price, exit_time, quantity, pnl, pnl_pct, reason
		FROM trades
		WHERE run_id = ?
		ORDER BY trade_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec             TradeRecord
			entryTs, exitTs int64
		)
		if err := rows.Scan(
			&rec.TradeID,
			&rec.Side,
			&rec.EntryPrice,
			&entryTs,
			&rec.ExitPrice,
			&exitTs,
			&rec.Quantity,
			&rec.PnL,
			&rec.PnLPct,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		rec.EntryTime = time.Unix(entryTs, 0).UTC()
		rec.ExitTime = time.Unix(exitTs, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns a run's equity curve in time order.
func (j *SQLite) ListEquity(ctx context.Context, runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, value
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var (
			ts  int64
			val float64
		)
		if err := rows.Scan(&ts, &val); err != nil {
			return nil, err
		}
		out = append(out, EquitySnapshot{Time: time.Unix(ts, 0).UTC(), Value: val})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
