package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores runs, their trades and equity curves in one database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordRun inserts the run with all of its trades and equity points in a
// single transaction.
func (j *SQLite) RecordRun(ctx context.Context, r BacktestRun) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pf := sql.NullFloat64{Float64: r.ProfitFactor, Valid: !math.IsInf(r.ProfitFactor, 0)}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO backtest_runs
		(run_id, created, symbol, timeframe, strategy, params, dataset, start_time, end_time, candles,
		 initial_capital, final_equity, net_profit, return_pct, trades, wins, losses, win_rate,
		 gross_profit, gross_loss, profit_factor, avg_win, avg_loss, largest_win, largest_loss,
		 max_dd_pct, sharpe, sortino, calmar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.Unix(), r.Symbol, r.Timeframe, r.Strategy, string(r.Params), r.Dataset,
		r.Start.Unix(), r.End.Unix(), r.Candles,
		r.InitialCapital, r.FinalEquity, r.NetProfit, r.ReturnPct, r.Trades, r.Wins, r.Losses, r.WinRate,
		r.GrossProfit, r.GrossLoss, pf, r.AvgWin, r.AvgLoss, r.LargestWin, r.LargestLoss,
		r.MaxDDPct, r.Sharpe, r.Sortino, r.Calmar,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}

	tradeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
		(run_id, trade_id, side, entry_price, entry_time, exit_price, exit_time, quantity, pnl, pnl_pct, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tradeStmt.Close()

	for _, t := range r.TradeRecords {
		_, err := tradeStmt.ExecContext(ctx,
			r.RunID, t.TradeID, t.Side, t.EntryPrice, t.EntryTime.Unix(),
			t.ExitPrice, t.ExitTime.Unix(), t.Quantity, t.PnL, t.PnLPct, t.Reason,
		)
		if err != nil {
			return fmt.Errorf("insert trade %d: %w", t.TradeID, err)
		}
	}

	eqStmt, err := tx.PrepareContext(ctx, `INSERT INTO equity (run_id, time, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer eqStmt.Close()

	for _, e := range r.Equity {
		if _, err := eqStmt.ExecContext(ctx, r.RunID, e.Time.Unix(), e.Value); err != nil {
			return fmt.Errorf("insert equity: %w", err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
