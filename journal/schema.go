// journal/schema.go
package journal

// Times are unix seconds. A NULL profit_factor means gross profit with no losses.
const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	created INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	strategy TEXT NOT NULL,
	params TEXT NOT NULL,
	dataset TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	candles INTEGER NOT NULL,
	initial_capital REAL NOT NULL,
	final_equity REAL NOT NULL,
	net_profit REAL NOT NULL,
	return_pct REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	gross_profit REAL NOT NULL,
	gross_loss REAL NOT NULL,
	profit_factor REAL,
	avg_win REAL NOT NULL,
	avg_loss REAL NOT NULL,
	largest_win REAL NOT NULL,
	largest_loss REAL NOT NULL,
	max_dd_pct REAL NOT NULL,
	sharpe REAL NOT NULL,
	sortino REAL NOT NULL,
	calmar REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL REFERENCES backtest_runs(run_id),
	trade_id INTEGER NOT NULL,
	side TEXT NOT NULL,
	entry_price REAL NOT NULL,
	entry_time INTEGER NOT NULL,
	exit_price REAL NOT NULL,
	exit_time INTEGER NOT NULL,
	quantity REAL NOT NULL,
	pnl REAL NOT NULL,
	pnl_pct REAL NOT NULL,
	reason TEXT NOT NULL,
	PRIMARY KEY (run_id, trade_id)
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL REFERENCES backtest_runs(run_id),
	time INTEGER NOT NULL,
	value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run_time ON equity(run_id, time);
CREATE INDEX IF NOT EXISTS idx_runs_created ON backtest_runs(created);
`
