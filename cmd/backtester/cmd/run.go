package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/candlelab/backtester/backtest"
	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/pkg/id"
	"github.com/candlelab/backtester/strategies"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Backtest one strategy over a candle file",
	Long: `Run simulates a single strategy over a candle CSV (optionally .xz
compressed), prints the performance report and records the run in the
configured journal.

Flags override the config file.

Examples:
  backtester run --candles data/btc-1h.csv --strategy rsi --param rsi_period=7
  backtester run -c backtest.yaml --db runs.db --org run.org`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// settingFlags are the flags shared by run and sweep.
type settingFlags struct {
	candles   string
	strategy  string
	symbol    string
	timeframe string
	capital   float64
	params    []string
}

func (f *settingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.candles, "candles", "f", "", "candle CSV file, .xz supported")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "strategy: ma-crossover, rsi, bollinger, macd, momentum")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "symbol label for the report")
	cmd.Flags().StringVarP(&f.timeframe, "timeframe", "t", "", "candle timeframe: 1m, 5m, 15m, 1h, 4h, 1d")
	cmd.Flags().Float64Var(&f.capital, "capital", 0, "initial capital")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "strategy parameter key=value (repeatable)")
}

// settings is the resolved input of a backtest.
type settings struct {
	candlesFile string
	candles     []market.Candle
	kind        strategies.Kind
	symbol      string
	timeframe   market.Timeframe
	params      strategies.Params
	opts        backtest.Options
}

// resolve merges flags over the loaded config and reads the candles.
func (f *settingFlags) resolve() (settings, error) {
	bc := cfg.Backtest
	file := cfg.Data.CandlesFile
	if f.candles != "" {
		file = f.candles
	}
	if f.strategy != "" {
		bc.Strategy = f.strategy
	}
	if f.symbol != "" {
		bc.Symbol = f.symbol
	}
	if f.timeframe != "" {
		bc.Timeframe = f.timeframe
	}
	if f.capital != 0 {
		bc.InitialCapital = f.capital
	}

	var s settings
	var err error

	if s.kind, err = strategies.ParseKind(bc.Strategy); err != nil {
		return s, err
	}
	if s.timeframe, err = market.ParseTimeframe(bc.Timeframe); err != nil {
		return s, err
	}

	s.params = cfg.Params
	for _, kv := range f.params {
		if err := s.params.SetString(kv); err != nil {
			return s, err
		}
	}

	if file == "" {
		return s, fmt.Errorf("no candle file: use --candles or data.candles_file")
	}
	s.candlesFile = file
	if s.candles, err = market.LoadCandlesFile(s.candlesFile); err != nil {
		return s, fmt.Errorf("load candles: %w", err)
	}

	s.symbol = bc.Symbol
	s.opts = backtest.Options{
		InitialCapital:  bc.InitialCapital,
		IntervalMinutes: s.timeframe.Minutes(),
	}

	log.Info("candles loaded",
		zap.String("file", s.candlesFile),
		zap.Int("count", len(s.candles)),
		zap.Stringer("strategy", s.kind),
		zap.Stringer("timeframe", s.timeframe),
	)
	return s, nil
}

var (
	runFlags   settingFlags
	runDBPath  string
	runJournal string
	runOrgPath string
	runNotes   []string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runFlags.register(runCmd)
	runCmd.Flags().StringVar(&runJournal, "journal", "", "journal type: none, csv, sqlite")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "SQLite journal path (implies --journal sqlite)")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "write an Org-mode report to this file")
	runCmd.Flags().StringArrayVar(&runNotes, "note", nil, "observation added to the Org report (repeatable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := runFlags.resolve()
	if err != nil {
		return err
	}

	jc := cfg.Journal
	if runJournal != "" {
		jc.Type = runJournal
	}
	if runDBPath != "" {
		jc.Type = "sqlite"
		jc.DBPath = runDBPath
	}
	if runOrgPath != "" {
		jc.OrgFile = runOrgPath
	}

	j, err := openJournal(jc)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	r := &backtest.Runner{
		Candles:  s.candles,
		Strategy: s.kind,
		Params:   s.params,
		Options:  s.opts,
		Info: backtest.RunInfo{
			RunID:     id.New(),
			Created:   time.Now().UTC(),
			Symbol:    s.symbol,
			Timeframe: s.timeframe.String(),
			Dataset:   filepath.Base(s.candlesFile),
		},
		Journal: j,
		OrgPath: jc.OrgFile,
		Notes:   runNotes,
		Log:     log,
	}

	started := time.Now()
	rec, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	mets.ObserveRun(rec.Strategy, rec.Symbol, rec.Trades, rec.ReturnPct, rec.Sharpe, time.Since(started))

	backtest.PrintBacktestRun(cmd.OutOrStdout(), rec)
	return nil
}
