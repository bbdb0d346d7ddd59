package cmd

import (
	"context"
	"fmt"

	"github.com/candlelab/backtester/config"
	"github.com/candlelab/backtester/journal"
	"github.com/candlelab/backtester/pkg/logger"
	"github.com/candlelab/backtester/pkg/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Backtest rule-based strategies over historical candles",
	Long: `Backtester simulates one of five rule-based strategies over a candle
series and reports trade-by-trade and aggregate performance.

It provides tools for:
  - Running a single backtest from flags or a config file
  - Sweeping strategy parameters over a grid
  - Storing runs in a SQLite journal and exporting them as CSV or Org

Strategies: ma-crossover, rsi, bollinger, macd, momentum`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: writeMetrics,
}

var (
	cfgFile     string
	logLevel    string
	logDev      bool
	metricsFile string

	cfg  *config.Config
	log  = zap.NewNop()
	mets = metrics.New()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command; ctx cancels running sweeps.
func ExecuteContext(ctx context.Context) error {
	defer func() { _ = log.Sync() }()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "human readable log output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")
}

// setup loads the config and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if cfgFile != "" {
		c, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logDev {
		cfg.Log.Development = true
	}

	l, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return err
	}
	log = l
	mets = metrics.New()

	log.Debug("config loaded", zap.String("file", cfgFile), zap.String("command", cmd.Name()))
	return nil
}

func writeMetrics(cmd *cobra.Command, args []string) error {
	if metricsFile == "" {
		return nil
	}
	if err := mets.WriteFile(metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	log.Debug("metrics written", zap.String("file", metricsFile))
	return nil
}

// openJournal returns the journal selected by jc. Type "none" or empty
// returns journal.Nop.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
