package cmd

import (
	"fmt"
	"time"

	"github.com/candlelab/backtester/backtest"
	"github.com/candlelab/backtester/strategies"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest a strategy over a grid of parameters",
	Long: `Sweep runs one backtest per point of a parameter grid, concurrently,
and prints the results ranked by Sharpe ratio, then total return.

Each --grid flag adds an axis key=start:end:step (or key=value).

Example:
  backtester sweep -f data/btc-1h.csv -s ma-crossover \
      --grid ma_fast=5:20:5 --grid ma_slow=20:60:10 --top 5`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

var (
	sweepFlags settingFlags
	sweepGrid  []string
	sweepTop   int
	sweepLimit int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepFlags.register(sweepCmd)
	sweepCmd.Flags().StringArrayVarP(&sweepGrid, "grid", "g", nil, "grid axis key=start:end:step (repeatable)")
	sweepCmd.Flags().IntVar(&sweepTop, "top", 10, "number of ranked results to print (0 = all)")
	sweepCmd.Flags().IntVar(&sweepLimit, "workers", 0, "concurrent backtests (0 = GOMAXPROCS)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	s, err := sweepFlags.resolve()
	if err != nil {
		return err
	}

	axes := make([]strategies.Axis, 0, len(sweepGrid))
	for _, g := range sweepGrid {
		a, err := strategies.ParseAxis(g)
		if err != nil {
			return err
		}
		axes = append(axes, a)
	}

	grid, err := strategies.Grid(s.params, axes)
	if err != nil {
		return err
	}

	log.Info("sweep starting", zap.Int("points", len(grid)), zap.Int("workers", sweepLimit))
	started := time.Now()

	results, err := backtest.Sweep(cmd.Context(), s.candles, s.kind, grid, s.opts, sweepLimit)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	elapsed := time.Since(started)
	log.Info("sweep finished", zap.Int("points", len(results)), zap.Duration("elapsed", elapsed))

	ranked := backtest.Rank(results)
	if len(ranked) > 0 {
		mets.ObserveSweep(s.kind.String(), len(ranked), ranked[0].Metrics.Sharpe, elapsed)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s: %d candles, %d grid points\n\n",
		s.kind.Label(), s.symbol, s.timeframe, len(s.candles), len(grid))
	backtest.PrintSweep(out, ranked, sweepTop)
	return nil
}
