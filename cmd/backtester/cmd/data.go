package cmd

import (
	"fmt"

	"github.com/candlelab/backtester/market"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect and prepare candle files",
	Long: `Tools for candle CSV files (optionally .xz compressed).

Subcommands:
  inspect  - Print range, coverage and gaps
  resample - Aggregate candles into a longer timeframe

Examples:
  backtester data inspect data/btc-1m.csv.xz -t 1m
  backtester data resample data/btc-1m.csv.xz data/btc-1h.csv --from 1m --to 1h`,
}

var dataInspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print range, coverage and gaps of a candle file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataInspect,
}

var dataResampleCmd = &cobra.Command{
	Use:   "resample <in> <out>",
	Short: "Aggregate candles into a longer timeframe",
	Args:  cobra.ExactArgs(2),
	RunE:  runDataResample,
}

var (
	dataTimeframe string
	dataFrom      string
	dataTo        string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataInspectCmd)
	dataCmd.AddCommand(dataResampleCmd)

	dataInspectCmd.Flags().StringVarP(&dataTimeframe, "timeframe", "t", "1h", "timeframe of the file")
	dataResampleCmd.Flags().StringVar(&dataFrom, "from", "1m", "timeframe of the input")
	dataResampleCmd.Flags().StringVar(&dataTo, "to", "1h", "timeframe of the output")
}

func runDataInspect(cmd *cobra.Command, args []string) error {
	tf, err := market.ParseTimeframe(dataTimeframe)
	if err != nil {
		return err
	}
	candles, err := market.LoadCandlesFile(args[0])
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	market.PrintStats(cmd.OutOrStdout(), candles, tf)
	return nil
}

func runDataResample(cmd *cobra.Command, args []string) error {
	from, err := market.ParseTimeframe(dataFrom)
	if err != nil {
		return err
	}
	to, err := market.ParseTimeframe(dataTo)
	if err != nil {
		return err
	}

	candles, err := market.LoadCandlesFile(args[0])
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	out, err := market.Resample(candles, from, to)
	if err != nil {
		return err
	}
	if err := market.SaveCandlesFile(args[1], out); err != nil {
		return fmt.Errorf("save candles: %w", err)
	}

	log.Info("candles resampled",
		zap.String("in", args[0]),
		zap.String("out", args[1]),
		zap.Int("candles_in", len(candles)),
		zap.Int("candles_out", len(out)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d %s candles to %s\n", len(out), to, args[1])
	return nil
}
