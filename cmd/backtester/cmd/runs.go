package cmd

import (
	"fmt"
	"os"

	"github.com/candlelab/backtester/backtest"
	"github.com/candlelab/backtester/journal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query stored backtest runs",
	Long: `Query and export runs stored in the SQLite journal.

Subcommands:
  list    - List recent runs
  show    - Print one run as a report or Org-mode heading
  trades  - Print a run's trades as Org-mode entries
  export  - Write a run's trades and equity curve as CSV

Examples:
  backtester runs list --db runs.db
  backtester runs show 01HV6Z... --org
  backtester runs export 01HV6Z... --trades trades.csv --equity equity.csv`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "Print a run's trades as Org-mode entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsTrades,
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run's trades and equity curve as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

var (
	runsDBPath    string
	runsLimit     int
	runsShowOrg   bool
	runsTradesOut string
	runsEquityOut string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsTradesCmd)
	runsCmd.AddCommand(runsExportCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "", "SQLite journal path (default journal.db_path)")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list (0 = all)")
	runsShowCmd.Flags().BoolVar(&runsShowOrg, "org", false, "print as an Org-mode heading")
	runsExportCmd.Flags().StringVar(&runsTradesOut, "trades", "", "trades CSV output (default stdout)")
	runsExportCmd.Flags().StringVar(&runsEquityOut, "equity", "", "equity CSV output")
}

func openRunsDB() (*journal.SQLite, error) {
	path := runsDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database: use --db or journal.db_path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return journal.NewSQLite(path)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-26s  %-16s  %-12s %-10s %-4s %7s %9s %9s\n",
		"run_id", "created", "strategy", "symbol", "tf", "trades", "return%", "sharpe")
	for _, r := range runs {
		fmt.Fprintf(out, "%-26s  %-16s  %-12s %-10s %-4s %7d %9.2f %9.3f\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Strategy, r.Symbol, r.Timeframe,
			r.Trades, r.ReturnPct, r.Sharpe)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	r, err := j.LoadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if runsShowOrg {
		s, err := r.FormatOrg()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}

	backtest.PrintBacktestRun(cmd.OutOrStdout(), r)
	return nil
}

func runRunsTrades(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	r, err := j.LoadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(r))
	return nil
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	r, err := j.LoadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if runsTradesOut == "" {
		if err := journal.WriteTradesCSV(cmd.OutOrStdout(), r.RunID, r.TradeRecords); err != nil {
			return err
		}
	} else if err := writeFile(runsTradesOut, func(f *os.File) error {
		return journal.WriteTradesCSV(f, r.RunID, r.TradeRecords)
	}); err != nil {
		return err
	}

	if runsEquityOut != "" {
		if err := writeFile(runsEquityOut, func(f *os.File) error {
			return journal.WriteEquityCSV(f, r.RunID, r.Equity)
		}); err != nil {
			return err
		}
	}

	log.Info("run exported",
		zap.String("run_id", r.RunID),
		zap.Int("trades", len(r.TradeRecords)),
		zap.Int("equity", len(r.Equity)),
	)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
