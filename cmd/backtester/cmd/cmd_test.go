package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/candlelab/backtester/journal"
	"github.com/candlelab/backtester/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout. Flag
// variables are package globals, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, logLevel, logDev, metricsFile = "", "", false, ""
	runFlags, sweepFlags = settingFlags{}, settingFlags{}
	runDBPath, runJournal, runOrgPath, runNotes = "", "", "", nil
	sweepGrid, sweepTop, sweepLimit = nil, 10, 0
	runsDBPath, runsLimit, runsShowOrg, runsTradesOut, runsEquityOut = "", 20, false, "", ""
	configInitOutput = "backtest.yaml"
	dataTimeframe, dataFrom, dataTo = "1h", "1m", "1h"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCandles(t *testing.T, dir string) string {
	t.Helper()

	closes := []float64{100, 105, 110, 108, 102, 104, 109, 115, 111, 103, 100, 106, 112, 118, 113, 107}
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		candles[i] = market.Candle{Time: 1704067200 + int64(i)*3600, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
	}

	path := filepath.Join(dir, "candles.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, market.WriteCandlesCSV(f, candles))
	require.NoError(t, f.Close())
	return path
}

func TestRunRunsWorkflow(t *testing.T) {
	dir := t.TempDir()
	candles := writeCandles(t, dir)
	db := filepath.Join(dir, "runs.db")
	org := filepath.Join(dir, "run.org")

	out, err := execute(t, "run", "-f", candles, "-s", "mom", "--symbol", "BTCUSDT",
		"-p", "momentum_period=2", "-p", "momentum_threshold=1",
		"--db", db, "--org", org, "--note", "smoke")
	require.NoError(t, err)
	assert.Contains(t, out, "Backtest Result")
	assert.Contains(t, out, "Strategy:      momentum")
	assert.Contains(t, out, "Dataset:       candles.csv")
	assert.Contains(t, out, "Candles:       16")

	orgData, err := os.ReadFile(org)
	require.NoError(t, err)
	assert.Contains(t, string(orgData), "- smoke")

	j, err := journal.NewSQLite(db)
	require.NoError(t, err)
	runs, err := j.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.Len(t, runs, 1)
	runID := runs[0].RunID

	out, err = execute(t, "runs", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "momentum")

	out, err = execute(t, "runs", "show", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Run ID:        "+runID)

	out, err = execute(t, "runs", "show", runID, "--db", db, "--org")
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID:      "+runID)

	out, err = execute(t, "runs", "trades", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID: "+runID)

	trades := filepath.Join(dir, "trades.csv")
	equity := filepath.Join(dir, "equity.csv")
	_, err = execute(t, "runs", "export", runID, "--db", db, "--trades", trades, "--equity", equity)
	require.NoError(t, err)

	eqData, err := os.ReadFile(equity)
	require.NoError(t, err)
	assert.Equal(t, 17, strings.Count(string(eqData), "\n"), "header plus one row per candle")

	_, err = execute(t, "runs", "show", "nope", "--db", db)
	assert.ErrorIs(t, err, journal.ErrRunNotFound)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	candles := writeCandles(t, dir)

	_, err := execute(t, "run", "-f", candles, "-s", "zigzag", "--journal", "none")
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = execute(t, "run", "-s", "rsi", "--journal", "none")
	assert.ErrorContains(t, err, "no candle file")

	_, err = execute(t, "run", "-f", filepath.Join(dir, "missing.csv"), "--journal", "none")
	assert.ErrorContains(t, err, "load candles")

	_, err = execute(t, "run", "-f", candles, "-p", "ma_fast=1.5", "--journal", "none")
	assert.ErrorContains(t, err, "whole number")

	_, err = execute(t, "runs", "list", "--db", filepath.Join(dir, "absent.db"))
	assert.Error(t, err)
}

func TestSweepCommand(t *testing.T) {
	dir := t.TempDir()
	candles := writeCandles(t, dir)

	out, err := execute(t, "sweep", "-f", candles, "-s", "ma-crossover",
		"-g", "ma_fast=2:4:1", "-g", "ma_slow=5", "--top", "2", "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "MA Crossover BTCUSDT 1h: 16 candles, 3 grid points")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5, "title, blank, header and two results")

	_, err = execute(t, "sweep", "-f", candles, "-g", "ma_fast=4:2:1")
	assert.ErrorContains(t, err, "end before start")
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	candles := writeCandles(t, dir)
	prom := filepath.Join(dir, "backtester.prom")

	_, err := execute(t, "--metrics-file", prom, "run", "-f", candles, "-s", "momentum", "--journal", "none")
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `backtester_runs_total{strategy="momentum"} 1`)

	_, err = execute(t, "--metrics-file", prom, "sweep", "-f", candles, "-s", "rsi", "-g", "rsi_period=3:5:1")
	require.NoError(t, err)

	data, err = os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backtester_sweep_points_total 3")
	assert.NotContains(t, string(data), "momentum", "metrics are per invocation")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bt.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "ma-crossover BTCUSDT 1h")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("backtest:\n  strategy: zigzag\n"), 0o644))
	_, err = execute(t, "config", "validate", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestRunFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	candles := writeCandles(t, dir)
	path := filepath.Join(dir, "bt.yaml")

	content := "backtest:\n  symbol: ETHUSDT\n  timeframe: 4h\n  strategy: bollinger\n" +
		"data:\n  candles_file: " + candles + "\n" +
		"journal:\n  type: csv\n  trades_file: " + filepath.Join(dir, "t.csv") +
		"\n  equity_file: " + filepath.Join(dir, "e.csv") + "\n" +
		"params:\n  bb_period: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := execute(t, "-c", path, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol:        ETHUSDT")
	assert.Contains(t, out, "Timeframe:     4h")
	assert.Contains(t, out, `"bb_period":4`)

	_, err = os.Stat(filepath.Join(dir, "e.csv"))
	assert.NoError(t, err)
}

func TestDataCommands(t *testing.T) {
	dir := t.TempDir()
	candles := writeCandles(t, dir)

	out, err := execute(t, "data", "inspect", candles, "-t", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "Candles: 16")
	assert.Contains(t, out, "Total Gaps: 0")

	resampled := filepath.Join(dir, "candles-4h.csv.xz")
	out, err = execute(t, "data", "resample", candles, resampled, "--from", "1h", "--to", "4h")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 4 4h candles")

	got, err := market.LoadCandlesFile(resampled)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 108.0, got[0].Close)
	assert.Equal(t, 40.0, got[0].Volume)

	_, err = execute(t, "data", "resample", candles, resampled, "--from", "4h", "--to", "1h")
	assert.ErrorContains(t, err, "multiple")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "backtester version "+version+"\n", out)
}
