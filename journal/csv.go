package journal

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var (
	tradeHeader  = []string{"run_id", "trade_id", "side", "entry_time", "entry_price", "exit_time", "exit_price", "quantity", "pnl", "pnl_pct", "reason"}
	equityHeader = []string{"run_id", "time", "value"}
)

// CSVJournal appends every recorded run to a trades file and an equity file.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSVJournal{csv.NewWriter(tf), csv.NewWriter(ef), tf, ef}

	if err := j.trades.Write(tradeHeader); err != nil {
		_ = j.closeFiles()
		return nil, err
	}
	if err := j.equity.Write(equityHeader); err != nil {
		_ = j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(_ context.Context, r BacktestRun) error {
	for _, t := range r.TradeRecords {
		if err := j.trades.Write(tradeRow(r.RunID, t)); err != nil {
			return err
		}
	}
	for _, e := range r.Equity {
		if err := j.equity.Write(equityRow(r.RunID, e)); err != nil {
			return err
		}
	}

	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

// WriteTradesCSV writes trades with a header row.
func WriteTradesCSV(w io.Writer, runID string, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(tradeRow(runID, t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEquityCSV writes an equity curve with a header row.
func WriteEquityCSV(w io.Writer, runID string, equity []EquitySnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(equityHeader); err != nil {
		return err
	}
	for _, e := range equity {
		if err := cw.Write(equityRow(runID, e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func tradeRow(runID string, t TradeRecord) []string {
	return []string{
		runID,
		strconv.Itoa(t.TradeID),
		t.Side,
		t.EntryTime.UTC().Format(time.RFC3339),
		f(t.EntryPrice),
		t.ExitTime.UTC().Format(time.RFC3339),
		f(t.ExitPrice),
		f(t.Quantity),
		f(t.PnL),
		f(t.PnLPct),
		t.Reason,
	}
}

func equityRow(runID string, e EquitySnapshot) []string {
	return []string{runID, e.Time.UTC().Format(time.RFC3339), f(e.Value)}
}

func f(x float64) string {
	return formatFixed(x, 6)
}

func formatFixed(x float64, prec int) string {
	return strconv.FormatFloat(x, 'f', prec, 64)
}
