package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// millisThreshold separates unix-second from unix-millisecond timestamps.
const millisThreshold = 1_000_000_000_000

// ErrNotAscending is returned when candle timestamps do not strictly increase.
var ErrNotAscending = errors.New("candles not in strictly ascending time order")

// LoadCandlesFile reads a candle CSV from disk. Files ending in .xz or .lzma
// are decompressed on the fly.
func LoadCandlesFile(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		r = xr
	case strings.HasSuffix(path, ".lzma"):
		lr, err := lzma.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("lzma %s: %w", path, err)
		}
		r = lr
	}

	candles, err := ReadCandlesCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candles, nil
}

// ReadCandlesCSV parses rows of
//
//	time,open,high,low,close[,volume]
//
// A single header row ("time,...") is allowed and blank rows are skipped.
// time may be unix seconds, unix milliseconds or RFC3339.
func ReadCandlesCSV(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out      []Candle
		sawFirst bool
		line     int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") ||
				strings.EqualFold(strings.TrimSpace(row[0]), "timestamp") {
				continue
			}
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if n := len(out); n > 0 && c.Time <= out[n-1].Time {
			return nil, fmt.Errorf("line %d: %w (%d after %d)", line, ErrNotAscending, c.Time, out[n-1].Time)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCandleRow(row []string) (Candle, error) {
	if len(row) < 5 {
		return Candle{}, fmt.Errorf("need at least 5 columns time,open,high,low,close: %v", row)
	}

	ts, err := parseCandleTime(row[0])
	if err != nil {
		return Candle{}, err
	}

	var vals [5]float64
	n := 4
	if len(row) >= 6 {
		n = 5
	}
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad number %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return Candle{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func parseCandleTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n >= millisThreshold {
			return n / 1000, nil
		}
		return n, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return 0, fmt.Errorf("bad time %q: %w", s, err)
		}
		t = t2
	}
	return t.Unix(), nil
}

// WriteCandlesCSV writes candles in the format ReadCandlesCSV accepts.
func WriteCandlesCSV(w io.Writer, candles []Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range candles {
		err := cw.Write([]string{
			strconv.FormatInt(c.Time, 10),
			formatF(c.Open),
			formatF(c.High),
			formatF(c.Low),
			formatF(c.Close),
			formatF(c.Volume),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// SaveCandlesFile writes candles as CSV, xz compressed when path ends in .xz.
func SaveCandlesFile(path string, candles []Candle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if !strings.HasSuffix(path, ".xz") {
		if err := WriteCandlesCSV(f, candles); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	xw, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("xz %s: %w", path, err)
	}
	if err := WriteCandlesCSV(xw, candles); err != nil {
		_ = f.Close()
		return err
	}
	if err := xw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
