package market

import (
	"fmt"
	"io"
	"time"
)

// Gap kinds.
const (
	GapMinor      = "minor"
	GapWeekend    = "weekend"
	GapSuspicious = "suspicious"
)

// Gap is a run of missing candles between two present ones.
type Gap struct {
	Start   int64 // open time of the first missing candle
	Missing int   // number of missing intervals
	Kind    string
}

type GapStats struct {
	Candles        int
	Expected       int // candles a complete series over the same span would hold
	Missing        int
	GapCount       int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapKind string
}

// FindGaps returns the holes in candles sampled at tf.
func FindGaps(candles []Candle, tf Timeframe) []Gap {
	step := tf.Seconds()
	if step <= 0 {
		return nil
	}

	var gaps []Gap
	for i := 1; i < len(candles); i++ {
		missing := int((candles[i].Time-candles[i-1].Time)/step) - 1
		if missing <= 0 {
			continue
		}
		start := candles[i-1].Time + step
		gaps = append(gaps, Gap{
			Start:   start,
			Missing: missing,
			Kind:    classifyGap(start, int64(missing)*step),
		})
	}
	return gaps
}

// classifyGap labels a gap of gapSeconds starting at start (unix seconds).
func classifyGap(start, gapSeconds int64) string {
	wd := time.Unix(start, 0).UTC().Weekday()
	gapMinutes := gapSeconds / 60

	// A day or more starting Fri/Sat/Sun is a market weekend (UTC heuristic).
	if gapMinutes >= 60*24 {
		if wd == time.Friday || wd == time.Saturday || wd == time.Sunday {
			return GapWeekend
		}
		return GapSuspicious
	}
	if gapMinutes >= 10 {
		return GapSuspicious
	}
	return GapMinor
}

// Stats summarises coverage and gaps of candles sampled at tf.
func Stats(candles []Candle, tf Timeframe) GapStats {
	s := GapStats{Candles: len(candles)}
	if len(candles) == 0 || tf.Seconds() == 0 {
		return s
	}

	s.Expected = int((candles[len(candles)-1].Time-candles[0].Time)/tf.Seconds()) + 1

	for _, g := range FindGaps(candles, tf) {
		s.GapCount++
		s.Missing += g.Missing
		if g.Missing > s.LongestGap {
			s.LongestGap = g.Missing
			s.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case GapWeekend:
			s.WeekendGaps++
		case GapSuspicious:
			s.SuspiciousGaps++
		}
	}
	return s
}

// PrintStats writes a coverage report for candles sampled at tf.
func PrintStats(w io.Writer, candles []Candle, tf Timeframe) {
	s := Stats(candles, tf)
	start, end := Span(candles)

	fmt.Fprintln(w, "---- Candle Stats ----")
	fmt.Fprintf(w, "Range: %s → %s (%s)\n", start.Format(time.RFC3339), end.Format(time.RFC3339), tf)
	fmt.Fprintf(w, "         Candles: %d\n", s.Candles)
	fmt.Fprintf(w, "        Expected: %d\n", s.Expected)
	fmt.Fprintf(w, "         Missing: %d\n", s.Missing)
	fmt.Fprintf(w, "      Total Gaps: %d\n", s.GapCount)
	fmt.Fprintf(w, "    Weekend Gaps: %d\n", s.WeekendGaps)
	fmt.Fprintf(w, " Suspicious Gaps: %d\n", s.SuspiciousGaps)
	fmt.Fprintf(w, "Longest Gap: %d candles (%s)\n", s.LongestGap, s.LongestGapKind)
	fmt.Fprintln(w, "----------------------")
}

// Resample aggregates candles sampled at from into buckets of to. Buckets
// are aligned to multiples of to since the unix epoch; empty buckets are
// skipped.
func Resample(candles []Candle, from, to Timeframe) ([]Candle, error) {
	in, out := from.Seconds(), to.Seconds()
	if in == 0 || out == 0 {
		return nil, fmt.Errorf("resample %s to %s: unknown timeframe", from, to)
	}
	if out < in || out%in != 0 {
		return nil, fmt.Errorf("resample %s to %s: target must be a multiple of source", from, to)
	}

	var res []Candle
	for _, c := range candles {
		bucket := c.Time - c.Time%out
		n := len(res)
		if n == 0 || res[n-1].Time != bucket {
			res = append(res, Candle{
				Time:   bucket,
				Open:   c.Open,
				High:   c.High,
				Low:    c.Low,
				Close:  c.Close,
				Volume: c.Volume,
			})
			continue
		}

		b := &res[n-1]
		if c.High > b.High {
			b.High = c.High
		}
		if c.Low < b.Low {
			b.Low = c.Low
		}
		b.Close = c.Close
		b.Volume += c.Volume
	}
	return res, nil
}
