package indicators

// MACDSeries is the output of MACD, aligned with the input closes.
type MACDSeries struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates EMA(fast) - EMA(slow), its EMA(signal) signal line and the
// histogram between the two. All three EMAs use the seeded warm-up of EMA.
func MACD(closes []float64, fast, slow, signal int) MACDSeries {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, len(closes))
	for i := range line {
		hist[i] = line[i] - sig[i]
	}

	return MACDSeries{MACD: line, Signal: sig, Histogram: hist}
}
