package indicators

// SMA calculates the Simple Moving Average for the given period.
//
// out[i] is the mean of series[i-period+1..i] for i >= period-1; earlier
// entries are Invalid. A non-positive period yields an all-invalid series.
func SMA(series []float64, period int) []Point {
	out := make([]Point, len(series))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(series); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += series[j]
		}
		out[i] = Valid(sum / float64(period))
	}
	return out
}

// EMA calculates the Exponential Moving Average for the given period.
//
// The series is seeded rather than left invalid: out[0] is series[0], and
// until index period the output is the cumulative mean of everything seen so
// far. From index period onwards the usual 2/(period+1) smoothing applies.
// MACD depends on this exact warm-up.
func EMA(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}

	k := 2.0 / float64(period+1)

	out[0] = series[0]
	sum := series[0]
	for i := 1; i < len(series); i++ {
		if i < period {
			sum += series[i]
			out[i] = sum / float64(i+1)
			continue
		}
		out[i] = out[i-1] + (series[i]-out[i-1])*k
	}
	return out
}
