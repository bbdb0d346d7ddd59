package indicators

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSINeutral is reported while the RSI is warming up.
const RSINeutral = 50.0

// RSI calculates the Relative Strength Index of closes.
//
// Entries before index period are RSINeutral. After that, average gain and
// average loss are plain means of the last period close-to-close changes,
// recomputed for every index (no Wilder smoothing). A window without losses
// reads 100.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = RSINeutral
	}
	if period <= 0 {
		return out
	}

	for i := period; i < len(closes); i++ {
		gains, losses := 0.0, 0.0
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}

		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
