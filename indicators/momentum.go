package indicators

// Momentum calculates the percent change of each close against the close
// period bars earlier. Entries before index period are 0.
func Momentum(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period < 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		prev := closes[i-period]
		out[i] = 100 * (closes[i] - prev) / prev
	}
	return out
}
