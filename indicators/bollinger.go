package indicators

import "math"

// Bands holds Bollinger Bands aligned with the input closes.
type Bands struct {
	Upper  []Point
	Middle []Point
	Lower  []Point
}

// Bollinger calculates Bollinger Bands: the SMA of closes plus and minus
// stdDev population standard deviations of the same trailing window.
// The warm-up window matches SMA.
func Bollinger(closes []float64, period int, stdDev float64) Bands {
	middle := SMA(closes, period)
	b := Bands{
		Upper:  make([]Point, len(closes)),
		Middle: middle,
		Lower:  make([]Point, len(closes)),
	}

	for i, m := range middle {
		if !m.Valid {
			continue
		}
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - m.Value
			variance += d * d
		}
		sigma := math.Sqrt(variance / float64(period))

		b.Upper[i] = Valid(m.Value + stdDev*sigma)
		b.Lower[i] = Valid(m.Value - stdDev*sigma)
	}
	return b
}
