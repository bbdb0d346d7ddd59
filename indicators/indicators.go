// Package indicators provides technical analysis indicators for backtesting.
//
// Every function maps a series of length N onto an aligned output of length N.
// Each indicator has its own warm-up convention and callers must honour it:
//
//   - SMA and Bollinger mark warm-up entries invalid (Point.Valid == false)
//   - EMA and MACD are seeded with a cumulative mean and are never invalid
//   - RSI reports a neutral 50 until it has period changes
//   - Momentum reports 0 until it has period+1 closes
package indicators

// Point is an indicator value that may still be warming up.
type Point struct {
	Value float64
	Valid bool
}

// Invalid is the warm-up sentinel used by SMA and Bollinger.
var Invalid = Point{}

// Valid wraps v as a ready value.
func Valid(v float64) Point {
	return Point{Value: v, Valid: true}
}

// Values returns the raw values of a point series, with invalid entries as 0.
func Values(ps []Point) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		if p.Valid {
			out[i] = p.Value
		}
	}
	return out
}
