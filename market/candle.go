package market

import "time"

// Candle represents one OHLCV bar. Time is the bar's open in unix seconds.
type Candle struct {
	Time   int64   `json:"time" yaml:"time"`
	Open   float64 `json:"open" yaml:"open"`
	High   float64 `json:"high" yaml:"high"`
	Low    float64 `json:"low" yaml:"low"`
	Close  float64 `json:"close" yaml:"close"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// Timestamp returns the candle open as a UTC time.Time.
func (c Candle) Timestamp() time.Time {
	return time.Unix(c.Time, 0).UTC()
}

// Closes extracts the close prices, aligned with the input.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Span returns the first and last candle times. Both are zero for an empty series.
func Span(candles []Candle) (start, end time.Time) {
	if len(candles) == 0 {
		return time.Time{}, time.Time{}
	}
	return candles[0].Timestamp(), candles[len(candles)-1].Timestamp()
}
