package market

import (
	"fmt"
	"strings"
)

// Timeframe is the sampling interval of a candle series, e.g. "15m" or "4h".
type Timeframe string

const (
	M1  Timeframe = "1m"
	M5  Timeframe = "5m"
	M15 Timeframe = "15m"
	H1  Timeframe = "1h"
	H4  Timeframe = "4h"
	D1  Timeframe = "1d"
)

var timeframeMinutes = map[Timeframe]int{
	M1:  1,
	M5:  5,
	M15: 15,
	H1:  60,
	H4:  240,
	D1:  1440,
}

// Timeframes lists the supported timeframes from shortest to longest.
func Timeframes() []Timeframe {
	return []Timeframe{M1, M5, M15, H1, H4, D1}
}

// ParseTimeframe accepts the short forms above as well as the upper-case
// OANDA style aliases (M1, M5, M15, H1, H4, D).
func ParseTimeframe(s string) (Timeframe, error) {
	v := strings.TrimSpace(s)
	switch strings.ToUpper(v) {
	case "M1":
		return M1, nil
	case "M5":
		return M5, nil
	case "M15":
		return M15, nil
	case "H1":
		return H1, nil
	case "H4":
		return H4, nil
	case "D", "D1":
		return D1, nil
	}

	tf := Timeframe(strings.ToLower(v))
	if _, ok := timeframeMinutes[tf]; !ok {
		return "", fmt.Errorf("unknown timeframe %q (supported: 1m, 5m, 15m, 1h, 4h, 1d)", s)
	}
	return tf, nil
}

// Minutes returns the sampling interval in minutes, or 0 for an unknown timeframe.
func (tf Timeframe) Minutes() int {
	return timeframeMinutes[tf]
}

// Seconds returns the sampling interval in seconds.
func (tf Timeframe) Seconds() int64 {
	return int64(tf.Minutes()) * 60
}

func (tf Timeframe) String() string {
	return string(tf)
}
