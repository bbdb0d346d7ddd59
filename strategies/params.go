package strategies

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Params is the numeric configuration shared by all strategy families. Each
// family reads only its own fields. Values are not range-checked here.
type Params struct {
	MAFast int `json:"ma_fast" yaml:"ma_fast"`
	MASlow int `json:"ma_slow" yaml:"ma_slow"`

	RSIPeriod     int     `json:"rsi_period" yaml:"rsi_period"`
	RSIOversold   float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	RSIOverbought float64 `json:"rsi_overbought" yaml:"rsi_overbought"`

	BBPeriod int     `json:"bb_period" yaml:"bb_period"`
	BBStdDev float64 `json:"bb_std_dev" yaml:"bb_std_dev"`

	MACDFast   int `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow   int `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal int `json:"macd_signal" yaml:"macd_signal"`

	MomentumPeriod    int     `json:"momentum_period" yaml:"momentum_period"`
	MomentumThreshold float64 `json:"momentum_threshold" yaml:"momentum_threshold"`
}

// DefaultParams returns the dashboard defaults.
func DefaultParams() Params {
	return Params{
		MAFast:            10,
		MASlow:            30,
		RSIPeriod:         14,
		RSIOversold:       30,
		RSIOverbought:     70,
		BBPeriod:          20,
		BBStdDev:          2,
		MACDFast:          12,
		MACDSlow:          26,
		MACDSignal:        9,
		MomentumPeriod:    10,
		MomentumThreshold: 2,
	}
}

// JSON returns the params encoded as JSON.
func (p Params) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// Keys lists the names accepted by Set, in declaration order.
func Keys() []string {
	return []string{
		"ma_fast", "ma_slow",
		"rsi_period", "rsi_oversold", "rsi_overbought",
		"bb_period", "bb_std_dev",
		"macd_fast", "macd_slow", "macd_signal",
		"momentum_period", "momentum_threshold",
	}
}

// Set assigns a single parameter by its key (see Keys). Dashes are accepted
// in place of underscores.
func (p *Params) Set(key string, value float64) error {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")

	ints := map[string]*int{
		"ma_fast":         &p.MAFast,
		"ma_slow":         &p.MASlow,
		"rsi_period":      &p.RSIPeriod,
		"bb_period":       &p.BBPeriod,
		"macd_fast":       &p.MACDFast,
		"macd_slow":       &p.MACDSlow,
		"macd_signal":     &p.MACDSignal,
		"momentum_period": &p.MomentumPeriod,
	}
	if dst, ok := ints[k]; ok {
		if value != float64(int(value)) {
			return fmt.Errorf("param %s must be a whole number, got %v", k, value)
		}
		*dst = int(value)
		return nil
	}

	floats := map[string]*float64{
		"rsi_oversold":       &p.RSIOversold,
		"rsi_overbought":     &p.RSIOverbought,
		"bb_std_dev":         &p.BBStdDev,
		"momentum_threshold": &p.MomentumThreshold,
	}
	if dst, ok := floats[k]; ok {
		*dst = value
		return nil
	}

	return fmt.Errorf("unknown param %q (supported: %s)", key, strings.Join(Keys(), ", "))
}

// SetString parses "key=value" and applies it with Set.
func (p *Params) SetString(kv string) error {
	key, raw, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("param %q: expected key=value", kv)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("param %q: %w", kv, err)
	}
	return p.Set(key, v)
}
