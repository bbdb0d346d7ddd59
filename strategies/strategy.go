package strategies

import (
	"errors"
	"fmt"
	"strings"

	"github.com/candlelab/backtester/indicators"
)

// Kind tags one of the built-in rule-based strategy families.
type Kind string

const (
	MACrossover       Kind = "ma-crossover"
	RSIReversal       Kind = "rsi"
	BollingerBreakout Kind = "bollinger"
	MACD              Kind = "macd"
	Momentum          Kind = "momentum"
)

// ErrUnknownStrategy is returned for a Kind outside the registry.
var ErrUnknownStrategy = errors.New("unknown strategy")

type family struct {
	label    string
	aliases  []string
	warmup   func(Params) int
	generate func(closes []float64, p Params) []Signal
}

var registry = map[Kind]family{
	MACrossover: {
		label:    "MA Crossover",
		aliases:  []string{"ma", "ma-cross", "macross", "sma-cross"},
		warmup:   func(p Params) int { return p.MASlow },
		generate: maCrossover,
	},
	RSIReversal: {
		label:    "RSI Reversal",
		aliases:  []string{"rsi-reversal"},
		warmup:   func(p Params) int { return p.RSIPeriod },
		generate: rsiReversal,
	},
	BollingerBreakout: {
		label:    "Bollinger Breakout",
		aliases:  []string{"bb", "bollinger-breakout"},
		warmup:   func(p Params) int { return p.BBPeriod },
		generate: bollingerBreakout,
	},
	MACD: {
		label:    "MACD",
		aliases:  []string{"macd-cross"},
		warmup:   func(p Params) int { return p.MACDSlow + p.MACDSignal },
		generate: macdCross,
	},
	Momentum: {
		label:    "Momentum",
		aliases:  []string{"mom"},
		warmup:   func(p Params) int { return p.MomentumPeriod },
		generate: momentum,
	},
}

// Kinds lists the strategy families in display order.
func Kinds() []Kind {
	return []Kind{MACrossover, RSIReversal, BollingerBreakout, MACD, Momentum}
}

// ParseKind resolves a strategy name or alias, case-insensitively.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	for k, f := range registry {
		if n == string(k) {
			return k, nil
		}
		for _, a := range f.aliases {
			if n == a {
				return k, nil
			}
		}
	}
	return "", fmt.Errorf("%w %q (supported: ma-crossover, rsi, bollinger, macd, momentum)", ErrUnknownStrategy, name)
}

// Valid reports whether k is a registered family.
func (k Kind) Valid() bool {
	_, ok := registry[k]
	return ok
}

// Label is the human readable family name, used in trade close reasons.
func (k Kind) Label() string {
	if f, ok := registry[k]; ok {
		return f.label
	}
	return string(k)
}

func (k Kind) String() string { return string(k) }

// Warmup returns the first candle index at which k may emit a non-HOLD signal.
func Warmup(k Kind, p Params) (int, error) {
	f, ok := registry[k]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownStrategy, k)
	}
	return f.warmup(p), nil
}

// Generate maps closes onto one signal per candle for the given family.
func Generate(k Kind, closes []float64, p Params) ([]Signal, error) {
	f, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, k)
	}
	return f.generate(closes, p), nil
}

// start is the first index a family compares against its previous value.
func start(warmup int) int {
	if warmup < 1 {
		return 1
	}
	return warmup
}

func maCrossover(closes []float64, p Params) []Signal {
	out := make([]Signal, len(closes))
	fast := indicators.SMA(closes, p.MAFast)
	slow := indicators.SMA(closes, p.MASlow)

	for i := start(p.MASlow); i < len(closes); i++ {
		pf, f := fast[i-1], fast[i]
		ps, s := slow[i-1], slow[i]
		if !pf.Valid || !f.Valid || !ps.Valid || !s.Valid {
			continue
		}
		out[i] = cross(pf.Value, f.Value, ps.Value, s.Value, ps.Value, s.Value)
	}
	return out
}

func rsiReversal(closes []float64, p Params) []Signal {
	out := make([]Signal, len(closes))
	rsi := indicators.RSI(closes, p.RSIPeriod)

	lo, hi := p.RSIOversold, p.RSIOverbought
	for i := start(p.RSIPeriod); i < len(closes); i++ {
		out[i] = cross(rsi[i-1], rsi[i], lo, lo, hi, hi)
	}
	return out
}

func bollingerBreakout(closes []float64, p Params) []Signal {
	out := make([]Signal, len(closes))
	bb := indicators.Bollinger(closes, p.BBPeriod, p.BBStdDev)

	for i := start(p.BBPeriod); i < len(closes); i++ {
		pl, l := bb.Lower[i-1], bb.Lower[i]
		pu, u := bb.Upper[i-1], bb.Upper[i]
		if !pl.Valid || !l.Valid || !pu.Valid || !u.Valid {
			continue
		}
		out[i] = cross(closes[i-1], closes[i], pl.Value, l.Value, pu.Value, u.Value)
	}
	return out
}

func macdCross(closes []float64, p Params) []Signal {
	out := make([]Signal, len(closes))
	hist := indicators.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal).Histogram

	for i := start(p.MACDSlow + p.MACDSignal); i < len(closes); i++ {
		out[i] = cross(hist[i-1], hist[i], 0, 0, 0, 0)
	}
	return out
}

func momentum(closes []float64, p Params) []Signal {
	out := make([]Signal, len(closes))
	mom := indicators.Momentum(closes, p.MomentumPeriod)

	th := p.MomentumThreshold
	for i := start(p.MomentumPeriod); i < len(closes); i++ {
		out[i] = cross(mom[i-1], mom[i], th, th, -th, -th)
	}
	return out
}
