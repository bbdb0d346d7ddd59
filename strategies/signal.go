package strategies

// Signal is the per-candle decision produced by a strategy.
type Signal int8

const (
	Hold Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// crossesAbove reports a move from at-or-below b to strictly above it.
func crossesAbove(prevA, a, prevB, b float64) bool {
	return prevA <= prevB && a > b
}

// crossesBelow reports a move from at-or-above b to strictly below it.
func crossesBelow(prevA, a, prevB, b float64) bool {
	return prevA >= prevB && a < b
}

// cross evaluates a buy line crossed upward and a sell line crossed downward.
// The buy test is checked first.
func cross(prevA, a, prevBuy, buy, prevSell, sell float64) Signal {
	switch {
	case crossesAbove(prevA, a, prevBuy, buy):
		return Buy
	case crossesBelow(prevA, a, prevSell, sell):
		return Sell
	default:
		return Hold
	}
}
