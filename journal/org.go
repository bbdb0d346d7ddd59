package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders one trade of a run as an Org-mode block, with the
// facts in a PROPERTIES drawer and empty review headings to fill in.
func FormatTradeOrg(r BacktestRun, t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade %d: %s %s (%s)\n", t.TradeID, r.Symbol, t.Side, shortID(r.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", r.RunID)
	fmt.Fprintf(&b, ":TRADE_ID: %d\n", t.TradeID)
	fmt.Fprintf(&b, ":STRATEGY: %s\n", r.Strategy)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", r.Symbol)
	fmt.Fprintf(&b, ":QUANTITY: %s\n", formatFixed(t.Quantity, 6))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %s\n", formatFixed(t.EntryPrice, 4))
	fmt.Fprintf(&b, ":EXIT_PRICE: %s\n", formatFixed(t.ExitPrice, 4))
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":EXIT_TIME: %s\n", t.ExitTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":PNL: %s\n", formatFixed(t.PnL, 2))
	fmt.Fprintf(&b, ":PNL_PCT: %s\n", formatFixed(t.PnLPct, 2))
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:\n\n")
	b.WriteString("*** Setup\n- \n\n")
	b.WriteString("*** Exit\n- \n\n")
	b.WriteString("*** Review\n- \n")
	return b.String()
}

// FormatTradesOrg renders all trades of a run separated by blank lines.
func FormatTradesOrg(r BacktestRun) string {
	var b strings.Builder
	for i, t := range r.TradeRecords {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(r, t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
