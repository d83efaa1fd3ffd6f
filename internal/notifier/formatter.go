package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockPulse/internal/model"
)

var labelIcon = map[model.Label]string{
	model.LabelBuy:  "🟢",
	model.LabelSell: "🔴",
	model.LabelHold: "⚪",
}

// FormatAnalysisReport formats an analysis into a Telegram HTML message.
// Reasons are listed in rule evaluation order.
func FormatAnalysisReport(a *model.Analysis) string {
	var b strings.Builder
	d := a.Decision
	latest := a.Latest

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s (%s)\n\n",
		html.EscapeString(a.Symbol), latest.Time.Format("2006-01-02"), html.EscapeString(a.Period)))

	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f%%)\n", latest.Close, a.ChangePct))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s\n", latest.SMA20, latest.SMA50))
	b.WriteString(fmt.Sprintf("RSI(14): %s | Volatility: %s\n\n", formatRSI(latest.RSI14), formatPct(latest.Volatility21)))

	b.WriteString(fmt.Sprintf("%s <b>Decision: %s</b> | confidence %d%% (score %+d)\n",
		labelIcon[d.Label], d.Label, d.Confidence, d.Score))
	for _, r := range d.Reasons {
		b.WriteString("  • " + html.EscapeString(r) + "\n")
	}
	return b.String()
}

// FormatWatchlistSummary formats one line per analysed symbol plus failures.
func FormatWatchlistSummary(results []*model.Analysis, failures map[string]error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Watchlist</b> | %d analysed\n\n", len(results)))
	for _, a := range results {
		b.WriteString(fmt.Sprintf("%s %s: %s %d%% @ %.2f\n",
			labelIcon[a.Decision.Label], html.EscapeString(a.Symbol), a.Decision.Label, a.Decision.Confidence, a.Latest.Close))
	}
	for sym, err := range failures {
		b.WriteString(fmt.Sprintf("❌ %s: %s\n", html.EscapeString(sym), html.EscapeString(err.Error())))
	}
	return b.String()
}

func formatRSI(n model.NullFloat) string {
	if !n.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", n.Value)
}

func formatPct(n model.NullFloat) string {
	if !n.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", n.Value*100)
}
