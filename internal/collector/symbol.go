package collector

import "strings"

// DefaultExchangeSuffix is appended to bare tickers (NSE).
const DefaultExchangeSuffix = ".NS"

// NormalizeSymbol upper-cases the ticker and appends the exchange suffix
// unless it already has one or is an index ("^NSEI").
func NormalizeSymbol(symbol, suffix string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || suffix == "" {
		return s
	}
	if strings.Contains(s, "^") || strings.Contains(s, ".") {
		return s
	}
	return s + strings.ToUpper(suffix)
}
