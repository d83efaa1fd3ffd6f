package calculator

import (
	"math"

	"StockPulse/internal/model"
)

// TradingDaysPerYear annualises daily volatility.
const TradingDaysPerYear = 252

// VolatilitySeries computes annualised volatility: the sample standard
// deviation of the trailing `window` daily returns, scaled by sqrt(252).
// The first valid value is at index `window`.
func VolatilitySeries(closes []float64, window int) []model.NullFloat {
	out := make([]model.NullFloat, len(closes))
	if window < 2 {
		return out
	}
	returns := dailyReturns(closes)
	for i := window; i < len(closes); i++ {
		if sd, ok := sampleStdDev(returns[i-window+1 : i+1]); ok {
			out[i] = model.Some(sd * math.Sqrt(TradingDaysPerYear))
		}
	}
	return out
}

// dailyReturns returns close[i]/close[i-1]-1; index 0 and returns after a zero close are absent.
func dailyReturns(closes []float64) []model.NullFloat {
	out := make([]model.NullFloat, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out[i] = model.Some(closes[i]/closes[i-1] - 1)
	}
	return out
}

func sampleStdDev(values []model.NullFloat) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		if !v.Valid {
			return 0, false
		}
		sum += v.Value
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		d := v.Value - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1)), true
}
