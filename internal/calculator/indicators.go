package calculator

import "StockPulse/internal/model"

// Indicator windows.
const (
	ShortSMAPeriod   = 20
	LongSMAPeriod    = 50
	RSIPeriod        = 14
	VolatilityWindow = 21
)

// ComputeIndicators attaches SMA20, SMA50, RSI14 and 21-day volatility to every bar.
// The input is not modified.
func ComputeIndicators(bars []model.PriceBar) []model.AnalyzedBar {
	if len(bars) == 0 {
		return nil
	}
	closes := extractCloses(bars)
	sma20 := SMASeries(closes, ShortSMAPeriod)
	sma50 := SMASeries(closes, LongSMAPeriod)
	rsi := RSISeries(closes, RSIPeriod)
	vol := VolatilitySeries(closes, VolatilityWindow)

	out := make([]model.AnalyzedBar, len(bars))
	for i, b := range bars {
		out[i] = model.AnalyzedBar{
			PriceBar: b,
			IndicatorSet: model.IndicatorSet{
				SMA20:        sma20[i],
				SMA50:        sma50[i],
				RSI14:        rsi[i],
				Volatility21: vol[i],
			},
		}
	}
	return out
}
