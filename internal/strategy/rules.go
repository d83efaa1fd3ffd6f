package strategy

import (
	"fmt"

	"StockPulse/internal/model"
)

// Rule thresholds.
const (
	OversoldRSI       = 30.0
	OverboughtRSI     = 70.0
	BreakoutVolumeMul = 1.5
	VolumeWindow      = 20
)

// ruleShortTermTrend fires when the close is above SMA20.
// Points: +20
func ruleShortTermTrend(latest *model.AnalyzedBar) (model.RuleResult, bool) {
	if latest.Close > latest.SMA20.Value {
		return model.RuleResult{
			Name:   "short_term_trend",
			Points: 20,
			Reason: "Price is above 20-Day SMA (Short-term Bullish)",
		}, true
	}
	return model.RuleResult{}, false
}

// ruleGoldenCross fires when SMA20 is above SMA50.
// Points: +20
func ruleGoldenCross(latest *model.AnalyzedBar) (model.RuleResult, bool) {
	if latest.SMA20.Value > latest.SMA50.Value {
		return model.RuleResult{
			Name:   "golden_cross",
			Points: 20,
			Reason: "Golden Cross formation (20 SMA > 50 SMA)",
		}, true
	}
	return model.RuleResult{}, false
}

// ruleMomentum always fires with one of three branches.
// Oversold +30, overbought -20, otherwise +10.
func ruleMomentum(latest *model.AnalyzedBar) model.RuleResult {
	rsi := latest.RSI14.Value
	switch {
	case rsi < OversoldRSI:
		return model.RuleResult{
			Name:   "oversold",
			Points: 30,
			Reason: "Oversold condition (RSI < 30) - Potential Reversal",
		}
	case rsi > OverboughtRSI:
		return model.RuleResult{
			Name:   "overbought",
			Points: -20,
			Reason: "Overbought condition (RSI > 70) - Risk of Pullback",
		}
	default:
		return model.RuleResult{
			Name:   "neutral_momentum",
			Points: 10,
			Reason: fmt.Sprintf("Neutral Momentum (RSI: %.1f)", rsi),
		}
	}
}

// ruleBreakoutVolume fires when the latest volume exceeds 1.5x the mean
// volume of the trailing 20 bars, the latest bar included.
// Points: +20
func ruleBreakoutVolume(latest *model.AnalyzedBar, avgVolume float64) (model.RuleResult, bool) {
	if latest.Volume > avgVolume*BreakoutVolumeMul {
		return model.RuleResult{
			Name:   "breakout_volume",
			Points: 20,
			Reason: "High Volume breakout detected",
		}, true
	}
	return model.RuleResult{}, false
}
