package calculator

import "StockPulse/internal/model"

// RSISeries computes the RSI at every position using a rolling mean of gains
// and losses over `period` close-to-close changes. The first valid value is at
// index `period`. A zero average loss yields 100.
func RSISeries(closes []float64, period int) []model.NullFloat {
	out := make([]model.NullFloat, len(closes))
	if period <= 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		var avgGain, avgLoss float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				avgGain += change
			} else {
				avgLoss -= change
			}
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)
		out[i] = model.Some(rsiFromAverages(avgGain, avgLoss))
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
