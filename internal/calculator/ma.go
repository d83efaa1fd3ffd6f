package calculator

import (
	"errors"

	"StockPulse/internal/model"
)

// CalculateSMA computes the simple moving average of the given values over the trailing period.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the trailing SMA at every position; positions before the
// window is full are absent.
func SMASeries(values []float64, period int) []model.NullFloat {
	out := make([]model.NullFloat, len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if sma, err := CalculateSMA(values[:i+1], period); err == nil {
			out[i] = model.Some(sma)
		}
	}
	return out
}

func extractCloses(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// ExtractVolumes returns the volume column of the bars.
func ExtractVolumes(bars []model.AnalyzedBar) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
