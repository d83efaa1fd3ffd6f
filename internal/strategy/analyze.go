package strategy

import (
	"fmt"

	"StockPulse/internal/model"
)

// Analyze builds the dashboard summary for a series: latest bar, change versus
// the previous close and the decision. It does not stamp AnalyzedAt.
func Analyze(series *model.PriceSeries) (*model.Analysis, error) {
	decision, err := Decide(series.Bars)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", series.Symbol, err)
	}

	n := len(series.Bars)
	latest := series.Bars[n-1]
	prevClose := series.Bars[n-2].Close

	a := &model.Analysis{
		Symbol:   series.Symbol,
		Period:   series.Period,
		BarCount: n,
		Latest:   latest,
		Change:   latest.Close - prevClose,
		Decision: *decision,
	}
	if prevClose != 0 {
		a.ChangePct = a.Change / prevClose * 100
	}
	return a, nil
}
