package strategy

import (
	"errors"
	"fmt"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// MinBars is the shortest history Decide accepts; SMA50 is the longest window.
const MinBars = calculator.LongSMAPeriod

// ErrInsufficientHistory means the series is too short to analyze.
var ErrInsufficientHistory = errors.New("insufficient history")

// Tiers maps a score to a label, highest threshold first.
var Tiers = []struct {
	MinScore int
	Label    model.Label
}{
	{60, model.LabelBuy},
	{21, model.LabelHold},
}

// mapLabel maps a total score to a label; anything at or below 20 is SELL.
func mapLabel(score int) model.Label {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t.Label
		}
	}
	return model.LabelSell
}

// confidenceFor returns the 0-100 confidence for a label and score.
func confidenceFor(label model.Label, score int) int {
	switch label {
	case model.LabelBuy:
		return min(score, 95)
	case model.LabelSell:
		return min(abs(score)+40, 95)
	default:
		return 50 + floorDiv(score, 2)
	}
}

// Decide scores the latest bar of an analysed series and returns the recommendation.
func Decide(bars []model.AnalyzedBar) (*model.Decision, error) {
	if len(bars) < MinBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", ErrInsufficientHistory, len(bars), MinBars)
	}
	latest := &bars[len(bars)-1]
	if !latest.SMA20.Valid || !latest.SMA50.Valid || !latest.RSI14.Valid {
		return nil, fmt.Errorf("%w: indicators not ready on latest bar", ErrInsufficientHistory)
	}

	avgVolume, err := calculator.CalculateSMA(calculator.ExtractVolumes(bars), VolumeWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientHistory, err)
	}

	var rules []model.RuleResult
	if r, ok := ruleShortTermTrend(latest); ok {
		rules = append(rules, r)
	}
	if r, ok := ruleGoldenCross(latest); ok {
		rules = append(rules, r)
	}
	rules = append(rules, ruleMomentum(latest))
	if r, ok := ruleBreakoutVolume(latest, avgVolume); ok {
		rules = append(rules, r)
	}

	score := 0
	reasons := make([]string, 0, len(rules))
	for _, r := range rules {
		score += r.Points
		reasons = append(reasons, r.Reason)
	}

	label := mapLabel(score)
	return &model.Decision{
		Label:      label,
		Confidence: confidenceFor(label, score),
		Score:      score,
		Rules:      rules,
		Reasons:    reasons,
	}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
