package recorder

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// DecisionRecord is one persisted analysis.
type DecisionRecord struct {
	ID         string          `json:"id"`
	RecordedAt time.Time       `json:"recorded_at"`
	Symbol     string          `json:"symbol"`
	Period     string          `json:"period"`
	Trigger    string          `json:"trigger"` // "SCHEDULED", "API", "COMMAND", "CLI"
	BarTime    time.Time       `json:"bar_time"`
	Close      float64         `json:"close"`
	ChangePct  float64         `json:"change_pct"`
	SMA20      model.NullFloat `json:"sma_20"`
	SMA50      model.NullFloat `json:"sma_50"`
	RSI14      model.NullFloat `json:"rsi_14"`
	Volatility model.NullFloat `json:"volatility_21d"`
	Score      int             `json:"score"`
	Label      model.Label     `json:"label"`
	Confidence int             `json:"confidence"`
	Reasons    []string        `json:"reasons"`
}

// NewDecisionRecord flattens an analysis into a record.
func NewDecisionRecord(a *model.Analysis, trigger string) *DecisionRecord {
	return &DecisionRecord{
		Symbol:     a.Symbol,
		Period:     a.Period,
		Trigger:    trigger,
		BarTime:    a.Latest.Time,
		Close:      a.Latest.Close,
		ChangePct:  a.ChangePct,
		SMA20:      a.Latest.SMA20,
		SMA50:      a.Latest.SMA50,
		RSI14:      a.Latest.RSI14,
		Volatility: a.Latest.Volatility21,
		Score:      a.Decision.Score,
		Label:      a.Decision.Label,
		Confidence: a.Decision.Confidence,
		Reasons:    a.Decision.Reasons,
	}
}

// Recorder persists analysis history.
type Recorder interface {
	RecordDecision(ctx context.Context, rec *DecisionRecord) error
	// RecentDecisions returns the newest records first; an empty symbol matches all.
	RecentDecisions(ctx context.Context, symbol string, limit int) ([]DecisionRecord, error)
	Close() error
}
