package analyzer

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"StockPulse/internal/collector"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
	"StockPulse/internal/strategy"
)

// Trigger values stored with each record.
const (
	TriggerScheduled = "SCHEDULED"
	TriggerAPI       = "API"
	TriggerCommand   = "COMMAND"
	TriggerCLI       = "CLI"
)

// Service runs the fetch -> indicators -> decision pipeline and records the outcome.
type Service struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Metrics   *metrics.Recorder // optional
	Now       func() time.Time
}

// NewService creates a Service; a nil recorder falls back to a no-op one.
func NewService(col *collector.Collector, rec recorder.Recorder, m *metrics.Recorder) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Collector: col, Recorder: rec, Metrics: m, Now: time.Now}
}

// Series fetches the symbol and returns its analysed bars without deciding.
func (s *Service) Series(ctx context.Context, symbol, period string) (*model.PriceSeries, error) {
	series, err := s.Collector.Collect(ctx, symbol, period)
	if err != nil {
		s.countError("fetch")
		return nil, err
	}
	return series, nil
}

// Analyze runs the full pipeline for one symbol. Recording failures are
// logged and do not fail the analysis.
func (s *Service) Analyze(ctx context.Context, symbol, period, trigger string) (*model.Analysis, error) {
	start := s.Now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.RecordLatency("analyze", s.Now().Sub(start).Seconds())
		}
	}()

	series, err := s.Series(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	a, err := strategy.Analyze(series)
	if err != nil {
		if errors.Is(err, strategy.ErrInsufficientHistory) {
			s.countError("insufficient_history")
		} else {
			s.countError("analyze")
		}
		return nil, err
	}
	a.AnalyzedAt = s.Now()

	if s.Metrics != nil {
		s.Metrics.RecordAnalysis(a)
	}
	if err := s.Recorder.RecordDecision(ctx, recorder.NewDecisionRecord(a, trigger)); err != nil {
		s.countError("record")
		log.Errorf("record decision %s: %v", a.Symbol, err)
	}
	log.Infof("%s: %s (confidence %d, score %d)", a.Symbol, a.Decision.Label, a.Decision.Confidence, a.Decision.Score)
	return a, nil
}

func (s *Service) countError(kind string) {
	if s.Metrics != nil {
		s.Metrics.RecordError(kind)
	}
}
