package recorder

import "context"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(_ context.Context, _ *DecisionRecord) error { return nil }
func (n *NoopRecorder) RecentDecisions(_ context.Context, _ string, _ int) ([]DecisionRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
