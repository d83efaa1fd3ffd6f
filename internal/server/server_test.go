package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher) *Server {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	reg := prometheus.NewRegistry()
	col := collector.NewCollector(fetcher, collector.DefaultExchangeSuffix, "1y")
	svc := analyzer.NewService(col, rec, metrics.New(reg))
	return New(svc, reg, false)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{})
	w := get(t, s, "/api/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"source":"mock"`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestAnalysisAndHistory(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{Price: 2500})

	w := get(t, s, "/api/analysis/reliance?period=2y")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var a model.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Symbol != "RELIANCE.NS" || a.Period != "2y" || a.BarCount != 504 {
		t.Errorf("unexpected analysis: %+v", a)
	}
	if len(a.Decision.Reasons) == 0 {
		t.Error("expected reasons")
	}

	w = get(t, s, "/api/decisions?symbol=reliance&limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Decisions []recorder.DecisionRecord `json:"decisions"`
		Count     int                       `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Decisions[0].Trigger != analyzer.TriggerAPI {
		t.Errorf("unexpected history: %+v", body)
	}

	w = get(t, s, "/metrics")
	if !strings.Contains(w.Body.String(), "stockpulse_decisions_total") {
		t.Error("metrics endpoint missing decision counter")
	}
}

func TestIndicatorsWarmUpIsNull(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{})
	w := get(t, s, "/api/indicators/tcs?period=6mo")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var series struct {
		Bars []map[string]any `json:"bars"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &series); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(series.Bars) != 126 {
		t.Fatalf("expected 126 bars, got %d", len(series.Bars))
	}
	if series.Bars[0]["sma_20"] != nil || series.Bars[0]["rsi_14"] != nil {
		t.Errorf("first bar should have null indicators: %v", series.Bars[0])
	}
	if series.Bars[125]["sma_50"] == nil {
		t.Error("last bar should have sma_50")
	}
}

func TestErrorMapping(t *testing.T) {
	short := make([]model.PriceBar, 20)
	for i := range short {
		short[i] = model.PriceBar{Close: 5, Volume: 1}
	}
	tests := []struct {
		name    string
		fetcher collector.Fetcher
		path    string
		code    int
	}{
		{"insufficient history", &collector.MockFetcher{Bars: short}, "/api/analysis/tcs", http.StatusUnprocessableEntity},
		{"invalid period", &collector.MockFetcher{}, "/api/analysis/tcs?period=10y", http.StatusBadRequest},
		{"fetch failure", &collector.MockFetcher{Err: http.ErrHandlerTimeout}, "/api/analysis/tcs", http.StatusBadGateway},
		{"bad limit", &collector.MockFetcher{}, "/api/decisions?limit=-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newTestServer(t, tt.fetcher), tt.path)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}
