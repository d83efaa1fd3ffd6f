package calculator

import (
	"math"
	"testing"
	"time"

	"StockPulse/internal/model"
)

func makeBars(closes []float64) []model.PriceBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{"exact window", []float64{1, 2, 3}, 3, 2, false},
		{"trailing window", []float64{10, 1, 2, 3}, 3, 2, false},
		{"short input", []float64{1, 2}, 3, 0, true},
		{"zero period", []float64{1, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		got, err := CalculateSMA(tt.values, tt.period)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %.4f, want %.4f", tt.name, got, tt.want)
		}
	}
}

func TestSMASeries_WarmUp(t *testing.T) {
	series := SMASeries(rising(25), 20)
	for i := 0; i < 19; i++ {
		if series[i].Valid {
			t.Fatalf("index %d: expected absent SMA before warm-up", i)
		}
	}
	// closes 100..119 average to 109.5
	if v, ok := series[19].Get(); !ok || v != 109.5 {
		t.Errorf("index 19: got %v, want 109.5", series[19])
	}
	if v, ok := series[24].Get(); !ok || v != 114.5 {
		t.Errorf("index 24: got %v, want 114.5", series[24])
	}
}

func TestRSISeries_AllGains(t *testing.T) {
	series := RSISeries(rising(60), 14)
	for i := 0; i < 14; i++ {
		if series[i].Valid {
			t.Fatalf("index %d: expected absent RSI before 14 diffs", i)
		}
	}
	for i := 14; i < 60; i++ {
		if v, ok := series[i].Get(); !ok || v != 100 {
			t.Fatalf("index %d: got %v, want 100", i, series[i])
		}
	}
}

func TestRSISeries_AllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	series := RSISeries(closes, 14)
	if v, ok := series[19].Get(); !ok || v != 0 {
		t.Errorf("got %v, want 0", series[19])
	}
}

func TestRSISeries_Balanced(t *testing.T) {
	// alternating +1/-1 gives equal average gain and loss over an even window
	closes := make([]float64, 30)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 101
		}
	}
	series := RSISeries(closes, 14)
	if v, ok := series[29].Get(); !ok || math.Abs(v-50) > 1e-9 {
		t.Errorf("got %v, want 50", series[29])
	}
}

func TestVolatilitySeries(t *testing.T) {
	series := VolatilitySeries(flat(30, 50), 21)
	for i := 0; i < 21; i++ {
		if series[i].Valid {
			t.Fatalf("index %d: expected absent volatility before 21 returns", i)
		}
	}
	for i := 21; i < 30; i++ {
		if v, ok := series[i].Get(); !ok || v != 0 {
			t.Fatalf("index %d: got %v, want 0", i, series[i])
		}
	}

	// returns alternate +10% / -10%-ish; just check positivity and scaling
	closes := []float64{100}
	for i := 1; i < 30; i++ {
		if i%2 == 1 {
			closes = append(closes, closes[i-1]*1.1)
		} else {
			closes = append(closes, closes[i-1]*0.9)
		}
	}
	vol := VolatilitySeries(closes, 21)
	v, ok := vol[29].Get()
	if !ok || v <= 0 {
		t.Fatalf("expected positive volatility, got %v", vol[29])
	}
	if v < 0.1*math.Sqrt(TradingDaysPerYear) {
		t.Errorf("volatility %.4f looks unscaled", v)
	}
}

func TestVolatilitySeries_ZeroClose(t *testing.T) {
	closes := flat(30, 10)
	closes[25] = 0
	vol := VolatilitySeries(closes, 21)
	// return at index 26 divides by zero; windows covering it are absent
	for i := 26; i < 30; i++ {
		if vol[i].Valid {
			t.Errorf("index %d: expected absent volatility around zero close", i)
		}
	}
	if !vol[25].Valid {
		t.Error("index 25: expected valid volatility")
	}
}

func TestComputeIndicators_Flat(t *testing.T) {
	bars := ComputeIndicators(makeBars(flat(60, 250)))
	if len(bars) != 60 {
		t.Fatalf("expected 60 bars, got %d", len(bars))
	}
	for i := 49; i < 60; i++ {
		b := bars[i]
		if b.SMA20.Value != 250 || b.SMA50.Value != 250 || !b.SMA20.Valid || !b.SMA50.Valid {
			t.Fatalf("index %d: expected SMA20 == SMA50 == close, got %v / %v", i, b.SMA20, b.SMA50)
		}
		if v, ok := b.Volatility21.Get(); !ok || v != 0 {
			t.Fatalf("index %d: expected zero volatility, got %v", i, b.Volatility21)
		}
	}
	if bars[48].SMA50.Valid {
		t.Error("SMA50 must be absent before the 50th bar")
	}
}

func TestComputeIndicators_DoesNotMutate(t *testing.T) {
	in := makeBars(rising(55))
	before := in[10]
	_ = ComputeIndicators(in)
	if in[10] != before {
		t.Error("input bars were modified")
	}
	if ComputeIndicators(nil) != nil {
		t.Error("expected nil for empty input")
	}
}
