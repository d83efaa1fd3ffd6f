package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// ErrInvalidPeriod is returned for a period outside Periods.
var ErrInvalidPeriod = errors.New("invalid period")

// MockFetcher returns deterministic generated data for development and testing.
type MockFetcher struct {
	Price  float64
	Volume float64
	End    time.Time
	Bars   []model.PriceBar // returned as-is when set
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, period string) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, m.Volume, m.End, sessionsIn(period)), nil
}

func sessionsIn(period string) int {
	switch period {
	case "6mo":
		return 126
	case "2y":
		return 504
	case "5y":
		return 1260
	default:
		return 252
	}
}

func generateMockBars(basePrice, volume float64, end time.Time, count int) []model.PriceBar {
	if basePrice == 0 {
		basePrice = 100
	}
	if volume == 0 {
		volume = 1000000
	}
	if end.IsZero() {
		end = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/9) + float64(i-count/2)*0.0005)
		bars[i] = model.PriceBar{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: volume * (1 + 0.2*math.Cos(float64(i)/5)),
		}
	}
	return bars
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher        Fetcher
	ExchangeSuffix string
	DefaultPeriod  string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, exchangeSuffix, defaultPeriod string) *Collector {
	if defaultPeriod == "" {
		defaultPeriod = "1y"
	}
	return &Collector{Fetcher: fetcher, ExchangeSuffix: exchangeSuffix, DefaultPeriod: defaultPeriod}
}

// Collect fetches bars for the symbol and computes all indicators.
// An empty period selects the collector default.
func (c *Collector) Collect(ctx context.Context, symbol, period string) (*model.PriceSeries, error) {
	if period == "" {
		period = c.DefaultPeriod
	}
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("%w %q, want one of %v", ErrInvalidPeriod, period, Periods)
	}
	sym := NormalizeSymbol(symbol, c.ExchangeSuffix)
	if sym == "" {
		return nil, errors.New("empty symbol")
	}

	bars, err := c.Fetcher.FetchDailyBars(ctx, sym, period)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars %s: %w", sym, err)
	}
	log.Debugf("fetched %d bars for %s (%s) from %s", len(bars), sym, period, c.Fetcher.Name())

	return &model.PriceSeries{
		Symbol:    sym,
		Period:    period,
		Source:    c.Fetcher.Name(),
		Bars:      calculator.ComputeIndicators(bars),
		FetchedAt: time.Now(),
	}, nil
}
