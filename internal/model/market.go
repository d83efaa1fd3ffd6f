package model

import "time"

// PriceBar represents a single daily OHLCV bar.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the bars of one symbol together with their indicators.
type PriceSeries struct {
	Symbol    string        `json:"symbol"`
	Period    string        `json:"period"`
	Source    string        `json:"source"`
	Bars      []AnalyzedBar `json:"bars"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Analysis is the per-request summary handed to the presentation layer.
type Analysis struct {
	Symbol     string      `json:"symbol"`
	Period     string      `json:"period"`
	BarCount   int         `json:"bar_count"`
	Latest     AnalyzedBar `json:"latest"`
	Change     float64     `json:"change"`
	ChangePct  float64     `json:"change_pct"`
	Decision   Decision    `json:"decision"`
	AnalyzedAt time.Time   `json:"analyzed_at"`
}
