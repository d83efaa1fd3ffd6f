package model

import (
	"encoding/json"
	"strconv"
)

// NullFloat is an indicator value that may be absent while its window warms up.
type NullFloat struct {
	Value float64
	Valid bool
}

// Some returns a present value.
func Some(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// Get returns the value and whether it is present.
func (n NullFloat) Get() (float64, bool) { return n.Value, n.Valid }

func (n NullFloat) String() string {
	if !n.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// IndicatorSet holds the per-bar technical indicators.
type IndicatorSet struct {
	SMA20        NullFloat `json:"sma_20"`
	SMA50        NullFloat `json:"sma_50"`
	RSI14        NullFloat `json:"rsi_14"`
	Volatility21 NullFloat `json:"volatility_21d"` // annualised, 0.25 == 25%
}

// AnalyzedBar is a price bar with the indicators computed up to and including it.
type AnalyzedBar struct {
	PriceBar
	IndicatorSet
}
