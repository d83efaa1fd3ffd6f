package model

// Label is the discrete trade recommendation.
type Label string

const (
	LabelBuy  Label = "BUY"
	LabelSell Label = "SELL"
	LabelHold Label = "HOLD"
)

// RuleResult is one triggered scoring rule.
type RuleResult struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// Decision is the final output of the strategy engine.
// Reasons follow rule evaluation order, not magnitude.
type Decision struct {
	Label      Label        `json:"label"`
	Confidence int          `json:"confidence"`
	Score      int          `json:"score"`
	Rules      []RuleResult `json:"rules"`
	Reasons    []string     `json:"reasons"`
}
