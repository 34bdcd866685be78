package contracts

import "time"

// Recommendation tiers, strongest first.
const (
	RecStrongBuy = "STRONG BUY"
	RecBuy       = "BUY"
	RecHold      = "HOLD"
	RecReduce    = "REDUCE"
	RecSell      = "SELL"
)

// ExpectedReturn holds probability-weighted return estimates per horizon,
// in percent.
type ExpectedReturn struct {
	Y1 float64 `json:"y1"`
	Y3 float64 `json:"y3"`
	Y5 float64 `json:"y5"`
}

// MethodValue is one valuation method's per-share result. Undefined methods
// carry the reason they were excluded.
type MethodValue struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Weight  float64 `json:"weight"`
	Defined bool    `json:"defined"`
	Reason  string  `json:"reason,omitempty"`
}

// Decision is the final, immutable record of one run. Created once by the
// synthesizer; serialization round-trips every field including provenance.
type Decision struct {
	RunID  string `json:"run_id"`
	Ticker string `json:"ticker"`

	Recommendation  string         `json:"recommendation"`
	Conviction      float64        `json:"conviction"`       // 0-10
	PositionSizePct float64        `json:"position_size_pct"` // 0-8
	CompositeScore  float64        `json:"composite_score"`   // 0-10
	FairValue       float64        `json:"fair_value"`
	FairValueOK     bool           `json:"fair_value_ok"`
	ExpectedReturn  ExpectedReturn `json:"expected_return"`

	// Execution levels
	EntryLow    float64 `json:"entry_low"`
	EntryHigh   float64 `json:"entry_high"`
	StopLoss    float64 `json:"stop_loss"`
	TargetPrice float64 `json:"target_price"`

	// Independent engine verification
	IntrinsicValue   float64       `json:"intrinsic_value"`
	IntrinsicDefined bool          `json:"intrinsic_defined"`
	MethodValues     []MethodValue `json:"method_values"`
	MarginOfSafety   float64       `json:"margin_of_safety"`
	QualityScore     float64       `json:"quality_score"`

	// Provenance
	DegradedInputs []string `json:"degraded_inputs"`
	Disagreement   bool     `json:"disagreement"`
	ConfigHash     string   `json:"config_hash"`

	GeneratedAt time.Time `json:"generated_at"`
}

// IsDegraded reports whether any contributing input was degraded.
func (d *Decision) IsDegraded() bool {
	return len(d.DegradedInputs) > 0
}
