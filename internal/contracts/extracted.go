package contracts

// FieldStatus tags the outcome of extracting one field from report text.
// A parse failure is never collapsed into a default value.
type FieldStatus string

const (
	// Extracted means a rule matched and the value is inside the field's
	// valid domain.
	Extracted FieldStatus = "extracted"
	// Unextracted means no rule matched.
	Unextracted FieldStatus = "unextracted"
	// OutOfDomain means a rule matched but the parsed value falls outside
	// the field's valid domain (e.g. conviction 14/10).
	OutOfDomain FieldStatus = "out_of_domain"
)

// Num is a tagged numeric field.
type Num struct {
	Value  float64     `json:"value"`
	Status FieldStatus `json:"status"`
	Raw    string      `json:"raw,omitempty"`
}

// Str is a tagged string field.
type Str struct {
	Value  string      `json:"value"`
	Status FieldStatus `json:"status"`
	Raw    string      `json:"raw,omitempty"`
}

// Ok reports whether the field holds a usable value.
func (n Num) Ok() bool { return n.Status == Extracted }

// Ok reports whether the field holds a usable value.
func (s Str) Ok() bool { return s.Status == Extracted }

// NoNum returns an explicitly unextracted numeric field.
func NoNum() Num { return Num{Status: Unextracted} }

// NoStr returns an explicitly unextracted string field.
func NoStr() Str { return Str{Status: Unextracted} }

// MoatRating values accepted from value-role reports.
const (
	MoatNone   = "None"
	MoatWeak   = "Weak"
	MoatMedium = "Medium"
	MoatStrong = "Strong"
)

// ExtractedMetrics is the typed record parsed from one role report. Every
// field is either a parsed value or explicitly unextracted - nothing is
// silently defaulted.
type ExtractedMetrics struct {
	Role Role `json:"role"`

	// Shared across roles
	QualityScore   Num `json:"quality_score"`   // 0-10
	Recommendation Str `json:"recommendation"`  // STRONG BUY..SELL
	Conviction     Num `json:"conviction"`      // 0-10

	// Value role
	MoatRating     Str `json:"moat_rating"`
	IntrinsicValue Num `json:"intrinsic_value"` // per share
	IntrinsicLow   float64 `json:"intrinsic_low,omitempty"`
	IntrinsicHigh  float64 `json:"intrinsic_high,omitempty"`
	HasRange       bool    `json:"has_range,omitempty"`
	MarginOfSafety Num `json:"margin_of_safety"` // percent

	// Risk role
	RiskScore    Num `json:"risk_score"` // 0-10, higher = riskier
	RedFlagCount Num `json:"red_flag_count"`

	// Synthesis role
	PositionSize   Num `json:"position_size"` // 0-8 percent
	CompositeScore Num `json:"composite_score"`
	FairValue      Num `json:"fair_value"`
	BullReturn     Num `json:"bull_return"` // percent
	BaseReturn     Num `json:"base_return"`
	BearReturn     Num `json:"bear_return"`
	BullProb       Num `json:"bull_prob"` // percent
	BaseProb       Num `json:"base_prob"`
	BearProb       Num `json:"bear_prob"`
	EntryLow       Num `json:"entry_low"`
	EntryHigh      Num `json:"entry_high"`
	StopLoss       Num `json:"stop_loss"`
	TargetPrice    Num `json:"target_price"`

	// Provenance
	Truncated bool `json:"truncated"`
	Degraded  bool `json:"degraded"`
}

// NewExtractedMetrics returns a record with every field explicitly
// unextracted for the given role.
func NewExtractedMetrics(role Role) *ExtractedMetrics {
	return &ExtractedMetrics{
		Role:           role,
		QualityScore:   NoNum(),
		Recommendation: NoStr(),
		Conviction:     NoNum(),
		MoatRating:     NoStr(),
		IntrinsicValue: NoNum(),
		MarginOfSafety: NoNum(),
		RiskScore:      NoNum(),
		RedFlagCount:   NoNum(),
		PositionSize:   NoNum(),
		CompositeScore: NoNum(),
		FairValue:      NoNum(),
		BullReturn:     NoNum(),
		BaseReturn:     NoNum(),
		BearReturn:     NoNum(),
		BullProb:       NoNum(),
		BaseProb:       NoNum(),
		BearProb:       NoNum(),
		EntryLow:       NoNum(),
		EntryHigh:      NoNum(),
		StopLoss:       NoNum(),
		TargetPrice:    NoNum(),
	}
}

// MissingFields lists the names of fields relevant to the role that stayed
// unextracted, for provenance reporting.
func (e *ExtractedMetrics) MissingFields() []string {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}

	switch e.Role {
	case RoleValue:
		check("quality_score", e.QualityScore.Ok())
		check("moat_rating", e.MoatRating.Ok())
		check("intrinsic_value", e.IntrinsicValue.Ok())
		check("margin_of_safety", e.MarginOfSafety.Ok())
		check("recommendation", e.Recommendation.Ok())
		check("conviction", e.Conviction.Ok())
	case RoleGrowth:
		check("quality_score", e.QualityScore.Ok())
		check("recommendation", e.Recommendation.Ok())
		check("conviction", e.Conviction.Ok())
	case RoleRisk:
		check("risk_score", e.RiskScore.Ok())
		check("red_flag_count", e.RedFlagCount.Ok())
	case RoleSynthesis:
		check("recommendation", e.Recommendation.Ok())
		check("conviction", e.Conviction.Ok())
		check("fair_value", e.FairValue.Ok())
		check("position_size", e.PositionSize.Ok())
	}

	return missing
}
