// Package decisionconfig holds every tunable table the decision pipeline
// reads: valuation breakpoints, quality bands, composite weights, scenario
// probabilities, tier rules, and position sizing. One YAML file is the single
// source of truth; components receive their sub-struct at construction and
// never read the file themselves.
package decisionconfig

import "time"

// Config is the full decision-policy configuration.
type Config struct {
	Meta         Meta             `yaml:"meta" json:"meta"`
	Composite    Composite        `yaml:"composite" json:"composite"`
	Blend        Blend            `yaml:"blend" json:"blend"`
	Growth       Growth           `yaml:"growth" json:"growth"`
	Discount     Discount         `yaml:"discount" json:"discount"`
	Multiples    Multiples        `yaml:"multiples" json:"multiples"`
	DCF          DCF              `yaml:"dcf" json:"dcf"`
	Quality      QualityBands     `yaml:"quality" json:"quality"`
	Scenarios    Scenarios        `yaml:"scenarios" json:"scenarios"`
	Tiers        []TierRule       `yaml:"tiers" json:"tiers"`
	Position     Position         `yaml:"position" json:"position"`
	Extraction   Extraction       `yaml:"extraction" json:"extraction"`
	Disagreement Disagreement     `yaml:"disagreement" json:"disagreement"`
}

type Meta struct {
	PolicyID string `yaml:"policy_id" json:"policy_id"`
	Version  string `yaml:"version" json:"version"`
}

// Composite weights the three role scores into one 0-10 score.
// Weights must sum to 1.0.
type Composite struct {
	ValueWeight  float64 `yaml:"value_weight" json:"value_weight"`
	GrowthWeight float64 `yaml:"growth_weight" json:"growth_weight"`
	RiskWeight   float64 `yaml:"risk_weight" json:"risk_weight"`
}

// Blend weights the three valuation methods per business type.
// Each row must sum to 1.0.
type Blend struct {
	Stable   MethodWeights `yaml:"stable" json:"stable"`
	Growth   MethodWeights `yaml:"growth" json:"growth"`
	Cyclical MethodWeights `yaml:"cyclical" json:"cyclical"`
}

type MethodWeights struct {
	DCF      float64 `yaml:"dcf" json:"dcf"`
	Earnings float64 `yaml:"earnings" json:"earnings"`
	CashFlow float64 `yaml:"cashflow" json:"cashflow"`
}

func (w MethodWeights) Sum() float64 { return w.DCF + w.Earnings + w.CashFlow }

// Growth controls the blended forward growth estimate.
type Growth struct {
	RevenueWeight  float64          `yaml:"revenue_weight" json:"revenue_weight"`
	EarningsWeight float64          `yaml:"earnings_weight" json:"earnings_weight"`
	FCFWeight      float64          `yaml:"fcf_weight" json:"fcf_weight"`
	StageMultipliers StageMultipliers `yaml:"stage_multipliers" json:"stage_multipliers"`
	SizeCaps       []SizeCap        `yaml:"size_caps" json:"size_caps"`
	Floor          float64          `yaml:"floor" json:"floor"`
	Cap            float64          `yaml:"cap" json:"cap"`
}

type StageMultipliers struct {
	Startup   float64 `yaml:"startup" json:"startup"`
	Growth    float64 `yaml:"growth" json:"growth"`
	Mature    float64 `yaml:"mature" json:"mature"`
	Declining float64 `yaml:"declining" json:"declining"`
}

// SizeCap caps growth for companies above a market-cap threshold.
// Rows are checked top down; first match wins, so order largest first.
type SizeCap struct {
	MarketCapMinUSD float64 `yaml:"market_cap_min_usd" json:"market_cap_min_usd"`
	MaxGrowth       float64 `yaml:"max_growth" json:"max_growth"`
}

// Discount builds the discount rate: rf + beta*ERP + size + leverage,
// floored at the risk-free rate.
type Discount struct {
	RiskFree         float64           `yaml:"risk_free" json:"risk_free"`
	EquityRiskPremium float64          `yaml:"equity_risk_premium" json:"equity_risk_premium"`
	SizePremiums     []SizePremium     `yaml:"size_premiums" json:"size_premiums"`
	LeveragePremiums []LeveragePremium `yaml:"leverage_premiums" json:"leverage_premiums"`
}

// SizePremium applies below a market-cap threshold. Order smallest first;
// first match wins.
type SizePremium struct {
	MarketCapMaxUSD float64 `yaml:"market_cap_max_usd" json:"market_cap_max_usd"`
	Premium         float64 `yaml:"premium" json:"premium"`
}

// LeveragePremium applies above a debt-to-equity threshold. Order highest
// first; first match wins.
type LeveragePremium struct {
	DebtToEquityMin float64 `yaml:"debt_to_equity_min" json:"debt_to_equity_min"`
	Premium         float64 `yaml:"premium" json:"premium"`
}

// Multiples maps growth to a fair multiple, then scales by quality.
type Multiples struct {
	Earnings       []MultipleBucket  `yaml:"earnings" json:"earnings"`
	CashFlow       []MultipleBucket  `yaml:"cashflow" json:"cashflow"`
	QualityScaling []QualityScale    `yaml:"quality_scaling" json:"quality_scaling"`
}

// MultipleBucket applies when growth is at or above the threshold. Order
// highest first; first match wins. The last row should have GrowthMin set
// low enough to always match.
type MultipleBucket struct {
	GrowthMin float64 `yaml:"growth_min" json:"growth_min"`
	Multiple  float64 `yaml:"multiple" json:"multiple"`
}

// QualityScale scales the multiple when the quality score is at or above
// the threshold. Order highest first; first match wins.
type QualityScale struct {
	QualityMin float64 `yaml:"quality_min" json:"quality_min"`
	Factor     float64 `yaml:"factor" json:"factor"`
}

// DCF parameters for the two-stage model.
type DCF struct {
	ProjectionYears int     `yaml:"projection_years" json:"projection_years"`
	TerminalGrowth  float64 `yaml:"terminal_growth" json:"terminal_growth"`
}

// QualityBands define the rule-based 0-10 quality score. Each band awards
// points when the metric is at or above the threshold; within a metric the
// first matching band wins, so order thresholds highest first.
type QualityBands struct {
	Earnings    EarningsBands `yaml:"earnings" json:"earnings"`
	Balance     BalanceBands  `yaml:"balance" json:"balance"`
	CashFlow    CashFlowBands `yaml:"cashflow" json:"cashflow"`
	RedFlagPenalty float64    `yaml:"red_flag_penalty" json:"red_flag_penalty"`
}

type Band struct {
	Min    float64 `yaml:"min" json:"min"`
	Points float64 `yaml:"points" json:"points"`
}

type EarningsBands struct {
	FCFToNetIncome []Band `yaml:"fcf_to_net_income" json:"fcf_to_net_income"`
	NetMargin      []Band `yaml:"net_margin" json:"net_margin"`
	EarningsCAGR   []Band `yaml:"earnings_cagr" json:"earnings_cagr"`
}

type BalanceBands struct {
	DebtToEquity     []Band `yaml:"debt_to_equity" json:"debt_to_equity"` // inverted: first band whose Min >= value
	CurrentRatio     []Band `yaml:"current_ratio" json:"current_ratio"`
	InterestCoverage []Band `yaml:"interest_coverage" json:"interest_coverage"`
}

type CashFlowBands struct {
	FCFCAGR   []Band `yaml:"fcf_cagr" json:"fcf_cagr"`
	FCFMargin []Band `yaml:"fcf_margin" json:"fcf_margin"`
	ROIC      []Band `yaml:"roic" json:"roic"`
}

// Scenarios maps the composite score to bull/base/bear probabilities.
// Rows are checked top down; first row whose CompositeMin is at or below the
// score wins, so order highest first. Each row must sum to 1.0.
type Scenarios struct {
	Bands []ScenarioBand `yaml:"bands" json:"bands"`
}

type ScenarioBand struct {
	CompositeMin float64 `yaml:"composite_min" json:"composite_min"`
	Bull         float64 `yaml:"bull" json:"bull"`
	Base         float64 `yaml:"base" json:"base"`
	Bear         float64 `yaml:"bear" json:"bear"`
}

func (b ScenarioBand) Sum() float64 { return b.Bull + b.Base + b.Bear }

// TierRule maps scores to a recommendation. All three conditions must hold.
// Rules are checked top down, strongest first; the last rule is the fallback
// and should always match.
type TierRule struct {
	Recommendation string  `yaml:"recommendation" json:"recommendation"`
	CompositeMin   float64 `yaml:"composite_min" json:"composite_min"`
	Return3YMin    float64 `yaml:"return_3y_min" json:"return_3y_min"`
	RiskMax        float64 `yaml:"risk_max" json:"risk_max"`
	Fallback       bool    `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// Position sizing: base * conviction mult * risk mult * opportunity mult,
// clamped to [min, max] percent of portfolio.
type Position struct {
	BasePct            float64 `yaml:"base_pct" json:"base_pct"`
	MaxPct             float64 `yaml:"max_pct" json:"max_pct"`
	MinPct             float64 `yaml:"min_pct" json:"min_pct"`
	OpportunityMinMult float64 `yaml:"opportunity_min_mult" json:"opportunity_min_mult"`
	OpportunityMaxMult float64 `yaml:"opportunity_max_mult" json:"opportunity_max_mult"`
}

// Extraction controls the narrative-parsing layer.
type Extraction struct {
	TruncationMinChars int `yaml:"truncation_min_chars" json:"truncation_min_chars"`
}

// Disagreement controls fair-value reconciliation across roles.
type Disagreement struct {
	SpreadThreshold float64 `yaml:"spread_threshold" json:"spread_threshold"`
	SynthesisShift  float64 `yaml:"synthesis_shift" json:"synthesis_shift"`
}

// PolicySnapshot records the exact policy a run used, for reproducibility.
type PolicySnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	PolicyID   string    `json:"policy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
