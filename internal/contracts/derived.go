package contracts

// Ratio is a computed ratio that may be unavailable when the snapshot lacks
// the inputs (e.g. growth rates need at least two usable years). Unavailable
// ratios are never silently zero.
type Ratio struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// Avail builds an available Ratio.
func Avail(v float64) Ratio {
	return Ratio{Value: v, Available: true}
}

// DerivedMetrics is a pure function of a FinancialSnapshot. Never influenced
// by agent text; recomputation on the same snapshot is bit-identical.
type DerivedMetrics struct {
	// Growth (CAGR over the available window, decimal)
	RevenueCAGR  Ratio `json:"revenue_cagr"`
	EarningsCAGR Ratio `json:"earnings_cagr"`
	FCFCAGR      Ratio `json:"fcf_cagr"`

	// Profitability (averages over the window, percent)
	GrossMargin     Ratio `json:"gross_margin"`
	OperatingMargin Ratio `json:"operating_margin"`
	NetMargin       Ratio `json:"net_margin"`
	FCFMargin       Ratio `json:"fcf_margin"`

	// Returns (averages, percent)
	ROE  Ratio `json:"roe"`
	ROA  Ratio `json:"roa"`
	ROIC Ratio `json:"roic"`

	// Leverage and liquidity (latest year)
	DebtToEquity     Ratio `json:"debt_to_equity"`
	CurrentRatio     Ratio `json:"current_ratio"`
	InterestCoverage Ratio `json:"interest_coverage"`

	// Quality inputs (latest year)
	FCFToNetIncome Ratio `json:"fcf_to_net_income"`
	GoodwillPct    Ratio `json:"goodwill_pct"`

	// Efficiency (latest year)
	AssetTurnover Ratio `json:"asset_turnover"`

	RedFlags []RedFlag `json:"red_flags"`
}

// RedFlag is a deterministic warning derived from ratio thresholds.
type RedFlag struct {
	Category string `json:"category"`
	Flag     string `json:"flag"`
	Severity string `json:"severity"` // HIGH or MEDIUM
	Detail   string `json:"detail"`
}

// HighSeverityCount returns the number of HIGH red flags.
func (m *DerivedMetrics) HighSeverityCount() int {
	n := 0
	for _, f := range m.RedFlags {
		if f.Severity == "HIGH" {
			n++
		}
	}
	return n
}
