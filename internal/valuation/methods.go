package valuation

import (
	"math"

	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// Method names as they appear in decisions and reports.
const (
	MethodDCF      = "dcf"
	MethodEarnings = "earnings_multiple"
	MethodCashFlow = "cashflow_multiple"
)

// MethodResult is one method's per-share value, or the reason it was
// excluded from the blend.
type MethodResult struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Reason  string  `json:"reason,omitempty"`
}

// dcfValue runs the two-stage model: explicit FCF projection at the dynamic
// growth rate for the configured horizon, then a Gordon terminal value.
// Negative FCF cannot be projected, and a discount at or below the terminal
// growth has no finite terminal value; both exclude the method rather than
// repairing the inputs. A zero growth rate is a valid flat projection.
func dcfValue(cfg decisionconfig.DCF, fcf, growth, discount, terminalGrowth, sharesOutstanding float64) MethodResult {
	if fcf <= 0 {
		return MethodResult{Name: MethodDCF, Reason: "free cash flow <= 0"}
	}
	if sharesOutstanding <= 0 {
		return MethodResult{Name: MethodDCF, Reason: "shares outstanding unknown"}
	}
	if discount <= terminalGrowth {
		return MethodResult{Name: MethodDCF, Reason: "discount <= terminal growth"}
	}

	years := cfg.ProjectionYears
	stage1 := 0.0
	for year := 1; year <= years; year++ {
		fcfYear := fcf * math.Pow(1+growth, float64(year))
		stage1 += fcfYear / math.Pow(1+discount, float64(year))
	}

	fcfTerminal := fcf * math.Pow(1+growth, float64(years+1))
	terminal := fcfTerminal / (discount - terminalGrowth)
	pvTerminal := terminal / math.Pow(1+discount, float64(years))

	totalPV := stage1 + pvTerminal
	return MethodResult{Name: MethodDCF, Value: totalPV / sharesOutstanding, Defined: true}
}

// earningsMultipleValue prices forward EPS (trailing when no forward
// estimate exists) at a growth-justified multiple scaled by quality.
func earningsMultipleValue(cfg decisionconfig.Multiples, trailingEPS, forwardEPS, growth, qualityScore float64) MethodResult {
	eps := forwardEPS
	if eps <= 0 {
		eps = trailingEPS
	}
	if eps <= 0 {
		return MethodResult{Name: MethodEarnings, Reason: "eps <= 0"}
	}

	multiple := justifiedMultiple(cfg.Earnings, cfg.QualityScaling, growth, qualityScore)
	return MethodResult{Name: MethodEarnings, Value: multiple * eps, Defined: true}
}

// cashflowMultipleValue prices FCF per share at a growth-justified multiple
// scaled by quality.
func cashflowMultipleValue(cfg decisionconfig.Multiples, fcfPerShare, growth, qualityScore float64) MethodResult {
	if fcfPerShare <= 0 {
		return MethodResult{Name: MethodCashFlow, Reason: "fcf per share <= 0"}
	}

	multiple := justifiedMultiple(cfg.CashFlow, cfg.QualityScaling, growth, qualityScore)
	return MethodResult{Name: MethodCashFlow, Value: multiple * fcfPerShare, Defined: true}
}

func justifiedMultiple(buckets []decisionconfig.MultipleBucket, scaling []decisionconfig.QualityScale, growth, qualityScore float64) float64 {
	base := buckets[len(buckets)-1].Multiple
	for _, b := range buckets {
		if growth >= b.GrowthMin {
			base = b.Multiple
			break
		}
	}

	factor := scaling[len(scaling)-1].Factor
	for _, qs := range scaling {
		if qualityScore >= qs.QualityMin {
			factor = qs.Factor
			break
		}
	}

	return base * factor
}
