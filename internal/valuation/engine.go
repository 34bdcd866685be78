package valuation

import (
	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// Result is the full valuation output for one ticker.
type Result struct {
	Growth   GrowthEstimate `json:"growth"`
	Discount DiscountRate   `json:"discount"`

	Methods []contracts.MethodValue `json:"methods"`

	IntrinsicValue   float64 `json:"intrinsic_value"`
	IntrinsicDefined bool    `json:"intrinsic_defined"`

	MarginOfSafety float64 `json:"margin_of_safety"`
	MOSDefined     bool    `json:"mos_defined"`
}

// Engine blends the three valuation methods using policy tables.
type Engine struct {
	growth    decisionconfig.Growth
	discount  decisionconfig.Discount
	multiples decisionconfig.Multiples
	dcf       decisionconfig.DCF
	blend     decisionconfig.Blend
}

func NewEngine(cfg *decisionconfig.Config) *Engine {
	return &Engine{
		growth:    cfg.Growth,
		discount:  cfg.Discount,
		multiples: cfg.Multiples,
		dcf:       cfg.DCF,
		blend:     cfg.Blend,
	}
}

// Valuate derives growth and discount, runs each method, and blends the
// defined ones with weights renormalized over what survived. When every
// method is excluded the intrinsic value is undefined, never zero.
func (e *Engine) Valuate(snap *contracts.FinancialSnapshot, m *contracts.DerivedMetrics, qualityScore float64, stage contracts.LifecycleStage, businessType contracts.BusinessType) Result {
	r := Result{}

	mkt := snap.Market
	r.Growth = EstimateGrowth(e.growth, m, mkt.MarketCap, stage)
	r.Discount = EstimateDiscount(e.discount, mkt.Beta, mkt.MarketCap, m.DebtToEquity)

	var fcf, fcfPerShare float64
	if latest := snap.Latest(); latest != nil {
		fcf = latest.CashFlow.FreeCashFlow
	}
	if mkt.SharesOutstanding > 0 {
		fcfPerShare = fcf / mkt.SharesOutstanding
	}

	methods := []MethodResult{
		dcfValue(e.dcf, fcf, r.Growth.Rate, r.Discount.Rate, e.dcf.TerminalGrowth, mkt.SharesOutstanding),
		earningsMultipleValue(e.multiples, mkt.TrailingEPS, mkt.ForwardEPS, r.Growth.Rate, qualityScore),
		cashflowMultipleValue(e.multiples, fcfPerShare, r.Growth.Rate, qualityScore),
	}

	weights := e.weightsFor(businessType)
	r.Methods, r.IntrinsicValue, r.IntrinsicDefined = blendMethods(methods, weights)

	if r.IntrinsicDefined && r.IntrinsicValue > 0 && mkt.Price > 0 {
		r.MarginOfSafety = (r.IntrinsicValue - mkt.Price) / r.IntrinsicValue * 100
		r.MOSDefined = true
	}

	return r
}

func (e *Engine) weightsFor(bt contracts.BusinessType) [3]float64 {
	var w decisionconfig.MethodWeights
	switch bt {
	case contracts.BusinessGrowth:
		w = e.blend.Growth
	case contracts.BusinessCyclical:
		w = e.blend.Cyclical
	default:
		w = e.blend.Stable
	}
	return [3]float64{w.DCF, w.Earnings, w.CashFlow}
}

// blendMethods renormalizes the configured weights over the defined methods
// and returns the weighted intrinsic value. Excluded methods keep a zero
// weight and carry their exclusion reason.
func blendMethods(methods []MethodResult, weights [3]float64) ([]contracts.MethodValue, float64, bool) {
	out := make([]contracts.MethodValue, len(methods))

	var totalWeight float64
	for i, mr := range methods {
		out[i] = contracts.MethodValue{
			Name:    mr.Name,
			Value:   mr.Value,
			Defined: mr.Defined,
			Reason:  mr.Reason,
		}
		if mr.Defined {
			totalWeight += weights[i]
		}
	}

	if totalWeight <= 0 {
		return out, 0, false
	}

	var intrinsic float64
	for i, mr := range methods {
		if !mr.Defined {
			continue
		}
		w := weights[i] / totalWeight
		out[i].Weight = w
		intrinsic += mr.Value * w
	}

	return out, intrinsic, true
}

// MOSAssessment maps a margin of safety (percent) to a plain-language band.
func MOSAssessment(mos float64) string {
	switch {
	case mos > 25:
		return "significant undervaluation"
	case mos > 10:
		return "moderate undervaluation"
	case mos > -10:
		return "roughly fairly valued"
	case mos > -25:
		return "moderately overvalued"
	default:
		return "significantly overvalued"
	}
}
