package synthesis

import "github.com/verdictlab/verdict/internal/decisionconfig"

// PositionSize scales the base allocation by conviction, risk, and
// opportunity, clamped to the policy bounds.
//
//	conviction 0-10 maps to [0.5, 1.0]
//	risk 0-10 maps to [1.0, 0.5]
//	upside percent maps to [min_mult, max_mult] around 1.0
func PositionSize(cfg decisionconfig.Position, conviction, risk, upsidePct float64) float64 {
	convictionMult := 0.5 + clamp(conviction, 0, 10)/20
	riskMult := 1 - clamp(risk, 0, 10)/20
	opportunityMult := clamp(cfg.OpportunityMinMult+upsidePct/100, cfg.OpportunityMinMult, cfg.OpportunityMaxMult)

	size := cfg.BasePct * convictionMult * riskMult * opportunityMult
	return clamp(size, cfg.MinPct, cfg.MaxPct)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
