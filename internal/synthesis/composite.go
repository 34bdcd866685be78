// Package synthesis folds the role reports, the computed quality score, and
// the valuation result into one final decision: composite score, fair value,
// scenario expectations, recommendation tier, and position size.
package synthesis

import (
	"fmt"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// CompositeInputs are the three role scores feeding the composite. A score
// an extraction rule failed to produce may carry a computed fallback; a role
// with neither is excluded and its weight redistributed.
type CompositeInputs struct {
	ValueScore  float64
	ValueOK     bool
	GrowthScore float64
	GrowthOK    bool
	RiskScore   float64 // 0-10, higher is riskier
	RiskOK      bool
}

// CompositeResult carries the weighted score and which roles contributed.
type CompositeResult struct {
	Score    float64
	OK       bool
	Excluded []string
}

// Composite computes value*wV + growth*wG + (10-risk)*wR, renormalizing the
// weights over the roles that produced a score. Risk enters inverted so a
// riskier company scores lower.
func Composite(cfg decisionconfig.Composite, in CompositeInputs) CompositeResult {
	type term struct {
		name   string
		score  float64
		weight float64
		ok     bool
	}
	terms := []term{
		{"value", in.ValueScore, cfg.ValueWeight, in.ValueOK},
		{"growth", in.GrowthScore, cfg.GrowthWeight, in.GrowthOK},
		{"risk", 10 - in.RiskScore, cfg.RiskWeight, in.RiskOK},
	}

	var totalWeight, sum float64
	var excluded []string
	for _, t := range terms {
		if !t.ok {
			excluded = append(excluded, t.name)
			continue
		}
		totalWeight += t.weight
		sum += t.score * t.weight
	}

	if totalWeight <= 0 {
		return CompositeResult{Excluded: excluded}
	}

	score := sum / totalWeight
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return CompositeResult{Score: score, OK: true, Excluded: excluded}
}

// degradedField formats one provenance entry for a field that fell back or
// went missing.
func degradedField(role contracts.Role, field string) string {
	return fmt.Sprintf("%s:%s", role, field)
}
