package decisionconfig

import (
	"fmt"
	"math"
)

// ValidationError is a fatal policy defect. Runs never start on an invalid
// policy.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const weightEpsilon = 1e-6

// Validate checks every structural constraint of the policy.
func Validate(cfg *Config) error {
	if cfg.Meta.PolicyID == "" {
		return ValidationError{"meta.policy_id", "required"}
	}

	// === Composite ===
	sum := cfg.Composite.ValueWeight + cfg.Composite.GrowthWeight + cfg.Composite.RiskWeight
	if math.Abs(sum-1.0) > weightEpsilon {
		return ValidationError{"composite", fmt.Sprintf("weights must sum to 1.0, got %.4f", sum)}
	}
	for _, w := range []float64{cfg.Composite.ValueWeight, cfg.Composite.GrowthWeight, cfg.Composite.RiskWeight} {
		if w < 0 {
			return ValidationError{"composite", "weights must be >= 0"}
		}
	}

	// === Blend ===
	for field, row := range map[string]MethodWeights{
		"blend.stable":   cfg.Blend.Stable,
		"blend.growth":   cfg.Blend.Growth,
		"blend.cyclical": cfg.Blend.Cyclical,
	} {
		if math.Abs(row.Sum()-1.0) > weightEpsilon {
			return ValidationError{field, fmt.Sprintf("method weights must sum to 1.0, got %.4f", row.Sum())}
		}
		if row.DCF < 0 || row.Earnings < 0 || row.CashFlow < 0 {
			return ValidationError{field, "method weights must be >= 0"}
		}
	}

	// === Growth ===
	gSum := cfg.Growth.RevenueWeight + cfg.Growth.EarningsWeight + cfg.Growth.FCFWeight
	if math.Abs(gSum-1.0) > weightEpsilon {
		return ValidationError{"growth", fmt.Sprintf("blend weights must sum to 1.0, got %.4f", gSum)}
	}
	if cfg.Growth.Floor > cfg.Growth.Cap {
		return ValidationError{"growth", "floor must be <= cap"}
	}
	if len(cfg.Growth.SizeCaps) == 0 {
		return ValidationError{"growth.size_caps", "required"}
	}
	for i := 1; i < len(cfg.Growth.SizeCaps); i++ {
		if cfg.Growth.SizeCaps[i].MarketCapMinUSD >= cfg.Growth.SizeCaps[i-1].MarketCapMinUSD {
			return ValidationError{"growth.size_caps", "thresholds must be strictly descending"}
		}
	}

	// === Discount ===
	if cfg.Discount.RiskFree < 0 {
		return ValidationError{"discount.risk_free", "must be >= 0"}
	}
	if cfg.Discount.EquityRiskPremium <= 0 {
		return ValidationError{"discount.equity_risk_premium", "must be > 0"}
	}
	for i := 1; i < len(cfg.Discount.SizePremiums); i++ {
		if cfg.Discount.SizePremiums[i].MarketCapMaxUSD <= cfg.Discount.SizePremiums[i-1].MarketCapMaxUSD {
			return ValidationError{"discount.size_premiums", "thresholds must be strictly ascending"}
		}
	}
	for i := 1; i < len(cfg.Discount.LeveragePremiums); i++ {
		if cfg.Discount.LeveragePremiums[i].DebtToEquityMin >= cfg.Discount.LeveragePremiums[i-1].DebtToEquityMin {
			return ValidationError{"discount.leverage_premiums", "thresholds must be strictly descending"}
		}
	}

	// === Multiples ===
	if err := validateBuckets("multiples.earnings", cfg.Multiples.Earnings); err != nil {
		return err
	}
	if err := validateBuckets("multiples.cashflow", cfg.Multiples.CashFlow); err != nil {
		return err
	}
	if len(cfg.Multiples.QualityScaling) == 0 {
		return ValidationError{"multiples.quality_scaling", "required"}
	}

	// === DCF ===
	if cfg.DCF.ProjectionYears < 1 {
		return ValidationError{"dcf.projection_years", "must be >= 1"}
	}
	if cfg.DCF.TerminalGrowth >= cfg.Discount.RiskFree+cfg.Discount.EquityRiskPremium {
		return ValidationError{"dcf.terminal_growth", "must be below the base discount rate"}
	}

	// === Quality ===
	if cfg.Quality.RedFlagPenalty < 0 {
		return ValidationError{"quality.red_flag_penalty", "must be >= 0"}
	}

	// === Scenarios ===
	if len(cfg.Scenarios.Bands) == 0 {
		return ValidationError{"scenarios.bands", "required"}
	}
	for i, band := range cfg.Scenarios.Bands {
		if math.Abs(band.Sum()-1.0) > weightEpsilon {
			return ValidationError{
				Field:   fmt.Sprintf("scenarios.bands[%d]", i),
				Message: fmt.Sprintf("probabilities must sum to 1.0, got %.4f", band.Sum()),
			}
		}
		if band.Bull < 0 || band.Base < 0 || band.Bear < 0 {
			return ValidationError{
				Field:   fmt.Sprintf("scenarios.bands[%d]", i),
				Message: "probabilities must be >= 0",
			}
		}
		if i > 0 && band.CompositeMin >= cfg.Scenarios.Bands[i-1].CompositeMin {
			return ValidationError{"scenarios.bands", "composite_min must be strictly descending"}
		}
	}
	if last := cfg.Scenarios.Bands[len(cfg.Scenarios.Bands)-1]; last.CompositeMin > 0 {
		return ValidationError{"scenarios.bands", "last band must cover composite_min 0"}
	}

	// === Tiers ===
	if len(cfg.Tiers) == 0 {
		return ValidationError{"tiers", "required"}
	}
	if !cfg.Tiers[len(cfg.Tiers)-1].Fallback {
		return ValidationError{"tiers", "last rule must be the fallback"}
	}
	for i, rule := range cfg.Tiers {
		if rule.Recommendation == "" {
			return ValidationError{
				Field:   fmt.Sprintf("tiers[%d].recommendation", i),
				Message: "required",
			}
		}
		if rule.Fallback && i != len(cfg.Tiers)-1 {
			return ValidationError{
				Field:   fmt.Sprintf("tiers[%d]", i),
				Message: "only the last rule may be the fallback",
			}
		}
	}

	// === Position ===
	if cfg.Position.BasePct <= 0 {
		return ValidationError{"position.base_pct", "must be > 0"}
	}
	if cfg.Position.MinPct > cfg.Position.MaxPct {
		return ValidationError{"position", "min_pct must be <= max_pct"}
	}
	if cfg.Position.OpportunityMinMult > cfg.Position.OpportunityMaxMult {
		return ValidationError{"position", "opportunity_min_mult must be <= opportunity_max_mult"}
	}

	// === Extraction ===
	if cfg.Extraction.TruncationMinChars < 0 {
		return ValidationError{"extraction.truncation_min_chars", "must be >= 0"}
	}

	// === Disagreement ===
	if cfg.Disagreement.SpreadThreshold <= 0 {
		return ValidationError{"disagreement.spread_threshold", "must be > 0"}
	}
	if cfg.Disagreement.SynthesisShift < 0 || cfg.Disagreement.SynthesisShift > 1 {
		return ValidationError{"disagreement.synthesis_shift", "must be in range [0, 1]"}
	}

	return nil
}

func validateBuckets(field string, buckets []MultipleBucket) error {
	if len(buckets) == 0 {
		return ValidationError{field, "required"}
	}
	for i, b := range buckets {
		if b.Multiple <= 0 {
			return ValidationError{
				Field:   fmt.Sprintf("%s[%d].multiple", field, i),
				Message: "must be > 0",
			}
		}
		if i > 0 && b.GrowthMin >= buckets[i-1].GrowthMin {
			return ValidationError{field, "growth_min must be strictly descending"}
		}
	}
	return nil
}
