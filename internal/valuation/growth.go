// Package valuation produces an intrinsic value per share from three
// independent methods (two-stage DCF, earnings multiple, cash-flow multiple)
// blended by business type. Every input comes from the snapshot and the
// policy tables; nothing here reads narrative text.
package valuation

import (
	"fmt"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// GrowthEstimate is the forward growth rate with its derivation trail.
type GrowthEstimate struct {
	Rate          float64 `json:"rate"`
	HistoricalAvg float64 `json:"historical_avg"`
	StageAdjusted float64 `json:"stage_adjusted"`
	SizeCap       float64 `json:"size_cap"`
	Reasoning     string  `json:"reasoning"`
}

// EstimateGrowth blends the historical CAGRs, scales by lifecycle stage,
// then caps by company size. Unavailable CAGRs contribute zero, which keeps
// the estimate conservative for thin histories.
func EstimateGrowth(cfg decisionconfig.Growth, m *contracts.DerivedMetrics, marketCap float64, stage contracts.LifecycleStage) GrowthEstimate {
	historical := ratioOrZero(m.RevenueCAGR)*cfg.RevenueWeight +
		ratioOrZero(m.EarningsCAGR)*cfg.EarningsWeight +
		ratioOrZero(m.FCFCAGR)*cfg.FCFWeight

	adjusted := historical * stageMultiplier(cfg.StageMultipliers, stage)

	sizeCap := cfg.Cap
	for _, sc := range cfg.SizeCaps {
		if marketCap >= sc.MarketCapMinUSD {
			sizeCap = sc.MaxGrowth
			break
		}
	}

	rate := adjusted
	if rate > sizeCap {
		rate = sizeCap
	}
	if rate < cfg.Floor {
		rate = cfg.Floor
	}
	if rate > cfg.Cap {
		rate = cfg.Cap
	}

	return GrowthEstimate{
		Rate:          rate,
		HistoricalAvg: historical,
		StageAdjusted: adjusted,
		SizeCap:       sizeCap,
		Reasoning: fmt.Sprintf("historical avg: %.1f%%, stage (%s): %.1f%%, size cap ($%.1fB): %.1f%%, final: %.1f%%",
			historical*100, stage, adjusted*100, marketCap/1e9, sizeCap*100, rate*100),
	}
}

func stageMultiplier(m decisionconfig.StageMultipliers, stage contracts.LifecycleStage) float64 {
	switch stage {
	case contracts.StageStartup:
		return m.Startup
	case contracts.StageGrowth:
		return m.Growth
	case contracts.StageDeclining:
		return m.Declining
	default:
		return m.Mature
	}
}

func ratioOrZero(r contracts.Ratio) float64 {
	if !r.Available {
		return 0
	}
	return r.Value
}
