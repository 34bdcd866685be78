package fundamentals

import "github.com/verdictlab/verdict/internal/contracts"

// Classification thresholds, as decimals.
const (
	startupGrowthMin   = 0.25
	growthStageMin     = 0.12
	decliningGrowthMax = -0.02
	cyclicalDrawdown   = 0.10
)

// Classify places a company on the lifecycle curve and labels its revenue
// pattern. Both feed the valuation engine's growth multiplier and blend
// weights. Anything ambiguous lands mature/stable, matching a conservative
// reading of the history.
func Classify(snap *contracts.FinancialSnapshot, m *contracts.DerivedMetrics) (contracts.LifecycleStage, contracts.BusinessType) {
	stage := contracts.StageMature
	businessType := contracts.BusinessStable

	if !m.RevenueCAGR.Available {
		return stage, businessType
	}
	growth := m.RevenueCAGR.Value

	unprofitable := false
	if latest := snap.Latest(); latest != nil {
		unprofitable = latest.Income.NetIncome <= 0
	}

	switch {
	case growth >= startupGrowthMin && unprofitable:
		stage = contracts.StageStartup
	case growth >= growthStageMin:
		stage = contracts.StageGrowth
	case growth <= decliningGrowthMax:
		stage = contracts.StageDeclining
	}

	switch {
	case growth >= growthStageMin:
		businessType = contracts.BusinessGrowth
	case hasRevenueDrawdown(snap, cyclicalDrawdown):
		businessType = contracts.BusinessCyclical
	}

	return stage, businessType
}

// hasRevenueDrawdown reports whether any year-over-year revenue drop in the
// window exceeds the threshold. Years are most recent first.
func hasRevenueDrawdown(snap *contracts.FinancialSnapshot, threshold float64) bool {
	for i := 0; i+1 < len(snap.Years); i++ {
		cur := snap.Years[i].Income.Revenue
		prev := snap.Years[i+1].Income.Revenue
		if prev <= 0 {
			continue
		}
		if (prev-cur)/prev > threshold {
			return true
		}
	}
	return false
}
