package fundamentals

import (
	"testing"

	"github.com/verdictlab/verdict/internal/contracts"
)

func snapWithRevenues(netIncome float64, revenues ...float64) *contracts.FinancialSnapshot {
	snap := &contracts.FinancialSnapshot{Ticker: "TEST"}
	for i, rev := range revenues {
		fy := contracts.FiscalYear{}
		fy.Income.Revenue = rev
		if i == 0 {
			fy.Income.NetIncome = netIncome
		}
		snap.Years = append(snap.Years, fy)
	}
	return snap
}

func TestClassifyStages(t *testing.T) {
	cases := []struct {
		name      string
		cagr      float64
		netIncome float64
		want      contracts.LifecycleStage
	}{
		{"hypergrowth unprofitable is startup", 0.40, -50, contracts.StageStartup},
		{"hypergrowth profitable is growth", 0.40, 50, contracts.StageGrowth},
		{"double digit grower", 0.15, 50, contracts.StageGrowth},
		{"flat is mature", 0.03, 50, contracts.StageMature},
		{"shrinking is declining", -0.05, 50, contracts.StageDeclining},
	}
	for _, tc := range cases {
		m := &contracts.DerivedMetrics{RevenueCAGR: contracts.Avail(tc.cagr)}
		snap := snapWithRevenues(tc.netIncome, 1000, 900)
		stage, _ := Classify(snap, m)
		if stage != tc.want {
			t.Errorf("%s: stage = %s, want %s", tc.name, stage, tc.want)
		}
	}
}

func TestClassifyBusinessType(t *testing.T) {
	// Steady grower.
	m := &contracts.DerivedMetrics{RevenueCAGR: contracts.Avail(0.20)}
	_, bt := Classify(snapWithRevenues(100, 1200, 1000), m)
	if bt != contracts.BusinessGrowth {
		t.Errorf("business type = %s, want growth", bt)
	}

	// Slow growth with a deep revenue drop in the window.
	m = &contracts.DerivedMetrics{RevenueCAGR: contracts.Avail(0.02)}
	_, bt = Classify(snapWithRevenues(100, 1000, 800, 1100), m)
	if bt != contracts.BusinessCyclical {
		t.Errorf("business type = %s, want cyclical", bt)
	}

	// Slow steady revenue.
	m = &contracts.DerivedMetrics{RevenueCAGR: contracts.Avail(0.03)}
	_, bt = Classify(snapWithRevenues(100, 1060, 1030, 1000), m)
	if bt != contracts.BusinessStable {
		t.Errorf("business type = %s, want stable", bt)
	}
}

func TestClassifyNoGrowthData(t *testing.T) {
	m := &contracts.DerivedMetrics{}
	stage, bt := Classify(snapWithRevenues(100, 1000), m)
	if stage != contracts.StageMature || bt != contracts.BusinessStable {
		t.Errorf("got %s/%s, want mature/stable", stage, bt)
	}
}
