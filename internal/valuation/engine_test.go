package valuation

import (
	"math"
	"testing"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

func testSnapshot() *contracts.FinancialSnapshot {
	return &contracts.FinancialSnapshot{
		Ticker: "TEST",
		Years: []contracts.FiscalYear{
			{
				Year:     "2025",
				Income:   contracts.IncomeStatement{Revenue: 10e9, NetIncome: 2e9},
				CashFlow: contracts.CashFlow{FreeCashFlow: 1.8e9},
			},
		},
		Market: contracts.MarketData{
			Price:             80,
			MarketCap:         40e9,
			SharesOutstanding: 500e6,
			Beta:              1.1,
			TrailingEPS:       4.0,
			ForwardEPS:        4.4,
		},
	}
}

func testMetrics() *contracts.DerivedMetrics {
	return &contracts.DerivedMetrics{
		RevenueCAGR:  contracts.Avail(0.12),
		EarningsCAGR: contracts.Avail(0.10),
		FCFCAGR:      contracts.Avail(0.14),
		DebtToEquity: contracts.Avail(0.4),
	}
}

func TestEstimateGrowthBlendAndStage(t *testing.T) {
	cfg := decisionconfig.Default().Growth

	g := EstimateGrowth(cfg, testMetrics(), 40e9, contracts.StageMature)

	wantHist := 0.12*0.3 + 0.10*0.3 + 0.14*0.4
	if math.Abs(g.HistoricalAvg-wantHist) > 1e-9 {
		t.Errorf("historical: got %v want %v", g.HistoricalAvg, wantHist)
	}
	wantAdj := wantHist * 0.8
	if math.Abs(g.StageAdjusted-wantAdj) > 1e-9 {
		t.Errorf("stage adjusted: got %v want %v", g.StageAdjusted, wantAdj)
	}
	// $40B sits in the >=10B cap of 20%, adjusted ~9.9% passes through.
	if g.SizeCap != 0.20 {
		t.Errorf("size cap: got %v", g.SizeCap)
	}
	if math.Abs(g.Rate-wantAdj) > 1e-9 {
		t.Errorf("rate: got %v want %v", g.Rate, wantAdj)
	}
}

func TestEstimateGrowthSizeCapBinds(t *testing.T) {
	cfg := decisionconfig.Default().Growth
	m := &contracts.DerivedMetrics{
		RevenueCAGR:  contracts.Avail(0.40),
		EarningsCAGR: contracts.Avail(0.40),
		FCFCAGR:      contracts.Avail(0.40),
	}

	g := EstimateGrowth(cfg, m, 600e9, contracts.StageGrowth)
	if g.Rate != 0.10 {
		t.Errorf("mega-cap should cap at 10%%, got %v", g.Rate)
	}
}

func TestEstimateGrowthBounds(t *testing.T) {
	cfg := decisionconfig.Default().Growth

	// Shrinking company floors at zero.
	m := &contracts.DerivedMetrics{
		RevenueCAGR:  contracts.Avail(-0.20),
		EarningsCAGR: contracts.Avail(-0.30),
		FCFCAGR:      contracts.Avail(-0.25),
	}
	g := EstimateGrowth(cfg, m, 1e9, contracts.StageDeclining)
	if g.Rate != 0.0 {
		t.Errorf("expected floor 0, got %v", g.Rate)
	}

	// Hypergrowth small cap caps at 30%.
	m = &contracts.DerivedMetrics{
		RevenueCAGR:  contracts.Avail(0.80),
		EarningsCAGR: contracts.Avail(0.80),
		FCFCAGR:      contracts.Avail(0.80),
	}
	g = EstimateGrowth(cfg, m, 1e9, contracts.StageStartup)
	if g.Rate != 0.30 {
		t.Errorf("expected cap 0.30, got %v", g.Rate)
	}
}

func TestEstimateDiscountNeverBelowRiskFree(t *testing.T) {
	cfg := decisionconfig.Default().Discount

	for _, beta := range []float64{0, 0.2, 0.5, 1.0, 1.8, 3.0} {
		d := EstimateDiscount(cfg, beta, 100e9, contracts.Avail(0.3))
		if d.Rate < cfg.RiskFree {
			t.Errorf("beta %v: rate %v below risk-free %v", beta, d.Rate, cfg.RiskFree)
		}
	}
}

func TestEstimateDiscountPremiums(t *testing.T) {
	cfg := decisionconfig.Default().Discount

	// Micro-cap with heavy leverage carries both premiums.
	d := EstimateDiscount(cfg, 1.0, 1e9, contracts.Avail(2.5))
	want := 0.045 + 1.0*0.065 + 0.035 + 0.025
	if math.Abs(d.Rate-want) > 1e-9 {
		t.Errorf("got %v want %v", d.Rate, want)
	}

	// Mega-cap with no debt gets neither.
	d = EstimateDiscount(cfg, 1.0, 500e9, contracts.Avail(0.2))
	want = 0.045 + 0.065
	if math.Abs(d.Rate-want) > 1e-9 {
		t.Errorf("got %v want %v", d.Rate, want)
	}
}

func TestDCFValue(t *testing.T) {
	cfg := decisionconfig.DCF{ProjectionYears: 5, TerminalGrowth: 0.03}

	r := dcfValue(cfg, 1.8e9, 0.10, 0.11, 0.03, 500e6)
	if !r.Defined {
		t.Fatalf("expected defined, got reason %q", r.Reason)
	}

	// Recompute by hand.
	var stage1 float64
	for y := 1; y <= 5; y++ {
		stage1 += 1.8e9 * math.Pow(1.10, float64(y)) / math.Pow(1.11, float64(y))
	}
	terminal := 1.8e9 * math.Pow(1.10, 6) / (0.11 - 0.03)
	want := (stage1 + terminal/math.Pow(1.11, 5)) / 500e6
	if math.Abs(r.Value-want) > 1e-6 {
		t.Errorf("got %v want %v", r.Value, want)
	}
}

func TestDCFFlatProjection(t *testing.T) {
	cfg := decisionconfig.DCF{ProjectionYears: 5, TerminalGrowth: 0.03}

	// Zero growth is a legitimate flat projection, not an input to repair.
	r := dcfValue(cfg, 1.8e9, 0.0, 0.11, 0.03, 500e6)
	if !r.Defined {
		t.Fatalf("expected defined, got reason %q", r.Reason)
	}

	var stage1 float64
	for y := 1; y <= 5; y++ {
		stage1 += 1.8e9 / math.Pow(1.11, float64(y))
	}
	terminal := 1.8e9 / (0.11 - 0.03)
	want := (stage1 + terminal/math.Pow(1.11, 5)) / 500e6
	if math.Abs(r.Value-want) > 1e-6 {
		t.Errorf("got %v want %v", r.Value, want)
	}
}

func TestDCFExclusions(t *testing.T) {
	cfg := decisionconfig.DCF{ProjectionYears: 5, TerminalGrowth: 0.03}

	tests := []struct {
		name   string
		fcf    float64
		disc   float64
		shares float64
	}{
		{"negative FCF", -1e9, 0.11, 500e6},
		{"zero shares", 1e9, 0.11, 0},
		{"discount below terminal growth", 1e9, 0.02, 500e6},
		{"discount equal to terminal growth", 1e9, 0.03, 500e6},
	}
	for _, tc := range tests {
		r := dcfValue(cfg, tc.fcf, 0.10, tc.disc, 0.03, tc.shares)
		if r.Defined {
			t.Errorf("%s: must be excluded, got value %v", tc.name, r.Value)
		}
		if r.Reason == "" {
			t.Errorf("%s: exclusion must carry a reason", tc.name)
		}
	}
}

func TestValuateExcludesDCFOnLowDiscount(t *testing.T) {
	// A permissive rate environment can push the discount below the terminal
	// growth; the method drops out and the blend renormalizes over the rest.
	cfg := decisionconfig.Default()
	cfg.Discount = decisionconfig.Discount{RiskFree: 0.01, EquityRiskPremium: 0.01}

	e := NewEngine(cfg)
	r := e.Valuate(testSnapshot(), testMetrics(), 8, contracts.StageMature, contracts.BusinessStable)

	if r.Discount.Rate > cfg.DCF.TerminalGrowth {
		t.Fatalf("setup: discount %v should be <= terminal %v", r.Discount.Rate, cfg.DCF.TerminalGrowth)
	}
	if r.Methods[0].Defined {
		t.Fatal("dcf must be excluded when discount <= terminal growth")
	}
	if r.Methods[0].Reason == "" {
		t.Error("dcf exclusion must carry a reason")
	}
	if !r.IntrinsicDefined {
		t.Fatal("remaining methods must still blend")
	}

	// Stable weights .35/.25 renormalize to 7/12 and 5/12 over the two
	// multiple methods: 66 and 57.6 per share blend to exactly 62.5.
	if math.Abs(r.IntrinsicValue-62.5) > 1e-9 {
		t.Errorf("intrinsic: got %v want 62.5", r.IntrinsicValue)
	}
	if w := r.Methods[1].Weight + r.Methods[2].Weight; math.Abs(w-1.0) > 1e-9 {
		t.Errorf("surviving weights must sum to 1, got %v", w)
	}
}

func TestJustifiedMultiples(t *testing.T) {
	cfg := decisionconfig.Default().Multiples

	// 12% growth, quality 9: P/E 20 at full quality factor.
	r := earningsMultipleValue(cfg, 4.0, 4.4, 0.12, 9)
	if !r.Defined {
		t.Fatal("expected defined")
	}
	if math.Abs(r.Value-20*4.4) > 1e-9 {
		t.Errorf("got %v want %v", r.Value, 20*4.4)
	}

	// Same growth, quality 5: factor 0.70.
	r = earningsMultipleValue(cfg, 4.0, 4.4, 0.12, 5)
	if math.Abs(r.Value-20*0.70*4.4) > 1e-9 {
		t.Errorf("got %v want %v", r.Value, 20*0.70*4.4)
	}

	// No earnings at all is excluded.
	r = earningsMultipleValue(cfg, -1, 0, 0.12, 5)
	if r.Defined {
		t.Error("negative EPS must be excluded")
	}

	// Cash flow multiple uses its own bucket table.
	r = cashflowMultipleValue(cfg, 3.6, 0.16, 9)
	if math.Abs(r.Value-30*3.6) > 1e-9 {
		t.Errorf("got %v want %v", r.Value, 30*3.6)
	}
}

func TestValuateBlendsAndRenormalizes(t *testing.T) {
	e := NewEngine(decisionconfig.Default())

	r := e.Valuate(testSnapshot(), testMetrics(), 8, contracts.StageMature, contracts.BusinessStable)
	if !r.IntrinsicDefined {
		t.Fatal("expected a defined intrinsic value")
	}
	if len(r.Methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(r.Methods))
	}

	var weightSum float64
	for _, mv := range r.Methods {
		if mv.Defined {
			weightSum += mv.Weight
		}
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Errorf("weights must renormalize to 1.0, got %v", weightSum)
	}
	if !r.MOSDefined {
		t.Error("price and intrinsic defined, so MOS should be too")
	}
}

func TestValuateExcludedMethodRenormalizes(t *testing.T) {
	e := NewEngine(decisionconfig.Default())

	snap := testSnapshot()
	snap.Years[0].CashFlow.FreeCashFlow = -1e9 // kills DCF and P/FCF

	r := e.Valuate(snap, testMetrics(), 8, contracts.StageMature, contracts.BusinessStable)
	if !r.IntrinsicDefined {
		t.Fatal("earnings multiple alone should still define a value")
	}
	for _, mv := range r.Methods {
		switch mv.Name {
		case MethodEarnings:
			if !mv.Defined || math.Abs(mv.Weight-1.0) > 1e-9 {
				t.Errorf("sole surviving method takes full weight: %+v", mv)
			}
		default:
			if mv.Defined {
				t.Errorf("%s should be excluded", mv.Name)
			}
			if mv.Reason == "" {
				t.Errorf("%s needs an exclusion reason", mv.Name)
			}
		}
	}
}

func TestValuateAllExcludedIsUndefined(t *testing.T) {
	e := NewEngine(decisionconfig.Default())

	snap := testSnapshot()
	snap.Years[0].CashFlow.FreeCashFlow = -1e9
	snap.Market.TrailingEPS = -2
	snap.Market.ForwardEPS = 0

	r := e.Valuate(snap, testMetrics(), 8, contracts.StageMature, contracts.BusinessStable)
	if r.IntrinsicDefined {
		t.Error("every method excluded must leave intrinsic undefined")
	}
	if r.MOSDefined {
		t.Error("no intrinsic value means no margin of safety")
	}
}

func TestMOSAssessmentBands(t *testing.T) {
	cases := []struct {
		mos  float64
		want string
	}{
		{30, "significant undervaluation"},
		{15, "moderate undervaluation"},
		{0, "roughly fairly valued"},
		{-15, "moderately overvalued"},
		{-40, "significantly overvalued"},
	}
	for _, tc := range cases {
		if got := MOSAssessment(tc.mos); got != tc.want {
			t.Errorf("MOS %v: got %q want %q", tc.mos, got, tc.want)
		}
	}
}
