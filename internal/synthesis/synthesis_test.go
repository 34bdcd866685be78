package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
	"github.com/verdictlab/verdict/internal/valuation"
)

func TestCompositeAllRoles(t *testing.T) {
	cfg := decisionconfig.Default().Composite

	res := Composite(cfg, CompositeInputs{
		ValueScore: 9, ValueOK: true,
		GrowthScore: 8, GrowthOK: true,
		RiskScore: 2, RiskOK: true,
	})

	require.True(t, res.OK)
	// 0.30*9 + 0.35*8 + 0.35*(10-2)
	assert.InDelta(t, 8.3, res.Score, 1e-9)
	assert.Empty(t, res.Excluded)
}

func TestCompositeRenormalizesOverMissingRole(t *testing.T) {
	cfg := decisionconfig.Default().Composite

	res := Composite(cfg, CompositeInputs{
		ValueScore: 9, ValueOK: true,
		RiskScore: 2, RiskOK: true,
	})

	require.True(t, res.OK)
	assert.InDelta(t, (0.30*9+0.35*8)/0.65, res.Score, 1e-9)
	assert.Equal(t, []string{"growth"}, res.Excluded)
}

func TestCompositeNoRoles(t *testing.T) {
	res := Composite(decisionconfig.Default().Composite, CompositeInputs{})
	assert.False(t, res.OK)
	assert.Len(t, res.Excluded, 3)
}

func TestReconcileFairValueAgreement(t *testing.T) {
	cfg := decisionconfig.Default().Disagreement

	res := ReconcileFairValue(cfg, []Estimate{
		{Source: "engine", Value: 100, Conviction: 5},
		{Source: "value", Value: 110, Conviction: 10},
	}, 0, false)

	require.True(t, res.OK)
	assert.False(t, res.Disagreement)
	assert.InDelta(t, (100*5+110*10)/15.0, res.Value, 1e-9)
}

func TestReconcileFairValueDisagreementShiftsTowardSynthesis(t *testing.T) {
	cfg := decisionconfig.Default().Disagreement

	res := ReconcileFairValue(cfg, []Estimate{
		{Source: "engine", Value: 100, Conviction: 5},
		{Source: "value", Value: 105, Conviction: 5},
		{Source: "synthesis", Value: 150, Conviction: 5},
	}, 150, true)

	require.True(t, res.OK)
	assert.True(t, res.Disagreement)
	// Cluster mean 102.5, shifted a quarter of the way to 150.
	assert.InDelta(t, 102.5+0.25*(150-102.5), res.Value, 1e-9)
}

func TestReconcileFairValueSingleAndEmpty(t *testing.T) {
	cfg := decisionconfig.Default().Disagreement

	res := ReconcileFairValue(cfg, []Estimate{{Source: "engine", Value: 42, Conviction: 5}}, 0, false)
	require.True(t, res.OK)
	assert.Equal(t, 42.0, res.Value)

	res = ReconcileFairValue(cfg, nil, 0, false)
	assert.False(t, res.OK)

	// Non-positive estimates are ignored.
	res = ReconcileFairValue(cfg, []Estimate{{Value: -10}, {Value: 0}}, 0, false)
	assert.False(t, res.OK)
}

func TestBuildScenarioExtractedWins(t *testing.T) {
	cfg := decisionconfig.Default().Scenarios
	synth := contracts.NewExtractedMetrics(contracts.RoleSynthesis)
	synth.BullReturn = contracts.Num{Value: 80, Status: contracts.Extracted}
	synth.BaseReturn = contracts.Num{Value: 40, Status: contracts.Extracted}
	synth.BearReturn = contracts.Num{Value: -20, Status: contracts.Extracted}
	synth.BullProb = contracts.Num{Value: 30, Status: contracts.Extracted}
	synth.BaseProb = contracts.Num{Value: 50, Status: contracts.Extracted}
	synth.BearProb = contracts.Num{Value: 20, Status: contracts.Extracted}

	s := BuildScenario(cfg, 7.0, synth, 0, false)

	assert.InDelta(t, 0.30, s.BullProb, 1e-9)
	assert.InDelta(t, 1.0, s.BullProb+s.BaseProb+s.BearProb, 1e-9)
	assert.InDelta(t, 40.0, s.Expected3Y(), 1e-9) // 80*.3 + 40*.5 - 20*.2
}

func TestBuildScenarioIncoherentProbsKeepBand(t *testing.T) {
	cfg := decisionconfig.Default().Scenarios
	synth := contracts.NewExtractedMetrics(contracts.RoleSynthesis)
	synth.BullProb = contracts.Num{Value: 60, Status: contracts.Extracted}
	synth.BaseProb = contracts.Num{Value: 60, Status: contracts.Extracted}
	synth.BearProb = contracts.Num{Value: 20, Status: contracts.Extracted}

	s := BuildScenario(cfg, 8.5, synth, 0, false)

	// Sum 140 is rejected; the band for a high composite applies.
	assert.InDelta(t, 0.20, s.BullProb, 1e-9)
	assert.InDelta(t, 0.65, s.BaseProb, 1e-9)
}

func TestBuildScenarioDerivedFromUpside(t *testing.T) {
	cfg := decisionconfig.Default().Scenarios

	s := BuildScenario(cfg, 8.3, nil, 20, true)

	assert.InDelta(t, 20.0, s.BaseReturn, 1e-9)
	assert.InDelta(t, 50.0, s.BullReturn, 1e-9)
	assert.InDelta(t, -20.0, s.BearReturn, 1e-9)
	assert.InDelta(t, 20.0, s.Expected3Y(), 1e-9)
}

func TestBuildScenarioBearFloor(t *testing.T) {
	cfg := decisionconfig.Default().Scenarios
	s := BuildScenario(cfg, 2.0, nil, -50, true)
	assert.InDelta(t, -60.0, s.BearReturn, 1e-9)
}

func TestExpectedReturnsAnnualize(t *testing.T) {
	s := Scenario{BullReturn: 80, BaseReturn: 40, BearReturn: -20, BullProb: 0.3, BaseProb: 0.5, BearProb: 0.2}

	er := ExpectedReturns(s)

	assert.InDelta(t, 40.0, er.Y3, 1e-9)
	assert.InDelta(t, 11.87, er.Y1, 0.01)
	assert.InDelta(t, 75.21, er.Y5, 0.01)
	assert.Greater(t, er.Y5, er.Y3)
}

func TestExpectedReturnsTotalLossFloor(t *testing.T) {
	s := Scenario{BearReturn: -150, BearProb: 1.0}
	er := ExpectedReturns(s)
	assert.InDelta(t, -99.0, er.Y3, 1e-9)
	assert.Greater(t, er.Y1, -100.0)
}

func TestPositionSize(t *testing.T) {
	cfg := decisionconfig.Default().Position

	// 5.0 * 0.9 * 0.85 * 1.05
	got := PositionSize(cfg, 8, 3, 25)
	assert.InDelta(t, 4.0163, got, 0.001)

	// Best case stays within the cap.
	assert.LessOrEqual(t, PositionSize(cfg, 10, 0, 200), cfg.MaxPct)
	// Worst case never goes negative.
	assert.GreaterOrEqual(t, PositionSize(cfg, 0, 10, -90), 0.0)
}

func strongInputs() Inputs {
	value := contracts.NewExtractedMetrics(contracts.RoleValue)
	value.QualityScore = contracts.Num{Value: 9, Status: contracts.Extracted}
	value.MoatRating = contracts.Str{Value: contracts.MoatStrong, Status: contracts.Extracted}
	value.IntrinsicValue = contracts.Num{Value: 145, Status: contracts.Extracted}
	value.MarginOfSafety = contracts.Num{Value: 40, Status: contracts.Extracted}
	value.Recommendation = contracts.Str{Value: contracts.RecBuy, Status: contracts.Extracted}
	value.Conviction = contracts.Num{Value: 8, Status: contracts.Extracted}

	growth := contracts.NewExtractedMetrics(contracts.RoleGrowth)
	growth.QualityScore = contracts.Num{Value: 8, Status: contracts.Extracted}
	growth.Recommendation = contracts.Str{Value: contracts.RecBuy, Status: contracts.Extracted}
	growth.Conviction = contracts.Num{Value: 7, Status: contracts.Extracted}

	risk := contracts.NewExtractedMetrics(contracts.RoleRisk)
	risk.RiskScore = contracts.Num{Value: 2, Status: contracts.Extracted}
	risk.RedFlagCount = contracts.Num{Value: 0, Status: contracts.Extracted}

	synth := contracts.NewExtractedMetrics(contracts.RoleSynthesis)
	synth.Recommendation = contracts.Str{Value: contracts.RecStrongBuy, Status: contracts.Extracted}
	synth.Conviction = contracts.Num{Value: 8, Status: contracts.Extracted}
	synth.FairValue = contracts.Num{Value: 150, Status: contracts.Extracted}
	synth.PositionSize = contracts.Num{Value: 5, Status: contracts.Extracted}
	synth.EntryLow = contracts.Num{Value: 120, Status: contracts.Extracted}
	synth.EntryHigh = contracts.Num{Value: 130, Status: contracts.Extracted}
	synth.StopLoss = contracts.Num{Value: 110, Status: contracts.Extracted}
	synth.TargetPrice = contracts.Num{Value: 160, Status: contracts.Extracted}

	return Inputs{
		RunID:           "run-1",
		Ticker:          "ACME",
		Price:           100,
		ComputedQuality: 8.5,
		Valuation: valuation.Result{
			IntrinsicValue:   140,
			IntrinsicDefined: true,
			MarginOfSafety:   40,
			MOSDefined:       true,
		},
		Value:      value,
		Growth:     growth,
		Risk:       risk,
		Synthesis:  synth,
		ConfigHash: "abc123",
	}
}

func TestDecideStrongCase(t *testing.T) {
	s := New(decisionconfig.Default())
	in := strongInputs()

	d := s.Decide(in)

	require.NotNil(t, d)
	assert.Equal(t, "run-1", d.RunID)
	assert.Equal(t, "ACME", d.Ticker)
	assert.Equal(t, "abc123", d.ConfigHash)
	assert.InDelta(t, 8.3, d.CompositeScore, 1e-9)

	// Engine 140, value 145, synthesis 150 agree within the threshold.
	require.True(t, d.FairValueOK)
	assert.False(t, d.Disagreement)
	assert.InDelta(t, (140*5+145*8+150*8)/21.0, d.FairValue, 1e-9)

	assert.Equal(t, contracts.RecStrongBuy, d.Recommendation)
	assert.InDelta(t, 8.0, d.Conviction, 1e-9)

	// Extracted execution levels pass through untouched.
	assert.Equal(t, 120.0, d.EntryLow)
	assert.Equal(t, 130.0, d.EntryHigh)
	assert.Equal(t, 110.0, d.StopLoss)
	assert.Equal(t, 160.0, d.TargetPrice)

	assert.True(t, d.IntrinsicDefined)
	assert.Equal(t, 140.0, d.IntrinsicValue)
	assert.False(t, d.IsDegraded())

	assert.Greater(t, d.PositionSizePct, 0.0)
	assert.LessOrEqual(t, d.PositionSizePct, 8.0)
}

func TestDecideDegradedFallbacks(t *testing.T) {
	s := New(decisionconfig.Default())

	d := s.Decide(Inputs{
		RunID:            "run-2",
		Ticker:           "ACME",
		Price:            100,
		ComputedQuality:  6,
		ComputedRedFlags: 1,
	})

	require.NotNil(t, d)

	// Value falls back to the computed quality score, growth drops out,
	// risk falls back to neutral plus flags.
	assert.InDelta(t, (0.30*6+0.35*4)/0.65, d.CompositeScore, 1e-9)

	assert.False(t, d.FairValueOK)
	assert.Equal(t, contracts.RecReduce, d.Recommendation)
	assert.InDelta(t, 5.0, d.Conviction, 1e-9)

	// No fair value means no derived levels.
	assert.Zero(t, d.EntryLow)
	assert.Zero(t, d.StopLoss)
	assert.Zero(t, d.TargetPrice)
}

func TestDecideMissingFieldsLandInProvenance(t *testing.T) {
	s := New(decisionconfig.Default())
	in := strongInputs()
	in.Risk.RedFlagCount = contracts.NoNum()
	in.Synthesis.Conviction = contracts.NoNum()

	d := s.Decide(in)

	assert.Contains(t, d.DegradedInputs, "risk:red_flag_count")
	assert.Contains(t, d.DegradedInputs, "synthesis:conviction")
	// Conviction falls back to the value role.
	assert.InDelta(t, 8.0, d.Conviction, 1e-9)
}

func TestDecideDerivedExecutionLevels(t *testing.T) {
	s := New(decisionconfig.Default())
	in := strongInputs()
	in.Synthesis.EntryLow = contracts.NoNum()
	in.Synthesis.EntryHigh = contracts.NoNum()
	in.Synthesis.StopLoss = contracts.NoNum()
	in.Synthesis.TargetPrice = contracts.NoNum()

	d := s.Decide(in)

	require.True(t, d.FairValueOK)
	assert.InDelta(t, d.FairValue*0.85, d.EntryLow, 1e-9)
	assert.InDelta(t, d.FairValue*0.95, d.EntryHigh, 1e-9)
	assert.InDelta(t, d.EntryLow*0.90, d.StopLoss, 1e-9)
	assert.InDelta(t, d.FairValue, d.TargetPrice, 1e-9)
}

func TestDecideTierTable(t *testing.T) {
	s := New(decisionconfig.Default())

	cases := []struct {
		composite, r3, risk float64
		want                string
	}{
		{8.5, 20, 3, contracts.RecStrongBuy},
		{8.5, 20, 5, contracts.RecBuy}, // risk too high for the top tier
		{7.0, 10, 5, contracts.RecBuy},
		{5.5, 4, 6, contracts.RecHold},
		{4.0, -5, 7, contracts.RecReduce},
		{1.0, -30, 9, contracts.RecSell},
	}
	for _, tc := range cases {
		got := s.tierFor(tc.composite, tc.r3, tc.risk)
		assert.Equal(t, tc.want, got, "composite=%.1f r3=%.1f risk=%.1f", tc.composite, tc.r3, tc.risk)
	}
}
