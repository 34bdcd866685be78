package synthesis

import (
	"time"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
	"github.com/verdictlab/verdict/internal/valuation"
)

// Inputs is everything the synthesizer needs for one ticker. The computed
// figures come from the deterministic layers; the extracted metrics come
// from the role reports and may be partially missing.
type Inputs struct {
	RunID  string
	Ticker string
	Price  float64

	ComputedQuality  float64
	ComputedRedFlags int // HIGH severity count
	Valuation        valuation.Result

	Value     *contracts.ExtractedMetrics
	Growth    *contracts.ExtractedMetrics
	Risk      *contracts.ExtractedMetrics
	Synthesis *contracts.ExtractedMetrics

	ConfigHash string
}

// Synthesizer builds final decisions from policy tables.
type Synthesizer struct {
	composite    decisionconfig.Composite
	scenarios    decisionconfig.Scenarios
	tiers        []decisionconfig.TierRule
	position     decisionconfig.Position
	disagreement decisionconfig.Disagreement
}

func New(cfg *decisionconfig.Config) *Synthesizer {
	return &Synthesizer{
		composite:    cfg.Composite,
		scenarios:    cfg.Scenarios,
		tiers:        cfg.Tiers,
		position:     cfg.Position,
		disagreement: cfg.Disagreement,
	}
}

// Decide runs the full synthesis: composite score, fair-value
// reconciliation, scenario expectations, tier table, and position size.
// Every fallback taken for a missing extracted field lands in
// DegradedInputs, so a decision built on thin reports says so.
func (s *Synthesizer) Decide(in Inputs) *contracts.Decision {
	d := &contracts.Decision{
		RunID:       in.RunID,
		Ticker:      in.Ticker,
		ConfigHash:  in.ConfigHash,
		GeneratedAt: time.Now().UTC(),
	}

	for _, em := range []*contracts.ExtractedMetrics{in.Value, in.Growth, in.Risk, in.Synthesis} {
		if em == nil {
			continue
		}
		for _, f := range em.MissingFields() {
			d.DegradedInputs = append(d.DegradedInputs, degradedField(em.Role, f))
		}
	}

	ci := s.compositeInputs(in)
	comp := Composite(s.composite, ci)
	d.CompositeScore = comp.Score

	risk := ci.RiskScore
	if !ci.RiskOK {
		risk = 5 // neutral when nothing informed it
	}

	// Fair value: the deterministic engine, the value role, and the
	// synthesis role each get a vote.
	var estimates []Estimate
	if in.Valuation.IntrinsicDefined {
		estimates = append(estimates, Estimate{Source: "engine", Value: in.Valuation.IntrinsicValue, Conviction: neutralConviction})
	}
	if in.Value != nil && in.Value.IntrinsicValue.Ok() {
		estimates = append(estimates, Estimate{Source: "value", Value: in.Value.IntrinsicValue.Value, Conviction: convictionOrNeutral(in.Value)})
	}
	synthFV, synthFVOK := 0.0, false
	if in.Synthesis != nil && in.Synthesis.FairValue.Ok() {
		synthFV, synthFVOK = in.Synthesis.FairValue.Value, true
		estimates = append(estimates, Estimate{Source: "synthesis", Value: synthFV, Conviction: convictionOrNeutral(in.Synthesis)})
	}

	fv := ReconcileFairValue(s.disagreement, estimates, synthFV, synthFVOK)
	d.FairValue = fv.Value
	d.FairValueOK = fv.OK
	d.Disagreement = fv.Disagreement

	upside, upsideOK := 0.0, false
	if fv.OK && in.Price > 0 {
		upside = (fv.Value/in.Price - 1) * 100
		upsideOK = true
	}

	scenario := BuildScenario(s.scenarios, comp.Score, in.Synthesis, upside, upsideOK)
	d.ExpectedReturn = ExpectedReturns(scenario)

	d.Recommendation = s.tierFor(comp.Score, d.ExpectedReturn.Y3, risk)

	conviction := 5.0
	if in.Synthesis != nil && in.Synthesis.Conviction.Ok() {
		conviction = in.Synthesis.Conviction.Value
	} else if in.Value != nil && in.Value.Conviction.Ok() {
		conviction = in.Value.Conviction.Value
	}
	d.Conviction = conviction
	d.PositionSizePct = PositionSize(s.position, conviction, risk, upside)

	d.QualityScore = in.ComputedQuality
	d.IntrinsicValue = in.Valuation.IntrinsicValue
	d.IntrinsicDefined = in.Valuation.IntrinsicDefined
	d.MethodValues = in.Valuation.Methods
	if in.Valuation.MOSDefined {
		d.MarginOfSafety = in.Valuation.MarginOfSafety
	}

	s.fillExecutionLevels(d, in, fv)

	return d
}

// compositeInputs resolves each role score, preferring the extracted value
// and falling back to computed figures where one exists.
func (s *Synthesizer) compositeInputs(in Inputs) CompositeInputs {
	ci := CompositeInputs{}

	if in.Value != nil && in.Value.QualityScore.Ok() {
		ci.ValueScore, ci.ValueOK = in.Value.QualityScore.Value, true
	} else {
		// The computed quality score covers the same ground.
		ci.ValueScore, ci.ValueOK = in.ComputedQuality, true
	}

	if in.Growth != nil && in.Growth.QualityScore.Ok() {
		ci.GrowthScore, ci.GrowthOK = in.Growth.QualityScore.Value, true
	}

	if in.Risk != nil && in.Risk.RiskScore.Ok() {
		ci.RiskScore, ci.RiskOK = in.Risk.RiskScore.Value, true
	} else {
		ci.RiskScore, ci.RiskOK = clamp(5+float64(in.ComputedRedFlags), 0, 10), true
	}

	return ci
}

// tierFor walks the tier table top down and returns the first rule whose
// conditions all hold. The fallback rule always matches.
func (s *Synthesizer) tierFor(composite, return3Y, risk float64) string {
	for _, rule := range s.tiers {
		if rule.Fallback {
			return rule.Recommendation
		}
		if composite >= rule.CompositeMin && return3Y >= rule.Return3YMin && risk <= rule.RiskMax {
			return rule.Recommendation
		}
	}
	return contracts.RecSell
}

// fillExecutionLevels takes the synthesis report's entry band, stop, and
// target when stated, and otherwise derives them from the reconciled fair
// value: accumulate below fair value, stop under the entry band, exit at
// fair value.
func (s *Synthesizer) fillExecutionLevels(d *contracts.Decision, in Inputs, fv FairValueResult) {
	synth := in.Synthesis

	if synth != nil && synth.EntryLow.Ok() && synth.EntryHigh.Ok() {
		d.EntryLow, d.EntryHigh = synth.EntryLow.Value, synth.EntryHigh.Value
	} else if fv.OK {
		d.EntryLow, d.EntryHigh = fv.Value*0.85, fv.Value*0.95
	}

	if synth != nil && synth.StopLoss.Ok() {
		d.StopLoss = synth.StopLoss.Value
	} else if d.EntryLow > 0 {
		d.StopLoss = d.EntryLow * 0.90
	}

	if synth != nil && synth.TargetPrice.Ok() {
		d.TargetPrice = synth.TargetPrice.Value
	} else if fv.OK {
		d.TargetPrice = fv.Value
	}
}

func convictionOrNeutral(em *contracts.ExtractedMetrics) float64 {
	if em.Conviction.Ok() {
		return em.Conviction.Value
	}
	return neutralConviction
}
