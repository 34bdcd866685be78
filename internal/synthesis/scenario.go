package synthesis

import (
	"math"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// Scenario holds the bull/base/bear outlook over a three-year horizon.
// Returns are total percent over the horizon; probabilities sum to 1.
type Scenario struct {
	BullReturn float64 `json:"bull_return"`
	BaseReturn float64 `json:"base_return"`
	BearReturn float64 `json:"bear_return"`
	BullProb   float64 `json:"bull_prob"`
	BaseProb   float64 `json:"base_prob"`
	BearProb   float64 `json:"bear_prob"`
}

// Expected3Y is the probability-weighted total return over three years.
func (s Scenario) Expected3Y() float64 {
	return s.BullReturn*s.BullProb + s.BaseReturn*s.BaseProb + s.BearReturn*s.BearProb
}

// scenarioProbabilities looks up the probability band for a composite
// score. Bands are ordered highest threshold first.
func scenarioProbabilities(cfg decisionconfig.Scenarios, composite float64) (bull, base, bear float64) {
	last := cfg.Bands[len(cfg.Bands)-1]
	bull, base, bear = last.Bull, last.Base, last.Bear
	for _, band := range cfg.Bands {
		if composite >= band.CompositeMin {
			return band.Bull, band.Base, band.Bear
		}
	}
	return bull, base, bear
}

// BuildScenario assembles the outlook. Returns stated by the synthesis
// report win; when absent they are derived from the upside to fair value,
// with a fixed bull kicker and a floored bear case.
func BuildScenario(cfg decisionconfig.Scenarios, composite float64, synth *contracts.ExtractedMetrics, upsidePct float64, upsideOK bool) Scenario {
	s := Scenario{}
	s.BullProb, s.BaseProb, s.BearProb = scenarioProbabilities(cfg, composite)

	// Probabilities stated by the report override the band when they are a
	// coherent distribution.
	if synth != nil && synth.BullProb.Ok() && synth.BaseProb.Ok() && synth.BearProb.Ok() {
		total := synth.BullProb.Value + synth.BaseProb.Value + synth.BearProb.Value
		if math.Abs(total-100) < 1.0 {
			s.BullProb = synth.BullProb.Value / 100
			s.BaseProb = synth.BaseProb.Value / 100
			s.BearProb = synth.BearProb.Value / 100
		}
	}

	if synth != nil && synth.BullReturn.Ok() && synth.BaseReturn.Ok() && synth.BearReturn.Ok() {
		s.BullReturn = synth.BullReturn.Value
		s.BaseReturn = synth.BaseReturn.Value
		s.BearReturn = synth.BearReturn.Value
		return s
	}

	base := 0.0
	if upsideOK {
		base = upsidePct
	}
	s.BaseReturn = base
	s.BullReturn = base + 30
	s.BearReturn = math.Max(base-40, -60)
	return s
}

// ExpectedReturns converts the three-year expectation into one- and
// five-year figures at the implied constant annual rate.
func ExpectedReturns(s Scenario) contracts.ExpectedReturn {
	r3 := s.Expected3Y() / 100
	if r3 <= -1 {
		r3 = -0.99
	}
	annual := math.Pow(1+r3, 1.0/3.0) - 1

	return contracts.ExpectedReturn{
		Y1: annual * 100,
		Y3: r3 * 100,
		Y5: (math.Pow(1+annual, 5) - 1) * 100,
	}
}
