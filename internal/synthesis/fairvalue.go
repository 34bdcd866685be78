package synthesis

import (
	"math"

	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// Estimate is one fair-value opinion with the conviction behind it.
type Estimate struct {
	Source     string
	Value      float64
	Conviction float64 // 0-10; neutral 5 when the source stated none
}

// FairValueResult is the reconciled fair value.
type FairValueResult struct {
	Value        float64
	OK           bool
	Disagreement bool
	Spread       float64
}

const neutralConviction = 5.0

// ReconcileFairValue merges the independent fair-value estimates. In
// agreement it is a conviction-weighted mean. When the relative spread
// exceeds the threshold, the two closest estimates form the majority
// cluster, and the result shifts partway toward the synthesis estimate,
// which saw all the role reports.
func ReconcileFairValue(cfg decisionconfig.Disagreement, estimates []Estimate, synthesisValue float64, synthesisOK bool) FairValueResult {
	valid := estimates[:0:0]
	for _, e := range estimates {
		if e.Value > 0 {
			if e.Conviction <= 0 {
				e.Conviction = neutralConviction
			}
			valid = append(valid, e)
		}
	}

	if len(valid) == 0 {
		return FairValueResult{}
	}
	if len(valid) == 1 {
		return FairValueResult{Value: valid[0].Value, OK: true}
	}

	lo, hi := valid[0].Value, valid[0].Value
	for _, e := range valid[1:] {
		lo = math.Min(lo, e.Value)
		hi = math.Max(hi, e.Value)
	}
	spread := (hi - lo) / lo

	if spread <= cfg.SpreadThreshold {
		return FairValueResult{Value: weightedMean(valid), OK: true, Spread: spread}
	}

	// Disagreement: anchor on the tightest pair and pull toward the
	// synthesis view.
	cluster := majorityCluster(valid)
	value := weightedMean(cluster)
	if synthesisOK && synthesisValue > 0 {
		value += cfg.SynthesisShift * (synthesisValue - value)
	}

	return FairValueResult{Value: value, OK: true, Disagreement: true, Spread: spread}
}

func weightedMean(estimates []Estimate) float64 {
	var sum, weight float64
	for _, e := range estimates {
		sum += e.Value * e.Conviction
		weight += e.Conviction
	}
	return sum / weight
}

// majorityCluster returns the pair of estimates with the smallest relative
// gap. With only two estimates both are returned unchanged.
func majorityCluster(estimates []Estimate) []Estimate {
	if len(estimates) <= 2 {
		return estimates
	}

	best := estimates[:2]
	bestGap := math.Inf(1)
	for i := 0; i < len(estimates); i++ {
		for j := i + 1; j < len(estimates); j++ {
			lo := math.Min(estimates[i].Value, estimates[j].Value)
			hi := math.Max(estimates[i].Value, estimates[j].Value)
			gap := (hi - lo) / lo
			if gap < bestGap {
				bestGap = gap
				best = []Estimate{estimates[i], estimates[j]}
			}
		}
	}
	return best
}
