// Package quality turns derived metrics into a 0-10 quality score using
// fixed rule bands. No market data and no narrative text feed into it, so
// the score is reproducible from the snapshot alone.
package quality

import (
	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// Breakdown exposes the per-pillar contributions behind a score.
type Breakdown struct {
	Earnings       float64 `json:"earnings"`
	Balance        float64 `json:"balance"`
	CashFlow       float64 `json:"cash_flow"`
	RedFlagPenalty float64 `json:"red_flag_penalty"`
	Total          float64 `json:"total"`
}

// Scorer applies the configured bands.
type Scorer struct {
	bands decisionconfig.QualityBands
}

func NewScorer(bands decisionconfig.QualityBands) *Scorer {
	return &Scorer{bands: bands}
}

// Score sums band points across the three pillars, subtracts the penalty per
// HIGH red flag, and clamps to [0, 10]. Unavailable metrics score zero for
// their band rather than failing the whole score.
func (s *Scorer) Score(m *contracts.DerivedMetrics) Breakdown {
	b := Breakdown{}

	eb := s.bands.Earnings
	b.Earnings = bandPoints(eb.FCFToNetIncome, m.FCFToNetIncome) +
		bandPoints(eb.NetMargin, m.NetMargin) +
		bandPoints(eb.EarningsCAGR, m.EarningsCAGR)

	bb := s.bands.Balance
	b.Balance = bandPointsInverted(bb.DebtToEquity, m.DebtToEquity) +
		bandPoints(bb.CurrentRatio, m.CurrentRatio) +
		bandPoints(bb.InterestCoverage, m.InterestCoverage)

	cb := s.bands.CashFlow
	b.CashFlow = bandPoints(cb.FCFCAGR, m.FCFCAGR) +
		bandPoints(cb.FCFMargin, m.FCFMargin) +
		bandPoints(cb.ROIC, m.ROIC)

	b.RedFlagPenalty = float64(m.HighSeverityCount()) * s.bands.RedFlagPenalty

	total := b.Earnings + b.Balance + b.CashFlow - b.RedFlagPenalty
	if total < 0 {
		total = 0
	}
	if total > 10 {
		total = 10
	}
	b.Total = total
	return b
}

// bandPoints awards the first band whose threshold the value meets. Bands
// are ordered highest threshold first.
func bandPoints(bands []decisionconfig.Band, r contracts.Ratio) float64 {
	if !r.Available {
		return 0
	}
	for _, b := range bands {
		if r.Value >= b.Min {
			return b.Points
		}
	}
	return 0
}

// bandPointsInverted is for metrics where lower is better (debt/equity).
// Bands are ordered lowest threshold first; the first ceiling the value
// stays under wins.
func bandPointsInverted(bands []decisionconfig.Band, r contracts.Ratio) float64 {
	if !r.Available {
		return 0
	}
	for _, b := range bands {
		if r.Value <= b.Min {
			return b.Points
		}
	}
	return 0
}
