// Package fundamentals derives growth, profitability, leverage, and quality
// ratios from a financial snapshot. Everything here is a pure function of the
// snapshot: no I/O, no clock, no agent input.
package fundamentals

import (
	"math"

	"github.com/verdictlab/verdict/internal/contracts"
)

const (
	cagrFloor = -1.0
	cagrCap   = 2.0
)

// Calculate computes the full set of derived metrics from a snapshot.
// Ratios whose inputs are missing come back with Available=false rather than
// a zero that could be mistaken for a real value.
func Calculate(snap *contracts.FinancialSnapshot) contracts.DerivedMetrics {
	m := contracts.DerivedMetrics{}
	if snap == nil || len(snap.Years) == 0 {
		return m
	}

	m.RevenueCAGR = cagrOf(snap, func(y *contracts.FiscalYear) float64 { return y.Income.Revenue })
	m.EarningsCAGR = cagrOf(snap, func(y *contracts.FiscalYear) float64 { return y.Income.NetIncome })
	m.FCFCAGR = cagrOf(snap, func(y *contracts.FiscalYear) float64 { return y.CashFlow.FreeCashFlow })

	m.GrossMargin = avgMargin(snap, func(y *contracts.FiscalYear) float64 { return y.Income.GrossProfit })
	m.OperatingMargin = avgMargin(snap, func(y *contracts.FiscalYear) float64 { return y.Income.OperatingIncome })
	m.NetMargin = avgMargin(snap, func(y *contracts.FiscalYear) float64 { return y.Income.NetIncome })
	m.FCFMargin = avgMargin(snap, func(y *contracts.FiscalYear) float64 { return y.CashFlow.FreeCashFlow })

	m.ROE = avgReturn(snap, func(y *contracts.FiscalYear) (float64, float64) {
		return y.Income.NetIncome, y.Balance.TotalEquity
	})
	m.ROA = avgReturn(snap, func(y *contracts.FiscalYear) (float64, float64) {
		return y.Income.NetIncome, y.Balance.TotalAssets
	})
	m.ROIC = avgReturn(snap, func(y *contracts.FiscalYear) (float64, float64) {
		// Simplified ROIC: operating income over invested capital.
		return y.Income.OperatingIncome, y.Balance.TotalAssets - y.Balance.CurrentLiabilities
	})

	latest := snap.Latest()
	m.DebtToEquity = safeDiv(latest.Balance.TotalDebt, latest.Balance.TotalEquity)
	m.CurrentRatio = safeDiv(latest.Balance.CurrentAssets, latest.Balance.CurrentLiabilities)
	m.InterestCoverage = safeDiv(latest.Income.OperatingIncome, latest.Income.InterestExpense)
	m.FCFToNetIncome = safeDiv(latest.CashFlow.FreeCashFlow, latest.Income.NetIncome)
	if latest.Balance.TotalAssets > 0 {
		m.GoodwillPct = contracts.Avail(latest.Balance.Goodwill / latest.Balance.TotalAssets * 100)
	}
	if latest.Balance.TotalAssets > 0 {
		m.AssetTurnover = contracts.Avail(latest.Income.Revenue / latest.Balance.TotalAssets)
	}

	m.RedFlags = detectRedFlags(snap, &m)
	return m
}

// CAGR computes a compound annual growth rate from a series ordered most
// recent first. Zero and NaN entries are dropped, negatives are kept.
// Turnarounds from a negative base use a linearized rate; the result is
// always clamped to [-100%, +200%].
func CAGR(values []float64) contracts.Ratio {
	clean := values[:0:0]
	for _, v := range values {
		if v != 0 && !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) < 2 {
		return contracts.Ratio{}
	}

	end := clean[0]
	start := clean[len(clean)-1]
	periods := float64(len(clean) - 1)

	var cagr float64
	switch {
	case start > 0:
		cagr = math.Pow(end/start, 1/periods) - 1
	case start < 0 && end > 0:
		cagr = math.Min(((end-start)/math.Abs(start))/periods, cagrCap)
	case start < 0 && end < 0:
		cagr = -(math.Pow(math.Abs(start)/math.Abs(end), 1/periods) - 1)
	}

	return contracts.Avail(math.Max(math.Min(cagr, cagrCap), cagrFloor))
}

func cagrOf(snap *contracts.FinancialSnapshot, pick func(*contracts.FiscalYear) float64) contracts.Ratio {
	values := make([]float64, 0, len(snap.Years))
	for i := range snap.Years {
		values = append(values, pick(&snap.Years[i]))
	}
	return CAGR(values)
}

// avgMargin averages value/revenue*100 over the years with positive revenue.
func avgMargin(snap *contracts.FinancialSnapshot, pick func(*contracts.FiscalYear) float64) contracts.Ratio {
	var sum float64
	var n int
	for i := range snap.Years {
		y := &snap.Years[i]
		if y.Income.Revenue > 0 {
			sum += pick(y) / y.Income.Revenue * 100
			n++
		}
	}
	if n == 0 {
		return contracts.Ratio{}
	}
	return contracts.Avail(sum / float64(n))
}

// avgReturn averages numerator/denominator*100 over years with a positive
// denominator.
func avgReturn(snap *contracts.FinancialSnapshot, pick func(*contracts.FiscalYear) (float64, float64)) contracts.Ratio {
	var sum float64
	var n int
	for i := range snap.Years {
		num, den := pick(&snap.Years[i])
		if den > 0 {
			sum += num / den * 100
			n++
		}
	}
	if n == 0 {
		return contracts.Ratio{}
	}
	return contracts.Avail(sum / float64(n))
}

func safeDiv(num, den float64) contracts.Ratio {
	if den <= 0 {
		return contracts.Ratio{}
	}
	return contracts.Avail(num / den)
}
