package fundamentals

import (
	"math"
	"testing"

	"github.com/verdictlab/verdict/internal/contracts"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCAGRNormal(t *testing.T) {
	// 100 -> 200 over 4 periods, most recent first.
	r := CAGR([]float64{200, 170, 140, 120, 100})
	if !r.Available {
		t.Fatal("expected available")
	}
	want := math.Pow(2, 0.25) - 1
	if !almostEqual(r.Value, want) {
		t.Errorf("got %v want %v", r.Value, want)
	}
}

func TestCAGRTurnaround(t *testing.T) {
	// Negative start, positive end uses the linearized rate capped at 200%.
	r := CAGR([]float64{50, 10, -100})
	if !r.Available {
		t.Fatal("expected available")
	}
	want := ((50.0 - (-100.0)) / 100.0) / 2.0
	if !almostEqual(r.Value, want) {
		t.Errorf("got %v want %v", r.Value, want)
	}

	r = CAGR([]float64{10000, -1})
	if r.Value != 2.0 {
		t.Errorf("expected cap at 2.0, got %v", r.Value)
	}
}

func TestCAGRBothNegative(t *testing.T) {
	// Losses shrinking from -200 to -100 is improvement, so positive.
	r := CAGR([]float64{-100, -150, -200})
	if !r.Available {
		t.Fatal("expected available")
	}
	if r.Value <= 0 {
		t.Errorf("shrinking losses should yield positive rate, got %v", r.Value)
	}
}

func TestCAGRInsufficientData(t *testing.T) {
	if r := CAGR([]float64{100}); r.Available {
		t.Error("single value should be unavailable")
	}
	if r := CAGR([]float64{0, 0, 100}); r.Available {
		t.Error("zeros are filtered, one survivor should be unavailable")
	}
	if r := CAGR(nil); r.Available {
		t.Error("nil should be unavailable")
	}
}

func TestCAGRBounds(t *testing.T) {
	r := CAGR([]float64{1e9, 1})
	if r.Value != 2.0 {
		t.Errorf("expected cap at 2.0, got %v", r.Value)
	}
	r = CAGR([]float64{0.000001, 1e9})
	if r.Value != -1.0 {
		t.Errorf("expected floor at -1.0, got %v", r.Value)
	}
}

func snapTwoYears() *contracts.FinancialSnapshot {
	return &contracts.FinancialSnapshot{
		Ticker: "TEST",
		Years: []contracts.FiscalYear{
			{
				Year: "2025",
				Income: contracts.IncomeStatement{
					Revenue: 1000, GrossProfit: 400, OperatingIncome: 200,
					NetIncome: 150, InterestExpense: 10,
				},
				Balance: contracts.BalanceSheet{
					TotalAssets: 2000, CurrentAssets: 600, CurrentLiabilities: 400,
					TotalDebt: 300, TotalEquity: 1000,
					AccountsReceivable: 100, Inventory: 80, Goodwill: 100,
				},
				CashFlow: contracts.CashFlow{FreeCashFlow: 160},
			},
			{
				Year: "2024",
				Income: contracts.IncomeStatement{
					Revenue: 900, GrossProfit: 350, OperatingIncome: 170,
					NetIncome: 130, InterestExpense: 10,
				},
				Balance: contracts.BalanceSheet{
					TotalAssets: 1800, CurrentAssets: 550, CurrentLiabilities: 380,
					TotalDebt: 320, TotalEquity: 900,
					AccountsReceivable: 95, Inventory: 75, Goodwill: 100,
				},
				CashFlow: contracts.CashFlow{FreeCashFlow: 140},
			},
		},
	}
}

func TestCalculateDeterministic(t *testing.T) {
	snap := snapTwoYears()
	a := Calculate(snap)
	b := Calculate(snap)

	if a.RevenueCAGR != b.RevenueCAGR || a.ROE != b.ROE || a.NetMargin != b.NetMargin {
		t.Error("recomputation on the same snapshot should be identical")
	}
	if len(a.RedFlags) != len(b.RedFlags) {
		t.Error("red flags should be deterministic")
	}
}

func TestCalculateRatios(t *testing.T) {
	m := Calculate(snapTwoYears())

	if !m.DebtToEquity.Available || !almostEqual(m.DebtToEquity.Value, 0.3) {
		t.Errorf("debt/equity: %+v", m.DebtToEquity)
	}
	if !m.CurrentRatio.Available || !almostEqual(m.CurrentRatio.Value, 1.5) {
		t.Errorf("current ratio: %+v", m.CurrentRatio)
	}
	if !m.InterestCoverage.Available || !almostEqual(m.InterestCoverage.Value, 20) {
		t.Errorf("interest coverage: %+v", m.InterestCoverage)
	}
	if !m.GoodwillPct.Available || !almostEqual(m.GoodwillPct.Value, 5) {
		t.Errorf("goodwill pct: %+v", m.GoodwillPct)
	}
	// Net margin averages 15% and ~14.44% across the two years.
	wantNet := (150.0/1000.0*100 + 130.0/900.0*100) / 2
	if !almostEqual(m.NetMargin.Value, wantNet) {
		t.Errorf("net margin: got %v want %v", m.NetMargin.Value, wantNet)
	}
}

func TestCalculateUnavailableNotZero(t *testing.T) {
	snap := snapTwoYears()
	snap.Years = snap.Years[:1]
	snap.Years[0].Balance.TotalEquity = 0
	snap.Years[0].Income.InterestExpense = 0

	m := Calculate(snap)
	if m.RevenueCAGR.Available {
		t.Error("one year of data cannot produce a CAGR")
	}
	if m.DebtToEquity.Available {
		t.Error("zero equity makes debt/equity unavailable, not zero")
	}
	if m.InterestCoverage.Available {
		t.Error("no interest expense makes coverage unavailable")
	}
}

func TestCalculateEmptySnapshot(t *testing.T) {
	m := Calculate(&contracts.FinancialSnapshot{Ticker: "EMPTY"})
	if m.RevenueCAGR.Available || m.ROE.Available || len(m.RedFlags) != 0 {
		t.Error("empty snapshot yields nothing available")
	}
	m = Calculate(nil)
	if m.NetMargin.Available {
		t.Error("nil snapshot yields nothing available")
	}
}

func TestRedFlagsDetected(t *testing.T) {
	snap := snapTwoYears()
	cur := &snap.Years[0]
	cur.CashFlow.FreeCashFlow = 100             // < 0.8 * 150 net income
	cur.Balance.Goodwill = 700                  // 35% of assets
	cur.Income.InterestExpense = 100            // coverage 2x
	cur.Balance.CurrentLiabilities = 700        // current ratio < 1
	cur.Balance.AccountsReceivable = 130        // AR +36.8% vs revenue +11.1%
	cur.Balance.Inventory = 100                 // inventory +33.3%

	m := Calculate(snap)
	if len(m.RedFlags) != 6 {
		t.Fatalf("expected all 6 red flags, got %d: %+v", len(m.RedFlags), m.RedFlags)
	}
	if got := m.HighSeverityCount(); got != 4 {
		t.Errorf("expected 4 HIGH flags, got %d", got)
	}
}

func TestRedFlagsCleanCompany(t *testing.T) {
	m := Calculate(snapTwoYears())
	if len(m.RedFlags) != 0 {
		t.Errorf("clean snapshot should raise no flags, got %+v", m.RedFlags)
	}
}
