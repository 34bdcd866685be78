package contracts

import "time"

// FinancialSnapshot is the per-ticker input to a run: up to N fiscal years of
// statements plus current market data. Immutable once fetched; most recent
// fiscal year first.
type FinancialSnapshot struct {
	Ticker   string    `json:"ticker"`
	Name     string    `json:"name"`
	Sector   string    `json:"sector"`
	Industry string    `json:"industry"`
	Years    []FiscalYear `json:"years"`
	Market   MarketData   `json:"market"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// FiscalYear bundles one year of the three statements.
type FiscalYear struct {
	Year     string          `json:"year"`
	Income   IncomeStatement `json:"income"`
	Balance  BalanceSheet    `json:"balance"`
	CashFlow CashFlow        `json:"cash_flow"`
}

type IncomeStatement struct {
	Revenue          float64 `json:"revenue"`
	CostOfRevenue    float64 `json:"cost_of_revenue"`
	GrossProfit      float64 `json:"gross_profit"`
	OperatingIncome  float64 `json:"operating_income"`
	InterestExpense  float64 `json:"interest_expense"` // always positive
	NetIncome        float64 `json:"net_income"`
	RDExpense        float64 `json:"rd_expense"`
	EBITDA           float64 `json:"ebitda"`
}

type BalanceSheet struct {
	TotalAssets        float64 `json:"total_assets"`
	CurrentAssets      float64 `json:"current_assets"`
	Cash               float64 `json:"cash"`
	AccountsReceivable float64 `json:"accounts_receivable"`
	Inventory          float64 `json:"inventory"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	TotalDebt          float64 `json:"total_debt"`
	TotalEquity        float64 `json:"total_equity"`
	RetainedEarnings   float64 `json:"retained_earnings"`
	Goodwill           float64 `json:"goodwill"`
}

type CashFlow struct {
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	CapEx             float64 `json:"capex"`
	FreeCashFlow      float64 `json:"free_cash_flow"`
	DividendsPaid     float64 `json:"dividends_paid"`
	Buybacks          float64 `json:"buybacks"`
}

// MarketData is the current market view of the ticker.
type MarketData struct {
	Price             float64 `json:"price"`
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	Beta              float64 `json:"beta"`
	High52W           float64 `json:"high_52w"`
	Low52W            float64 `json:"low_52w"`
	TrailingEPS       float64 `json:"trailing_eps"`
	ForwardEPS        float64 `json:"forward_eps"`
}

// YearCount returns the number of fiscal years available.
func (s *FinancialSnapshot) YearCount() int {
	return len(s.Years)
}

// Latest returns the most recent fiscal year, or nil when the snapshot is
// empty.
func (s *FinancialSnapshot) Latest() *FiscalYear {
	if len(s.Years) == 0 {
		return nil
	}
	return &s.Years[0]
}

// LifecycleStage classifies where the company sits in its life cycle.
type LifecycleStage string

const (
	StageStartup   LifecycleStage = "startup"
	StageGrowth    LifecycleStage = "growth"
	StageMature    LifecycleStage = "mature"
	StageDeclining LifecycleStage = "declining"
)

// BusinessType classifies the revenue pattern for valuation blending.
type BusinessType string

const (
	BusinessStable   BusinessType = "stable"
	BusinessGrowth   BusinessType = "growth"
	BusinessCyclical BusinessType = "cyclical"
)
