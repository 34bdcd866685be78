package fundamentals

import (
	"fmt"

	"github.com/verdictlab/verdict/internal/contracts"
)

const (
	sevHigh   = "HIGH"
	sevMedium = "MEDIUM"
)

// detectRedFlags runs the accounting-quality checks against the latest one or
// two fiscal years. Each rule is independent; a snapshot can trip all six.
func detectRedFlags(snap *contracts.FinancialSnapshot, m *contracts.DerivedMetrics) []contracts.RedFlag {
	var flags []contracts.RedFlag
	latest := snap.Latest()

	// Receivables outpacing revenue suggests pulled-forward sales.
	if len(snap.Years) >= 2 {
		cur, prev := &snap.Years[0], &snap.Years[1]
		revGrowth := growth(cur.Income.Revenue, prev.Income.Revenue)
		arGrowth := growth(cur.Balance.AccountsReceivable, prev.Balance.AccountsReceivable)
		if arGrowth > revGrowth && arGrowth > 0.05 {
			flags = append(flags, contracts.RedFlag{
				Category: "Revenue Quality",
				Flag:     "Receivables growing faster than revenue",
				Severity: sevMedium,
				Detail:   fmt.Sprintf("AR growth: %.1f%% vs revenue growth: %.1f%%", arGrowth*100, revGrowth*100),
			})
		}

		invGrowth := growth(cur.Balance.Inventory, prev.Balance.Inventory)
		if invGrowth > revGrowth && invGrowth > 0.10 {
			flags = append(flags, contracts.RedFlag{
				Category: "Inventory Quality",
				Flag:     "Inventory growing faster than revenue",
				Severity: sevMedium,
				Detail:   fmt.Sprintf("inventory growth: %.1f%% vs revenue growth: %.1f%%", invGrowth*100, revGrowth*100),
			})
		}
	}

	// Profits not backed by cash.
	if latest.Income.NetIncome > 0 && latest.CashFlow.FreeCashFlow < latest.Income.NetIncome*0.8 {
		ratio := latest.CashFlow.FreeCashFlow / latest.Income.NetIncome
		flags = append(flags, contracts.RedFlag{
			Category: "Profit Quality",
			Flag:     "Free cash flow significantly below net income",
			Severity: sevHigh,
			Detail:   fmt.Sprintf("FCF/NI ratio: %.2f (should be > 0.8)", ratio),
		})
	}

	if m.GoodwillPct.Available && m.GoodwillPct.Value > 30 {
		flags = append(flags, contracts.RedFlag{
			Category: "Balance Sheet",
			Flag:     "High goodwill as % of assets",
			Severity: sevHigh,
			Detail:   fmt.Sprintf("goodwill: %.1f%% of total assets (threshold: 30%%)", m.GoodwillPct.Value),
		})
	}

	if latest.Income.InterestExpense > 0 {
		coverage := latest.Income.OperatingIncome / latest.Income.InterestExpense
		if coverage < 3 {
			flags = append(flags, contracts.RedFlag{
				Category: "Debt Coverage",
				Flag:     "Low interest coverage ratio",
				Severity: sevHigh,
				Detail:   fmt.Sprintf("interest coverage: %.1fx (should be > 3x)", coverage),
			})
		}
	}

	if latest.Balance.CurrentLiabilities > 0 {
		cr := latest.Balance.CurrentAssets / latest.Balance.CurrentLiabilities
		if cr < 1 {
			flags = append(flags, contracts.RedFlag{
				Category: "Liquidity",
				Flag:     "Current ratio below 1.0",
				Severity: sevHigh,
				Detail:   fmt.Sprintf("current ratio: %.2f (should be > 1.0)", cr),
			})
		}
	}

	return flags
}

func growth(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev
}
