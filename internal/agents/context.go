// Package agents assembles the prompt and context text for each reasoning
// role. A role sees the financial snapshot, the deterministic metrics, and
// the outputs of the stages before it; nothing else.
package agents

import (
	"fmt"
	"strings"

	"github.com/verdictlab/verdict/internal/contracts"
)

const sectionRule = "================================================================================"

// FormatSnapshot renders the company overview and the full statement
// history as plain text tables, most recent year first.
func FormatSnapshot(snap *contracts.FinancialSnapshot) string {
	var b strings.Builder

	section(&b, "COMPANY OVERVIEW")
	fmt.Fprintf(&b, "Company: %s\n", snap.Name)
	fmt.Fprintf(&b, "Ticker: %s\n", snap.Ticker)
	fmt.Fprintf(&b, "Sector: %s\n", snap.Sector)
	fmt.Fprintf(&b, "Industry: %s\n", snap.Industry)
	fmt.Fprintf(&b, "Market Cap: $%.2fB\n", snap.Market.MarketCap/1e9)
	fmt.Fprintf(&b, "Current Price: $%.2f\n", snap.Market.Price)
	fmt.Fprintf(&b, "Shares Outstanding: %.2fB\n", snap.Market.SharesOutstanding/1e9)
	fmt.Fprintf(&b, "Beta: %.2f\n", snap.Market.Beta)
	fmt.Fprintf(&b, "52W Range: $%.2f - $%.2f\n", snap.Market.Low52W, snap.Market.High52W)
	fmt.Fprintf(&b, "Trailing EPS: %.2f  Forward EPS: %.2f\n", snap.Market.TrailingEPS, snap.Market.ForwardEPS)

	section(&b, fmt.Sprintf("FINANCIAL HISTORY (%d YEARS, MOST RECENT FIRST)", snap.YearCount()))

	b.WriteString("\n### INCOME STATEMENT\n")
	statementTable(&b, snap.Years, []statementRow{
		{"Revenue", func(y *contracts.FiscalYear) float64 { return y.Income.Revenue }},
		{"Gross Profit", func(y *contracts.FiscalYear) float64 { return y.Income.GrossProfit }},
		{"Operating Income", func(y *contracts.FiscalYear) float64 { return y.Income.OperatingIncome }},
		{"Net Income", func(y *contracts.FiscalYear) float64 { return y.Income.NetIncome }},
		{"R&D Expense", func(y *contracts.FiscalYear) float64 { return y.Income.RDExpense }},
		{"Interest Expense", func(y *contracts.FiscalYear) float64 { return y.Income.InterestExpense }},
	})

	b.WriteString("\n### BALANCE SHEET\n")
	statementTable(&b, snap.Years, []statementRow{
		{"Total Assets", func(y *contracts.FiscalYear) float64 { return y.Balance.TotalAssets }},
		{"Cash", func(y *contracts.FiscalYear) float64 { return y.Balance.Cash }},
		{"Receivables", func(y *contracts.FiscalYear) float64 { return y.Balance.AccountsReceivable }},
		{"Inventory", func(y *contracts.FiscalYear) float64 { return y.Balance.Inventory }},
		{"Goodwill", func(y *contracts.FiscalYear) float64 { return y.Balance.Goodwill }},
		{"Total Debt", func(y *contracts.FiscalYear) float64 { return y.Balance.TotalDebt }},
		{"Total Equity", func(y *contracts.FiscalYear) float64 { return y.Balance.TotalEquity }},
	})

	b.WriteString("\n### CASH FLOW\n")
	statementTable(&b, snap.Years, []statementRow{
		{"Operating CF", func(y *contracts.FiscalYear) float64 { return y.CashFlow.OperatingCashFlow }},
		{"CapEx", func(y *contracts.FiscalYear) float64 { return y.CashFlow.CapEx }},
		{"Free Cash Flow", func(y *contracts.FiscalYear) float64 { return y.CashFlow.FreeCashFlow }},
		{"Dividends Paid", func(y *contracts.FiscalYear) float64 { return y.CashFlow.DividendsPaid }},
		{"Buybacks", func(y *contracts.FiscalYear) float64 { return y.CashFlow.Buybacks }},
	})

	return b.String()
}

// FormatDerived renders the computed metrics and red flags.
func FormatDerived(m *contracts.DerivedMetrics) string {
	var b strings.Builder

	section(&b, "CALCULATED METRICS")

	b.WriteString("\n### Growth (CAGR over the window)\n")
	ratioLine(&b, "Revenue CAGR", m.RevenueCAGR, "%.1f%%", 100)
	ratioLine(&b, "Earnings CAGR", m.EarningsCAGR, "%.1f%%", 100)
	ratioLine(&b, "FCF CAGR", m.FCFCAGR, "%.1f%%", 100)

	b.WriteString("\n### Profitability (period averages)\n")
	ratioLine(&b, "Gross Margin", m.GrossMargin, "%.1f%%", 1)
	ratioLine(&b, "Operating Margin", m.OperatingMargin, "%.1f%%", 1)
	ratioLine(&b, "Net Margin", m.NetMargin, "%.1f%%", 1)
	ratioLine(&b, "FCF Margin", m.FCFMargin, "%.1f%%", 1)

	b.WriteString("\n### Returns (period averages)\n")
	ratioLine(&b, "ROE", m.ROE, "%.1f%%", 1)
	ratioLine(&b, "ROA", m.ROA, "%.1f%%", 1)
	ratioLine(&b, "ROIC", m.ROIC, "%.1f%%", 1)

	b.WriteString("\n### Balance Sheet (latest year)\n")
	ratioLine(&b, "Debt/Equity", m.DebtToEquity, "%.2f", 1)
	ratioLine(&b, "Current Ratio", m.CurrentRatio, "%.2f", 1)
	ratioLine(&b, "Interest Coverage", m.InterestCoverage, "%.1fx", 1)
	ratioLine(&b, "FCF/Net Income", m.FCFToNetIncome, "%.2f", 1)
	ratioLine(&b, "Goodwill % of Assets", m.GoodwillPct, "%.1f%%", 1)

	section(&b, "QUALITY INDICATORS (RED FLAGS)")
	if len(m.RedFlags) == 0 {
		b.WriteString("No red flags detected.\n")
	}
	for _, f := range m.RedFlags {
		fmt.Fprintf(&b, "[%s] %s: %s\n", f.Severity, f.Flag, f.Detail)
	}

	return b.String()
}

type statementRow struct {
	label string
	get   func(*contracts.FiscalYear) float64
}

func statementTable(b *strings.Builder, years []contracts.FiscalYear, rows []statementRow) {
	b.WriteString(fmt.Sprintf("%-20s", ""))
	for _, y := range years {
		fmt.Fprintf(b, "%14s", y.Year)
	}
	b.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(b, "%-20s", row.label)
		for i := range years {
			fmt.Fprintf(b, "%14s", money(row.get(&years[i])))
		}
		b.WriteString("\n")
	}
}

// money renders a dollar amount at a scale a reader can grasp.
func money(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs == 0:
		return "-"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func ratioLine(b *strings.Builder, label string, r contracts.Ratio, format string, scale float64) {
	if !r.Available {
		fmt.Fprintf(b, "- %s: n/a\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: "+format+"\n", label, r.Value*scale)
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n%s\n\n", sectionRule, title, sectionRule)
}
