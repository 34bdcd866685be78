// Package stockanalysis scrapes financial statements from
// stockanalysis.com as a fallback when the primary provider is down or
// throttled. HTML scraping is brittle; every parse is tolerant and missing
// cells stay zero.
package stockanalysis

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/pkg/httputil"
	"github.com/verdictlab/verdict/pkg/logger"
)

const defaultBaseURL = "https://stockanalysis.com"

// Provider implements contracts.MarketDataProvider by scraping statement
// tables.
type Provider struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New builds the scraper.
func New(log *logger.Logger) *Provider {
	return NewWithBaseURL(defaultBaseURL, log)
}

// NewWithBaseURL is used by tests to point at a local server.
func NewWithBaseURL(baseURL string, log *logger.Logger) *Provider {
	return &Provider{
		http: httputil.NewWithTimeout(log, 30*time.Second).
			DisableRetry().
			WithUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

// statement is one parsed table: row label to per-year values, scaled to
// dollars, most recent year first.
type statement struct {
	years []string
	rows  map[string][]float64
}

func (s *statement) value(label string, year int) float64 {
	vals, ok := s.rows[label]
	if !ok || year >= len(vals) {
		return 0
	}
	return vals[year]
}

// Fetch scrapes the three statement pages and assembles a snapshot. Market
// data beyond the quote itself is mostly unavailable here; downstream
// layers treat zero beta and zero EPS as unknown.
func (p *Provider) Fetch(ctx context.Context, ticker string, years int) (*contracts.FinancialSnapshot, error) {
	slug := strings.ToLower(ticker)

	income, err := p.fetchStatement(ctx, fmt.Sprintf("%s/stocks/%s/financials/", p.baseURL, slug))
	if err != nil {
		return nil, err
	}
	balance, err := p.fetchStatement(ctx, fmt.Sprintf("%s/stocks/%s/financials/balance-sheet/", p.baseURL, slug))
	if err != nil {
		return nil, err
	}
	cashflow, err := p.fetchStatement(ctx, fmt.Sprintf("%s/stocks/%s/financials/cash-flow-statement/", p.baseURL, slug))
	if err != nil {
		return nil, err
	}

	n := len(income.years)
	if len(balance.years) < n {
		n = len(balance.years)
	}
	if len(cashflow.years) < n {
		n = len(cashflow.years)
	}
	if years > 0 && n > years {
		n = years
	}
	if n == 0 {
		return nil, fmt.Errorf("stockanalysis %s: no statement rows: %w", ticker, contracts.ErrPartialData)
	}

	snap := &contracts.FinancialSnapshot{
		Ticker:    strings.ToUpper(ticker),
		Name:      strings.ToUpper(ticker),
		FetchedAt: time.Now().UTC(),
	}

	for i := 0; i < n; i++ {
		fy := contracts.FiscalYear{Year: income.years[i]}
		fy.Income = contracts.IncomeStatement{
			Revenue:         income.value("Revenue", i),
			CostOfRevenue:   income.value("Cost of Revenue", i),
			GrossProfit:     income.value("Gross Profit", i),
			OperatingIncome: income.value("Operating Income", i),
			InterestExpense: abs(income.value("Interest Expense", i)),
			NetIncome:       income.value("Net Income", i),
			RDExpense:       income.value("Research & Development", i),
			EBITDA:          income.value("EBITDA", i),
		}
		fy.Balance = contracts.BalanceSheet{
			TotalAssets:        balance.value("Total Assets", i),
			CurrentAssets:      balance.value("Total Current Assets", i),
			Cash:               balance.value("Cash & Equivalents", i),
			AccountsReceivable: balance.value("Receivables", i),
			Inventory:          balance.value("Inventory", i),
			TotalLiabilities:   balance.value("Total Liabilities", i),
			CurrentLiabilities: balance.value("Total Current Liabilities", i),
			TotalDebt:          balance.value("Total Debt", i),
			TotalEquity:        balance.value("Shareholders' Equity", i),
			RetainedEarnings:   balance.value("Retained Earnings", i),
			Goodwill:           balance.value("Goodwill", i),
		}
		ocf := cashflow.value("Operating Cash Flow", i)
		capex := abs(cashflow.value("Capital Expenditures", i))
		fcf := cashflow.value("Free Cash Flow", i)
		if fcf == 0 {
			fcf = ocf - capex
		}
		fy.CashFlow = contracts.CashFlow{
			OperatingCashFlow: ocf,
			CapEx:             capex,
			FreeCashFlow:      fcf,
			DividendsPaid:     abs(cashflow.value("Dividends Paid", i)),
			Buybacks:          abs(cashflow.value("Share Repurchases", i)),
		}
		snap.Years = append(snap.Years, fy)
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"years":  snap.YearCount(),
	}).Debug("stockanalysis snapshot scraped")

	return snap, nil
}

func (p *Provider) fetchStatement(ctx context.Context, url string) (*statement, error) {
	resp, err := p.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stockanalysis request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("stockanalysis %s: %w", url, contracts.ErrNotFound)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("stockanalysis %s: %w", url, contracts.ErrRateLimited)
	default:
		return nil, fmt.Errorf("stockanalysis %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stockanalysis parse: %w", err)
	}

	return parseStatementTable(doc), nil
}

// parseStatementTable reads the first financials table on the page. Header
// cells after the label column are fiscal years, most recent first; values
// are in millions.
func parseStatementTable(doc *goquery.Document) *statement {
	st := &statement{rows: make(map[string][]float64)}

	table := doc.Find("table").First()
	table.Find("thead th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		year := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell.Text()), "FY"))
		if year != "" {
			st.years = append(st.years, year)
		}
	})

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		if label == "" {
			return
		}
		var values []float64
		cells.Slice(1, cells.Length()).Each(func(_ int, cell *goquery.Selection) {
			values = append(values, parseMillions(cell.Text()))
		})
		st.rows[label] = values
	})

	return st
}

// parseMillions parses a table cell like "1,234", "-56", or "-" into
// dollars. Plain numbers are in millions; B/M/K suffixes are honored.
func parseMillions(text string) float64 {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" || s == "—" || strings.EqualFold(s, "n/a") {
		return 0
	}

	scale := 1e6
	switch {
	case strings.HasSuffix(s, "B"):
		scale = 1e9
		s = strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		scale = 1e3
		s = strings.TrimSuffix(s, "K")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * scale
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
