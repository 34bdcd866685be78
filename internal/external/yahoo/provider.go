// Package yahoo fetches financial snapshots from the Yahoo Finance
// quoteSummary API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/pkg/config"
	"github.com/verdictlab/verdict/pkg/httputil"
	"github.com/verdictlab/verdict/pkg/logger"
)

const modules = "price,summaryProfile,summaryDetail,defaultKeyStatistics," +
	"incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory"

// Provider implements contracts.MarketDataProvider against Yahoo Finance.
type Provider struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New builds a provider from the Yahoo config.
func New(cfg config.YahooConfig, log *logger.Logger) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		http: httputil.NewWithTimeout(log, timeout).
			DisableRetry().
			WithUserAgent("Mozilla/5.0 (compatible; verdict/1.0)"),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  log,
	}
}

// raw is Yahoo's number wrapper: {"raw": 123.4, "fmt": "123.4"}.
type raw struct {
	Raw float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []result `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type result struct {
	Price struct {
		LongName           string `json:"longName"`
		RegularMarketPrice raw    `json:"regularMarketPrice"`
		MarketCap          raw    `json:"marketCap"`
	} `json:"price"`
	SummaryProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`
	SummaryDetail struct {
		Beta             raw `json:"beta"`
		FiftyTwoWeekHigh raw `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  raw `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`
	KeyStatistics struct {
		SharesOutstanding raw `json:"sharesOutstanding"`
		TrailingEPS       raw `json:"trailingEps"`
		ForwardEPS        raw `json:"forwardEps"`
	} `json:"defaultKeyStatistics"`
	IncomeHistory struct {
		Statements []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	BalanceHistory struct {
		Statements []balanceSheet `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
	CashflowHistory struct {
		Statements []cashflowStatement `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
}

type incomeStatement struct {
	EndDate         raw `json:"endDate"`
	TotalRevenue    raw `json:"totalRevenue"`
	CostOfRevenue   raw `json:"costOfRevenue"`
	GrossProfit     raw `json:"grossProfit"`
	OperatingIncome raw `json:"operatingIncome"`
	InterestExpense raw `json:"interestExpense"` // negative at Yahoo
	NetIncome       raw `json:"netIncome"`
	ResearchDev     raw `json:"researchDevelopment"`
	EBIT            raw `json:"ebit"`
}

type balanceSheet struct {
	TotalAssets             raw `json:"totalAssets"`
	TotalCurrentAssets      raw `json:"totalCurrentAssets"`
	Cash                    raw `json:"cash"`
	NetReceivables          raw `json:"netReceivables"`
	Inventory               raw `json:"inventory"`
	TotalLiab               raw `json:"totalLiab"`
	TotalCurrentLiabilities raw `json:"totalCurrentLiabilities"`
	ShortLongTermDebt       raw `json:"shortLongTermDebt"`
	LongTermDebt            raw `json:"longTermDebt"`
	TotalStockholderEquity  raw `json:"totalStockholderEquity"`
	RetainedEarnings        raw `json:"retainedEarnings"`
	Goodwill                raw `json:"goodWill"`
}

type cashflowStatement struct {
	TotalCashFromOperating raw `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures    raw `json:"capitalExpenditures"` // negative at Yahoo
	DividendsPaid          raw `json:"dividendsPaid"`       // negative at Yahoo
	RepurchaseOfStock      raw `json:"repurchaseOfStock"`   // negative at Yahoo
}

// Fetch retrieves up to years fiscal years for the ticker. Yahoo caps the
// history it serves; callers tolerate fewer years than asked for.
func (p *Provider) Fetch(ctx context.Context, ticker string, years int) (*contracts.FinancialSnapshot, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", p.baseURL, ticker, modules)

	resp, err := p.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("yahoo %s: %w", ticker, contracts.ErrNotFound)
	case http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("yahoo %s: %w", ticker, contracts.ErrRateLimited)
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("yahoo %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var parsed quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if e := parsed.QuoteSummary.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("yahoo %s: %w", ticker, contracts.ErrNotFound)
		}
		return nil, fmt.Errorf("yahoo %s: %s: %s", ticker, e.Code, e.Description)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, contracts.ErrNotFound)
	}

	snap := p.buildSnapshot(ticker, &parsed.QuoteSummary.Result[0], years)
	if snap.YearCount() == 0 {
		return nil, fmt.Errorf("yahoo %s: no statement history: %w", ticker, contracts.ErrPartialData)
	}

	p.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"years":  snap.YearCount(),
	}).Debug("Yahoo snapshot fetched")

	return snap, nil
}

func (p *Provider) buildSnapshot(ticker string, r *result, years int) *contracts.FinancialSnapshot {
	snap := &contracts.FinancialSnapshot{
		Ticker:    ticker,
		Name:      r.Price.LongName,
		Sector:    r.SummaryProfile.Sector,
		Industry:  r.SummaryProfile.Industry,
		FetchedAt: time.Now().UTC(),
	}
	snap.Market = contracts.MarketData{
		Price:             r.Price.RegularMarketPrice.Raw,
		MarketCap:         r.Price.MarketCap.Raw,
		SharesOutstanding: r.KeyStatistics.SharesOutstanding.Raw,
		Beta:              r.SummaryDetail.Beta.Raw,
		High52W:           r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Low52W:            r.SummaryDetail.FiftyTwoWeekLow.Raw,
		TrailingEPS:       r.KeyStatistics.TrailingEPS.Raw,
		ForwardEPS:        r.KeyStatistics.ForwardEPS.Raw,
	}

	// Yahoo serves the three statements as parallel arrays, most recent
	// first. Index i across all three is the same fiscal year.
	n := len(r.IncomeHistory.Statements)
	if len(r.BalanceHistory.Statements) < n {
		n = len(r.BalanceHistory.Statements)
	}
	if len(r.CashflowHistory.Statements) < n {
		n = len(r.CashflowHistory.Statements)
	}
	if years > 0 && n > years {
		n = years
	}

	for i := 0; i < n; i++ {
		inc := r.IncomeHistory.Statements[i]
		bal := r.BalanceHistory.Statements[i]
		cf := r.CashflowHistory.Statements[i]

		fy := contracts.FiscalYear{
			Year: time.Unix(int64(inc.EndDate.Raw), 0).UTC().Format("2006"),
		}
		fy.Income = contracts.IncomeStatement{
			Revenue:         inc.TotalRevenue.Raw,
			CostOfRevenue:   inc.CostOfRevenue.Raw,
			GrossProfit:     inc.GrossProfit.Raw,
			OperatingIncome: inc.OperatingIncome.Raw,
			InterestExpense: abs(inc.InterestExpense.Raw),
			NetIncome:       inc.NetIncome.Raw,
			RDExpense:       inc.ResearchDev.Raw,
			EBITDA:          inc.EBIT.Raw,
		}
		fy.Balance = contracts.BalanceSheet{
			TotalAssets:        bal.TotalAssets.Raw,
			CurrentAssets:      bal.TotalCurrentAssets.Raw,
			Cash:               bal.Cash.Raw,
			AccountsReceivable: bal.NetReceivables.Raw,
			Inventory:          bal.Inventory.Raw,
			TotalLiabilities:   bal.TotalLiab.Raw,
			CurrentLiabilities: bal.TotalCurrentLiabilities.Raw,
			TotalDebt:          bal.ShortLongTermDebt.Raw + bal.LongTermDebt.Raw,
			TotalEquity:        bal.TotalStockholderEquity.Raw,
			RetainedEarnings:   bal.RetainedEarnings.Raw,
			Goodwill:           bal.Goodwill.Raw,
		}
		ocf := cf.TotalCashFromOperating.Raw
		capex := abs(cf.CapitalExpenditures.Raw)
		fy.CashFlow = contracts.CashFlow{
			OperatingCashFlow: ocf,
			CapEx:             capex,
			FreeCashFlow:      ocf - capex,
			DividendsPaid:     abs(cf.DividendsPaid.Raw),
			Buybacks:          abs(cf.RepurchaseOfStock.Raw),
		}
		snap.Years = append(snap.Years, fy)
	}

	return snap
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
