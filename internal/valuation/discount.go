package valuation

import (
	"fmt"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// DiscountRate is the required return with its CAPM-style breakdown.
type DiscountRate struct {
	Rate            float64 `json:"rate"`
	RiskFree        float64 `json:"risk_free"`
	Beta            float64 `json:"beta"`
	SizePremium     float64 `json:"size_premium"`
	LeveragePremium float64 `json:"leverage_premium"`
	Reasoning       string  `json:"reasoning"`
}

// EstimateDiscount builds the discount rate as rf + beta*ERP + size premium
// + leverage premium, never below the risk-free rate. A beta of zero is
// treated as missing and replaced with 1.0.
func EstimateDiscount(cfg decisionconfig.Discount, beta, marketCap float64, debtToEquity contracts.Ratio) DiscountRate {
	if beta <= 0 {
		beta = 1.0
	}

	sizePremium := 0.0
	for _, sp := range cfg.SizePremiums {
		if marketCap < sp.MarketCapMaxUSD {
			sizePremium = sp.Premium
			break
		}
	}

	leveragePremium := 0.0
	de := ratioOrZero(debtToEquity)
	for _, lp := range cfg.LeveragePremiums {
		if de > lp.DebtToEquityMin {
			leveragePremium = lp.Premium
			break
		}
	}

	rate := cfg.RiskFree + beta*cfg.EquityRiskPremium + sizePremium + leveragePremium
	if rate < cfg.RiskFree {
		rate = cfg.RiskFree
	}

	return DiscountRate{
		Rate:            rate,
		RiskFree:        cfg.RiskFree,
		Beta:            beta,
		SizePremium:     sizePremium,
		LeveragePremium: leveragePremium,
		Reasoning: fmt.Sprintf("%.1f%% (rf) + %.2f x %.1f%% (erp) + %.1f%% (size) + %.1f%% (leverage) = %.1f%%",
			cfg.RiskFree*100, beta, cfg.EquityRiskPremium*100, sizePremium*100, leveragePremium*100, rate*100),
	}
}
