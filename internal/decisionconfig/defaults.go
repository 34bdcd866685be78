package decisionconfig

// Default returns the built-in policy. It mirrors config/decision.yaml and
// is what runs use when no policy file is given.
func Default() *Config {
	return &Config{
		Meta: Meta{
			PolicyID: "verdict-default",
			Version:  "1.0",
		},
		Composite: Composite{
			ValueWeight:  0.30,
			GrowthWeight: 0.35,
			RiskWeight:   0.35,
		},
		Blend: Blend{
			Stable:   MethodWeights{DCF: 0.40, Earnings: 0.35, CashFlow: 0.25},
			Growth:   MethodWeights{DCF: 0.25, Earnings: 0.40, CashFlow: 0.35},
			Cyclical: MethodWeights{DCF: 0.30, Earnings: 0.30, CashFlow: 0.40},
		},
		Growth: Growth{
			RevenueWeight:  0.30,
			EarningsWeight: 0.30,
			FCFWeight:      0.40,
			StageMultipliers: StageMultipliers{
				Startup:   1.2,
				Growth:    1.0,
				Mature:    0.8,
				Declining: 0.5,
			},
			SizeCaps: []SizeCap{
				{MarketCapMinUSD: 500e9, MaxGrowth: 0.10},
				{MarketCapMinUSD: 200e9, MaxGrowth: 0.12},
				{MarketCapMinUSD: 50e9, MaxGrowth: 0.15},
				{MarketCapMinUSD: 10e9, MaxGrowth: 0.20},
				{MarketCapMinUSD: 0, MaxGrowth: 0.30},
			},
			Floor: 0.0,
			Cap:   0.30,
		},
		Discount: Discount{
			RiskFree:          0.045,
			EquityRiskPremium: 0.065,
			SizePremiums: []SizePremium{
				{MarketCapMaxUSD: 2e9, Premium: 0.035},
				{MarketCapMaxUSD: 10e9, Premium: 0.025},
				{MarketCapMaxUSD: 50e9, Premium: 0.015},
				{MarketCapMaxUSD: 200e9, Premium: 0.008},
			},
			LeveragePremiums: []LeveragePremium{
				{DebtToEquityMin: 2.0, Premium: 0.025},
				{DebtToEquityMin: 1.0, Premium: 0.015},
				{DebtToEquityMin: 0.5, Premium: 0.008},
			},
		},
		Multiples: Multiples{
			Earnings: []MultipleBucket{
				{GrowthMin: 0.15, Multiple: 28},
				{GrowthMin: 0.10, Multiple: 20},
				{GrowthMin: 0.05, Multiple: 15},
				{GrowthMin: -1.0, Multiple: 12},
			},
			CashFlow: []MultipleBucket{
				{GrowthMin: 0.15, Multiple: 30},
				{GrowthMin: 0.10, Multiple: 22},
				{GrowthMin: 0.05, Multiple: 16},
				{GrowthMin: -1.0, Multiple: 12},
			},
			QualityScaling: []QualityScale{
				{QualityMin: 8, Factor: 1.00},
				{QualityMin: 6, Factor: 0.85},
				{QualityMin: 4, Factor: 0.70},
				{QualityMin: 0, Factor: 0.55},
			},
		},
		DCF: DCF{
			ProjectionYears: 5,
			TerminalGrowth:  0.03,
		},
		Quality: QualityBands{
			Earnings: EarningsBands{
				FCFToNetIncome: []Band{
					{Min: 0.95, Points: 2.0},
					{Min: 0.80, Points: 1.5},
					{Min: 0.60, Points: 1.0},
					{Min: 0.40, Points: 0.5},
				},
				NetMargin: []Band{
					{Min: 15, Points: 1.0},
					{Min: 8, Points: 0.5},
				},
				EarningsCAGR: []Band{
					{Min: 0.10, Points: 1.0},
					{Min: 0.00, Points: 0.5},
				},
			},
			Balance: BalanceBands{
				DebtToEquity: []Band{
					{Min: 0.5, Points: 1.5},
					{Min: 1.0, Points: 1.0},
					{Min: 2.0, Points: 0.5},
				},
				CurrentRatio: []Band{
					{Min: 1.5, Points: 1.0},
					{Min: 1.0, Points: 0.5},
				},
				InterestCoverage: []Band{
					{Min: 8, Points: 0.5},
					{Min: 3, Points: 0.25},
				},
			},
			CashFlow: CashFlowBands{
				FCFCAGR: []Band{
					{Min: 0.10, Points: 1.5},
					{Min: 0.00, Points: 1.0},
				},
				FCFMargin: []Band{
					{Min: 10, Points: 1.0},
					{Min: 5, Points: 0.5},
				},
				ROIC: []Band{
					{Min: 12, Points: 0.5},
					{Min: 8, Points: 0.25},
				},
			},
			RedFlagPenalty: 0.5,
		},
		Scenarios: Scenarios{
			Bands: []ScenarioBand{
				{CompositeMin: 8.0, Bull: 0.20, Base: 0.65, Bear: 0.15},
				{CompositeMin: 6.0, Bull: 0.25, Base: 0.55, Bear: 0.20},
				{CompositeMin: 4.0, Bull: 0.20, Base: 0.50, Bear: 0.30},
				{CompositeMin: 0.0, Bull: 0.15, Base: 0.45, Bear: 0.40},
			},
		},
		Tiers: []TierRule{
			{Recommendation: "STRONG BUY", CompositeMin: 8.0, Return3YMin: 15, RiskMax: 4},
			{Recommendation: "BUY", CompositeMin: 6.5, Return3YMin: 8, RiskMax: 6},
			{Recommendation: "HOLD", CompositeMin: 5.0, Return3YMin: 0, RiskMax: 7},
			{Recommendation: "REDUCE", CompositeMin: 3.0, Return3YMin: -10, RiskMax: 8},
			{Recommendation: "SELL", Fallback: true},
		},
		Position: Position{
			BasePct:            5.0,
			MaxPct:             8.0,
			MinPct:             0.0,
			OpportunityMinMult: 0.8,
			OpportunityMaxMult: 1.2,
		},
		Extraction: Extraction{
			TruncationMinChars: 200,
		},
		Disagreement: Disagreement{
			SpreadThreshold: 0.20,
			SynthesisShift:  0.25,
		},
	}
}
