package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
	"github.com/verdictlab/verdict/pkg/logger"
)

type fakeProvider struct {
	failures int
	err      error
	calls    int
}

func (f *fakeProvider) Fetch(ctx context.Context, ticker string, years int) (*contracts.FinancialSnapshot, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	snap := &contracts.FinancialSnapshot{Ticker: ticker, Name: "Test Co"}
	snap.Market = contracts.MarketData{
		Price:             100,
		MarketCap:         30e9,
		SharesOutstanding: 300e6,
		Beta:              1.0,
		TrailingEPS:       5,
	}
	for _, rev := range []float64{1100e6, 1000e6} {
		fy := contracts.FiscalYear{}
		fy.Income.Revenue = rev
		fy.Income.GrossProfit = rev * 0.4
		fy.Income.OperatingIncome = rev * 0.2
		fy.Income.InterestExpense = rev * 0.01
		fy.Income.NetIncome = rev * 0.15
		fy.Balance.TotalAssets = rev * 2
		fy.Balance.CurrentAssets = rev * 0.8
		fy.Balance.CurrentLiabilities = rev * 0.4
		fy.Balance.TotalDebt = rev * 0.3
		fy.Balance.TotalEquity = rev
		fy.CashFlow.FreeCashFlow = rev * 0.16
		fy.CashFlow.OperatingCashFlow = rev * 0.2
		snap.Years = append(snap.Years, fy)
	}
	return snap, nil
}

type fakeAgent struct {
	failRole     contracts.Role
	failErr      error
	callsPerRole map[contracts.Role]int
}

func (f *fakeAgent) Generate(ctx context.Context, prompt string, role contracts.Role, contextText string) (string, error) {
	if f.callsPerRole == nil {
		f.callsPerRole = make(map[contracts.Role]int)
	}
	f.callsPerRole[role]++
	if role == f.failRole {
		return "", f.failErr
	}

	switch role {
	case contracts.RoleBusiness:
		return "Sells widgets to industrial customers on recurring contracts.", nil
	case contracts.RoleValue:
		return "## ANALYSIS\n**Overall Financial Quality Score: 8/10**\n" +
			"**Moat: Strong**\n" +
			"**Intrinsic Value: $130**\n" +
			"**Margin of Safety: 30%**\n" +
			"**Recommendation: BUY**\n**Conviction Level: 8/10**\n" +
			"The balance sheet is clean and returns are durable over the full window.", nil
	case contracts.RoleGrowth:
		return "## GROWTH\nRevenue has compounded steadily with organic funding.\n" +
			"**TOTAL HISTORICAL GROWTH QUALITY SCORE: 7/10**\n" +
			"**Growth Recommendation: GROWTH BUY**\n**Conviction: 7/10**\n" +
			"Runway remains long given category share and pricing power.", nil
	case contracts.RoleRisk:
		return "## RISK\nEarnings quality is sound and leverage is modest across the period.\n" +
			"**TOTAL FINANCIAL RED FLAGS: 1**\n" +
			"**Overall Risk Score: 30/100**\n" +
			"Customer concentration is the main watch item for this name.", nil
	case contracts.RoleSynthesis:
		return "## SECTION 1: EXECUTIVE SUMMARY\n" +
			"**Final Recommendation: BUY**\n**Conviction Level: 8/10**\n" +
			"**Composite Score: 7.5/10**\n**Position Size: 5% of portfolio**\n" +
			"**Fair Value: $128**\n" +
			"## SECTION 2: SCENARIO ANALYSIS\n" +
			"Bull Case (25% probability): strength persists. Total Return: 60%\n" +
			"Base Case (55% probability): steady compounding. Total Return: 30%\n" +
			"Bear Case (20% probability): demand softens. Total Return: -15%\n" +
			"## SECTION 3: EXECUTION PLAN\n" +
			"**Entry Price Range: $95-$105**\n**Stop Loss: $85**\n**Target Price: $130**\n", nil
	}
	return "", errors.New("unknown role")
}

func fastRetry() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Retryable:    contracts.IsRetryable,
	}
}

func newTestOrchestrator(provider contracts.MarketDataProvider, agent contracts.ReasoningAgent, limiter *rate.Limiter) *Orchestrator {
	cfg := decisionconfig.Default()
	return NewOrchestrator(provider, agent, cfg, "testhash", fastRetry(), limiter, logger.NewNop())
}

func TestRunHappyPath(t *testing.T) {
	o := newTestOrchestrator(&fakeProvider{}, &fakeAgent{}, nil)

	result, err := o.Run(context.Background(), RunConfig{RunID: "r1", Ticker: "TEST"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Success {
		t.Fatal("result not marked successful")
	}
	if result.Decision == nil {
		t.Fatal("no decision")
	}
	if result.Decision.ConfigHash != "testhash" {
		t.Errorf("config hash = %q", result.Decision.ConfigHash)
	}
	if got := len(result.CompletedStages); got != 7 {
		t.Errorf("completed stages = %d (%v), want 7", got, result.CompletedStages)
	}
	if result.Extracted[contracts.RoleValue].QualityScore.Value != 8 {
		t.Error("value quality score not extracted")
	}
	if result.Decision.IsDegraded() {
		t.Errorf("unexpected degraded inputs: %v", result.Decision.DegradedInputs)
	}
}

func TestRunRetriesThenSucceeds(t *testing.T) {
	provider := &fakeProvider{failures: 2, err: contracts.ErrRateLimited}
	o := newTestOrchestrator(provider, &fakeAgent{}, nil)

	result, err := o.Run(context.Background(), RunConfig{RunID: "r2", Ticker: "TEST"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want 3", provider.calls)
	}
	if result.Decision == nil {
		t.Fatal("no decision")
	}
}

func TestRunDataCollectionExhaustionIsFatal(t *testing.T) {
	provider := &fakeProvider{failures: 10, err: contracts.ErrRateLimited}
	o := newTestOrchestrator(provider, &fakeAgent{}, nil)

	result, err := o.Run(context.Background(), RunConfig{RunID: "r3", Ticker: "TEST"})
	if err == nil {
		t.Fatal("expected fatal error")
	}
	var unavailable *contracts.DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("error type = %T", err)
	}
	if result.Success {
		t.Error("result marked successful")
	}
	if provider.calls != 3 {
		t.Errorf("provider calls = %d, want MaxAttempts", provider.calls)
	}
}

func TestRunNotFoundStopsRetrying(t *testing.T) {
	provider := &fakeProvider{failures: 10, err: contracts.ErrNotFound}
	o := newTestOrchestrator(provider, &fakeAgent{}, nil)

	_, err := o.Run(context.Background(), RunConfig{RunID: "r4", Ticker: "NOPE"})
	if err == nil {
		t.Fatal("expected error")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (not retryable)", provider.calls)
	}
}

func TestRunRoleExhaustionDegrades(t *testing.T) {
	agent := &fakeAgent{failRole: contracts.RoleRisk, failErr: contracts.ErrRateLimited}
	o := newTestOrchestrator(&fakeProvider{}, agent, nil)

	result, err := o.Run(context.Background(), RunConfig{RunID: "r5", Ticker: "TEST"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// The run completes, the risk stage retried to exhaustion, and the
	// decision names the gap.
	if agent.callsPerRole[contracts.RoleRisk] != 3 {
		t.Errorf("risk calls = %d, want 3", agent.callsPerRole[contracts.RoleRisk])
	}
	em := result.Extracted[contracts.RoleRisk]
	if em == nil || !em.Degraded {
		t.Fatal("risk metrics not marked degraded")
	}
	if !result.Decision.IsDegraded() {
		t.Error("decision does not record degraded inputs")
	}
	found := false
	for _, d := range result.Decision.DegradedInputs {
		if d == "risk:risk_score" {
			found = true
		}
	}
	if !found {
		t.Errorf("degraded inputs missing risk score: %v", result.Decision.DegradedInputs)
	}
}

func TestRunHonorsPacingBudget(t *testing.T) {
	// 1 fetch + 5 reasoning calls draw from the same limiter; after the
	// initial burst each waits 20ms.
	limiter := rate.NewLimiter(rate.Every(20*time.Millisecond), 1)
	o := newTestOrchestrator(&fakeProvider{}, &fakeAgent{}, limiter)

	start := time.Now()
	if _, err := o.Run(context.Background(), RunConfig{RunID: "r6", Ticker: "TEST"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("run finished in %v, pacing not honored", elapsed)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(&fakeProvider{}, &fakeAgent{}, nil)
	_, err := o.Run(ctx, RunConfig{RunID: "r7", Ticker: "TEST"})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestRetryPolicyBackoffCounting(t *testing.T) {
	p := fastRetry()

	calls := 0
	attempts, err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return contracts.ErrTruncated
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Errorf("attempts=%d calls=%d, want 3/3", attempts, calls)
	}

	calls = 0
	fatal := errors.New("bad request")
	attempts, err = p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) || attempts != 1 || calls != 1 {
		t.Errorf("non-retryable: attempts=%d calls=%d err=%v", attempts, calls, err)
	}
}
