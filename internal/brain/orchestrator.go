// Package brain coordinates one analysis run: data collection, the
// deterministic layers, the five reasoning stages, and the final decision.
// Runs are sequential and share nothing; every run starts from a fresh
// snapshot.
package brain

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/verdictlab/verdict/internal/agents"
	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
	"github.com/verdictlab/verdict/internal/extract"
	"github.com/verdictlab/verdict/internal/fundamentals"
	"github.com/verdictlab/verdict/internal/quality"
	"github.com/verdictlab/verdict/internal/synthesis"
	"github.com/verdictlab/verdict/internal/valuation"
	"github.com/verdictlab/verdict/pkg/logger"
)

// Orchestrator drives the pipeline for one ticker at a time.
type Orchestrator struct {
	provider contracts.MarketDataProvider
	agent    contracts.ReasoningAgent

	extractor   *extract.Extractor
	scorer      *quality.Scorer
	engine      *valuation.Engine
	synthesizer *synthesis.Synthesizer

	configHash string
	retry      RetryPolicy
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// ReasoningOrder is the fixed sequence of reasoning roles in a run.
var ReasoningOrder = []contracts.Role{
	contracts.RoleBusiness,
	contracts.RoleValue,
	contracts.RoleGrowth,
	contracts.RoleRisk,
	contracts.RoleSynthesis,
}

// RunConfig holds the parameters of one pipeline run.
type RunConfig struct {
	RunID  string
	Ticker string
	Years  int
}

// RunResult collects every intermediate artifact of a run alongside the
// final decision, for rendering and audit.
type RunResult struct {
	RunID  string
	Ticker string

	Snapshot *contracts.FinancialSnapshot
	Derived  contracts.DerivedMetrics
	Quality  quality.Breakdown
	Stage    contracts.LifecycleStage
	Type     contracts.BusinessType

	Valuation valuation.Result

	BusinessContext string
	Reports         map[contracts.Role]*contracts.AgentReport
	Extracted       map[contracts.Role]*contracts.ExtractedMetrics

	Decision *contracts.Decision

	CompletedStages []string
	Success         bool
	Error           error
	Duration        time.Duration
}

// NewOrchestrator wires the deterministic layers from the policy config and
// takes the two external collaborators as interfaces.
func NewOrchestrator(
	provider contracts.MarketDataProvider,
	agent contracts.ReasoningAgent,
	cfg *decisionconfig.Config,
	configHash string,
	retry RetryPolicy,
	limiter *rate.Limiter,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		agent:       agent,
		extractor:   extract.New(cfg.Extraction),
		scorer:      quality.NewScorer(cfg.Quality),
		engine:      valuation.NewEngine(cfg),
		synthesizer: synthesis.New(cfg),
		configHash:  configHash,
		retry:       retry,
		limiter:     limiter,
		logger:      log,
	}
}

// Run executes the full pipeline. Only data collection is fatal; every
// reasoning stage degrades to explicitly-missing metrics on exhaustion.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	start := time.Now()

	result := &RunResult{
		RunID:           config.RunID,
		Ticker:          config.Ticker,
		Reports:         make(map[contracts.Role]*contracts.AgentReport),
		Extracted:       make(map[contracts.Role]*contracts.ExtractedMetrics),
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id": config.RunID,
		"ticker": config.Ticker,
	}).Info("Starting analysis run")

	// Data collection. The one stage the pipeline cannot continue without.
	snap, err := o.runDataCollection(ctx, config)
	if err != nil {
		result.Error = fmt.Errorf("data collection failed: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Snapshot = snap
	result.Derived = fundamentals.Calculate(snap)
	result.Quality = o.scorer.Score(&result.Derived)
	result.Stage, result.Type = fundamentals.Classify(snap, &result.Derived)
	result.Valuation = o.engine.Valuate(snap, &result.Derived, result.Quality.Total, result.Stage, result.Type)
	result.CompletedStages = append(result.CompletedStages, "DataCollection")

	// Business context. Feeds every later role; an empty context degrades
	// them, it does not stop them.
	if report := o.runReasoning(ctx, agents.BusinessRequest(snap, &result.Derived)); report != nil {
		result.Reports[contracts.RoleBusiness] = report
		result.BusinessContext = report.Text
	}
	result.CompletedStages = append(result.CompletedStages, "BusinessContext")

	// The three analyst roles, in order.
	for _, role := range []contracts.Role{contracts.RoleValue, contracts.RoleGrowth, contracts.RoleRisk} {
		if err := ctx.Err(); err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result, err
		}
		req := agents.RoleRequest(role, snap, &result.Derived, result.BusinessContext)
		o.runStage(ctx, result, req)
	}

	// Synthesis sees all three reports.
	if err := ctx.Err(); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, err
	}
	synthReq := agents.SynthesisRequest(snap, &result.Derived, result.BusinessContext, []*contracts.AgentReport{
		result.Reports[contracts.RoleValue],
		result.Reports[contracts.RoleGrowth],
		result.Reports[contracts.RoleRisk],
	})
	o.runStage(ctx, result, synthReq)

	// Final decision.
	result.Decision = o.synthesizer.Decide(synthesis.Inputs{
		RunID:            config.RunID,
		Ticker:           config.Ticker,
		Price:            snap.Market.Price,
		ComputedQuality:  result.Quality.Total,
		ComputedRedFlags: result.Derived.HighSeverityCount(),
		Valuation:        result.Valuation,
		Value:            result.Extracted[contracts.RoleValue],
		Growth:           result.Extracted[contracts.RoleGrowth],
		Risk:             result.Extracted[contracts.RoleRisk],
		Synthesis:        result.Extracted[contracts.RoleSynthesis],
		ConfigHash:       o.configHash,
	})
	result.CompletedStages = append(result.CompletedStages, "Decision")

	result.Success = true
	result.Duration = time.Since(start)

	o.logger.WithFields(map[string]interface{}{
		"run_id":         config.RunID,
		"ticker":         config.Ticker,
		"recommendation": result.Decision.Recommendation,
		"composite":      result.Decision.CompositeScore,
		"degraded":       len(result.Decision.DegradedInputs),
		"duration":       result.Duration.Seconds(),
	}).Info("Analysis run completed")

	return result, nil
}

func (o *Orchestrator) runDataCollection(ctx context.Context, config RunConfig) (*contracts.FinancialSnapshot, error) {
	o.logger.WithField("ticker", config.Ticker).Info("Running stage: DataCollection")

	years := config.Years
	if years <= 0 {
		years = 5
	}

	var snap *contracts.FinancialSnapshot
	attempts, err := o.retry.Do(ctx, func(ctx context.Context) error {
		if err := o.pace(ctx); err != nil {
			return err
		}
		var ferr error
		snap, ferr = o.provider.Fetch(ctx, config.Ticker, years)
		return ferr
	})
	if err != nil {
		return nil, &contracts.DataUnavailableError{
			Ticker: config.Ticker,
			Reason: fmt.Sprintf("fetch failed after %d attempts: %v", attempts, err),
		}
	}
	if snap.YearCount() == 0 {
		return nil, &contracts.DataUnavailableError{Ticker: config.Ticker, Reason: "no fiscal years returned"}
	}

	o.logger.WithFields(map[string]interface{}{
		"ticker":   config.Ticker,
		"years":    snap.YearCount(),
		"attempts": attempts,
	}).Info("Stage completed: DataCollection")

	return snap, nil
}

// runStage invokes one reasoning role and extracts its metrics. Never
// fails the run: exhaustion leaves explicitly-degraded metrics behind.
func (o *Orchestrator) runStage(ctx context.Context, result *RunResult, req agents.Request) {
	report := o.runReasoning(ctx, req)

	var em *contracts.ExtractedMetrics
	if report != nil {
		result.Reports[req.Role] = report
		em = o.extractor.Extract(report)
	} else {
		em = contracts.NewExtractedMetrics(req.Role)
		em.Degraded = true
	}
	result.Extracted[req.Role] = em
	result.CompletedStages = append(result.CompletedStages, stageName(req.Role))
}

// runReasoning calls the agent under the retry policy and pacing budget.
// Returns nil when every attempt failed and no usable text survived.
func (o *Orchestrator) runReasoning(ctx context.Context, req agents.Request) *contracts.AgentReport {
	o.logger.WithField("role", string(req.Role)).Info("Running stage: " + stageName(req.Role))

	var text string
	truncated := false
	attempts, err := o.retry.Do(ctx, func(ctx context.Context) error {
		if err := o.pace(ctx); err != nil {
			return err
		}
		out, gerr := o.agent.Generate(ctx, req.Prompt, req.Role, req.Context)
		if out != "" {
			// Keep the best text seen so far; a truncated report
			// still beats no report.
			text = out
			truncated = gerr != nil
		}
		return gerr
	})

	if err != nil && text == "" {
		o.logger.WithError(err).WithFields(map[string]interface{}{
			"role":     string(req.Role),
			"attempts": attempts,
		}).Warn("Stage degraded: no report after retries")
		return nil
	}
	if err != nil {
		o.logger.WithError(err).WithField("role", string(req.Role)).Warn("Using partial report after retries")
	}

	return &contracts.AgentReport{
		Role:        req.Role,
		Prompt:      req.Prompt,
		Context:     req.Context,
		Text:        text,
		Truncated:   truncated,
		Attempts:    attempts,
		GeneratedAt: time.Now().UTC(),
	}
}

// pace blocks on the shared rate budget. All external calls of a run draw
// from the same limiter.
func (o *Orchestrator) pace(ctx context.Context) error {
	if o.limiter == nil {
		return nil
	}
	return o.limiter.Wait(ctx)
}

func stageName(role contracts.Role) string {
	switch role {
	case contracts.RoleBusiness:
		return "BusinessContext"
	case contracts.RoleValue:
		return "ValueRole"
	case contracts.RoleGrowth:
		return "GrowthRole"
	case contracts.RoleRisk:
		return "RiskRole"
	case contracts.RoleSynthesis:
		return "Synthesis"
	}
	return string(role)
}
