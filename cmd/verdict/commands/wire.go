package commands

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/verdictlab/verdict/internal/brain"
	"github.com/verdictlab/verdict/internal/decisionconfig"
	"github.com/verdictlab/verdict/internal/external"
	"github.com/verdictlab/verdict/internal/external/gemini"
	"github.com/verdictlab/verdict/internal/external/stockanalysis"
	"github.com/verdictlab/verdict/internal/external/yahoo"
	"github.com/verdictlab/verdict/pkg/config"
	"github.com/verdictlab/verdict/pkg/logger"
)

// runtime holds the fully wired pipeline shared by the analyze, api and
// schedule commands.
type runtime struct {
	cfg        *config.Config
	log        *logger.Logger
	policy     *decisionconfig.Config
	policyYAML []byte
	configHash string
	orch       *brain.Orchestrator
}

// buildRuntime loads configuration, resolves the decision policy and wires
// the orchestrator with its providers.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	policy, yamlData, err := loadPolicy(cfg, log)
	if err != nil {
		return nil, err
	}

	hash, err := decisionconfig.Hash(policy)
	if err != nil {
		return nil, fmt.Errorf("hash decision policy: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"policy_id":   policy.Meta.PolicyID,
		"config_hash": hash[:12],
	}).Info("Decision policy loaded")

	// Market data: Yahoo first, the StockAnalysis scraper as fallback.
	provider := external.NewFallbackProvider(log,
		yahoo.New(cfg.Yahoo, log),
		stockanalysis.New(log),
	)

	agent := gemini.New(cfg.Gemini, log)

	orch := brain.NewOrchestrator(
		provider,
		agent,
		policy,
		hash,
		brain.DefaultRetryPolicy(),
		newPacer(cfg),
		log,
	)

	return &runtime{
		cfg:        cfg,
		log:        log,
		policy:     policy,
		policyYAML: yamlData,
		configHash: hash,
		orch:       orch,
	}, nil
}

// loadPolicy reads the decision policy file, falling back to the built-in
// default when the file is absent. A present-but-invalid file is an error;
// silently swapping policies would make run hashes meaningless.
func loadPolicy(cfg *config.Config, log *logger.Logger) (*decisionconfig.Config, []byte, error) {
	path := cfg.DecisionConfigPath
	if configFile != "" {
		path = configFile
	}

	policy, yamlData, err := decisionconfig.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("path", path).Warn("Decision config not found, using built-in default")
			return decisionconfig.Default(), nil, nil
		}
		return nil, nil, fmt.Errorf("load decision config %s: %w", path, err)
	}

	return policy, yamlData, nil
}

// newPacer builds the rate limiter the orchestrator waits on before each
// agent call. Uses whichever is slower: the configured requests-per-minute
// or the minimum call delay.
func newPacer(cfg *config.Config) *rate.Limiter {
	interval := time.Minute / time.Duration(cfg.Gemini.RequestsPerMinute)
	if cfg.Gemini.MinCallDelay > interval {
		interval = cfg.Gemini.MinCallDelay
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
