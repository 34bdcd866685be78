package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdictlab/verdict/internal/decisionconfig"
	"github.com/verdictlab/verdict/pkg/config"
	"github.com/verdictlab/verdict/pkg/logger"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the decision policy",
	Long: `Shows or validates the decision policy file the pipeline runs under.

Subcommands:
  show     - print the active policy and its hash
  validate - check a policy file without running anything

Example:
  go run ./cmd/verdict config show
  go run ./cmd/verdict config validate --config config/decision.yaml`,
}

var (
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the active policy and its hash",
		RunE:  runConfigShow,
	}

	configValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate a policy file",
		RunE:  runConfigValidate,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	policy, _, err := loadPolicy(cfg, log)
	if err != nil {
		return err
	}

	hash, err := decisionconfig.Hash(policy)
	if err != nil {
		return fmt.Errorf("hash decision policy: %w", err)
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Println("  DECISION POLICY")
	PrintSeparator()
	PrintKeyValue("Policy ID", policy.Meta.PolicyID, 16)
	PrintKeyValue("Version", policy.Meta.Version, 16)
	PrintKeyValue("Hash", hash, 16)
	PrintSeparator()
	PrintKeyValue("Composite", fmt.Sprintf("value %.2f / growth %.2f / risk %.2f",
		policy.Composite.ValueWeight, policy.Composite.GrowthWeight, policy.Composite.RiskWeight), 16)
	PrintKeyValue("Blend stable", fmt.Sprintf("dcf %.2f / earnings %.2f / cashflow %.2f",
		policy.Blend.Stable.DCF, policy.Blend.Stable.Earnings, policy.Blend.Stable.CashFlow), 16)
	PrintKeyValue("Blend growth", fmt.Sprintf("dcf %.2f / earnings %.2f / cashflow %.2f",
		policy.Blend.Growth.DCF, policy.Blend.Growth.Earnings, policy.Blend.Growth.CashFlow), 16)
	PrintKeyValue("Blend cyclical", fmt.Sprintf("dcf %.2f / earnings %.2f / cashflow %.2f",
		policy.Blend.Cyclical.DCF, policy.Blend.Cyclical.Earnings, policy.Blend.Cyclical.CashFlow), 16)
	PrintKeyValue("Risk-free rate", fmt.Sprintf("%.2f%%", policy.Discount.RiskFree*100), 16)
	PrintKeyValue("Tiers", fmt.Sprintf("%d rules", len(policy.Tiers)), 16)
	PrintKeyValue("Position cap", fmt.Sprintf("%.1f%%", policy.Position.MaxPct), 16)
	PrintDoubleSeparator()
	fmt.Println()
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := cfg.DecisionConfigPath
	if configFile != "" {
		path = configFile
	}

	policy, _, err := decisionconfig.Load(path)
	if err != nil {
		fmt.Printf("❌ %s: %v\n", path, err)
		return err
	}

	hash, err := decisionconfig.Hash(policy)
	if err != nil {
		return err
	}

	fmt.Printf("✅ %s is valid\n", path)
	fmt.Printf("   Policy : %s (%s)\n", policy.Meta.PolicyID, policy.Meta.Version)
	fmt.Printf("   Hash   : %s\n", hash)
	return nil
}
