package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict - equity valuation and decision synthesis engine",
	Long: `Verdict Unified CLI

Runs the seven-stage analysis pipeline for a ticker: data collection,
business context, value / growth / risk role reports, synthesis and a
final sized decision.

Usage:
  go run ./cmd/verdict [command]

Examples:
  go run ./cmd/verdict analyze AAPL
  go run ./cmd/verdict analyze AAPL --compare MSFT,GOOG
  go run ./cmd/verdict api
  go run ./cmd/verdict schedule start --tickers AAPL,MSFT
  go run ./cmd/verdict config show`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
