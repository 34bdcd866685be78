package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdictlab/verdict/internal/brain"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run the full analysis pipeline for a ticker",
	Long: `Runs all seven pipeline stages for one ticker and prints the
executive summary: recommendation tier, composite score, fair value,
expected returns, execution levels and position size.

With --compare, additional tickers are analyzed sequentially and a
side-by-side comparison table is printed at the end.

Example:
  go run ./cmd/verdict analyze AAPL
  go run ./cmd/verdict analyze AAPL --years 7
  go run ./cmd/verdict analyze AAPL --compare MSFT,GOOG --show-reports`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeYears   int
	analyzeCompare string
	showReports    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeYears, "years", 0, "years of financial history (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeCompare, "compare", "", "comma-separated tickers to analyze alongside")
	analyzeCmd.Flags().BoolVar(&showReports, "show-reports", false, "print the full role reports after the summary")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	years := analyzeYears
	if years <= 0 {
		years = rt.cfg.SnapshotYears
	}

	tickers := []string{strings.ToUpper(args[0])}
	for _, t := range strings.Split(analyzeCompare, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" && t != tickers[0] {
			tickers = append(tickers, t)
		}
	}

	results := make([]*brain.RunResult, 0, len(tickers))
	var failed int

	for _, ticker := range tickers {
		runID := fmt.Sprintf("%s-%d", ticker, time.Now().UnixNano())

		fmt.Printf("\nAnalyzing %s ...\n", ticker)
		result, err := rt.orch.Run(ctx, brain.RunConfig{
			RunID:  runID,
			Ticker: ticker,
			Years:  years,
		})
		if err != nil {
			failed++
			fmt.Printf("❌ %s: %v\n", ticker, err)
			if result != nil {
				results = append(results, result)
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		results = append(results, result)
		PrintDecisionSummary(result)
		if showReports {
			printReports(result)
		}
	}

	if len(tickers) > 1 {
		PrintComparisonTable(results)
	}

	if failed == len(tickers) {
		return fmt.Errorf("all %d analysis runs failed", failed)
	}
	return nil
}

func printReports(result *brain.RunResult) {
	for _, role := range brain.ReasoningOrder {
		report, ok := result.Reports[role]
		if !ok || report == nil {
			continue
		}
		PrintDoubleSeparator()
		fmt.Printf("  %s REPORT\n", roleLabel(role))
		if report.Truncated {
			fmt.Println("  (truncated)")
		}
		PrintSeparator()
		fmt.Println(report.Text)
	}
	PrintDoubleSeparator()
}
