package commands

import (
	"fmt"
	"strings"

	"github.com/verdictlab/verdict/internal/brain"
	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/valuation"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// ═══════════════════════════════════════════════════════════

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	for i, col := range columns {
		fmt.Printf("%-*s", widths[i], col)
		if i < len(columns)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintDecisionSummary renders the executive summary of a completed run.
func PrintDecisionSummary(result *brain.RunResult) {
	d := result.Decision

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  EXECUTIVE SUMMARY: %s\n", d.Ticker)
	PrintSeparator()

	PrintKeyValue("Recommendation", d.Recommendation, 18)
	PrintKeyValue("Composite Score", fmt.Sprintf("%.1f / 10", d.CompositeScore), 18)
	PrintKeyValue("Conviction", fmt.Sprintf("%.1f / 10", d.Conviction), 18)
	PrintKeyValue("Position Size", fmt.Sprintf("%.2f%% of portfolio", d.PositionSizePct), 18)

	if result.Snapshot != nil && result.Snapshot.Market.Price > 0 {
		PrintKeyValue("Current Price", fmt.Sprintf("$%.2f", result.Snapshot.Market.Price), 18)
	}
	if d.FairValueOK {
		PrintKeyValue("Fair Value", fmt.Sprintf("$%.2f", d.FairValue), 18)
	} else {
		PrintKeyValue("Fair Value", "n/a", 18)
	}

	PrintSeparator()
	fmt.Println("  Expected Returns")
	PrintKeyValue("1 Year", fmt.Sprintf("%+.1f%%", d.ExpectedReturn.Y1), 18)
	PrintKeyValue("3 Year", fmt.Sprintf("%+.1f%%", d.ExpectedReturn.Y3), 18)
	PrintKeyValue("5 Year", fmt.Sprintf("%+.1f%%", d.ExpectedReturn.Y5), 18)

	if d.EntryLow > 0 {
		PrintSeparator()
		fmt.Println("  Execution Levels")
		PrintKeyValue("Entry Range", fmt.Sprintf("$%.2f - $%.2f", d.EntryLow, d.EntryHigh), 18)
		PrintKeyValue("Stop Loss", fmt.Sprintf("$%.2f", d.StopLoss), 18)
		PrintKeyValue("Target Price", fmt.Sprintf("$%.2f", d.TargetPrice), 18)
	}

	PrintSeparator()
	fmt.Println("  Independent Valuation")
	if d.IntrinsicDefined {
		PrintKeyValue("Intrinsic Value", fmt.Sprintf("$%.2f", d.IntrinsicValue), 18)
		PrintKeyValue("Margin of Safety", fmt.Sprintf("%+.1f%% (%s)",
			d.MarginOfSafety, valuation.MOSAssessment(d.MarginOfSafety)), 18)
	} else {
		PrintKeyValue("Intrinsic Value", "undefined", 18)
	}
	PrintKeyValue("Quality Score", fmt.Sprintf("%.1f / 10", d.QualityScore), 18)
	for _, mv := range d.MethodValues {
		if mv.Defined {
			PrintKeyValue(mv.Name, fmt.Sprintf("$%.2f (weight %.0f%%)", mv.Value, mv.Weight*100), 18)
		} else {
			PrintKeyValue(mv.Name, fmt.Sprintf("excluded: %s", mv.Reason), 18)
		}
	}

	if len(d.DegradedInputs) > 0 {
		PrintSeparator()
		fmt.Printf("  ⚠️  Degraded inputs: %s\n", strings.Join(d.DegradedInputs, ", "))
	}
	if d.Disagreement {
		fmt.Println("  ⚠️  Synthesis disagrees with role consensus")
	}

	PrintSeparator()
	PrintKeyValue("Stages", strings.Join(result.CompletedStages, " → "), 18)
	PrintKeyValue("Duration", fmt.Sprintf("%.1fs", result.Duration.Seconds()), 18)
	PrintKeyValue("Policy Hash", shortHash(d.ConfigHash), 18)
	PrintDoubleSeparator()
	fmt.Println()
}

// PrintComparisonTable renders one row per completed run, sorted as given.
func PrintComparisonTable(results []*brain.RunResult) {
	widths := []int{8, 12, 10, 10, 10, 12, 10}
	fmt.Println()
	PrintTableHeader([]string{"Ticker", "Decision", "Score", "Conv", "Size", "Fair Value", "3Y Ret"}, widths)

	for _, r := range results {
		d := r.Decision
		if d == nil {
			PrintTableRow([]string{r.Ticker, "FAILED", "-", "-", "-", "-", "-"}, widths)
			continue
		}
		fv := "n/a"
		if d.FairValueOK {
			fv = fmt.Sprintf("$%.2f", d.FairValue)
		}
		PrintTableRow([]string{
			d.Ticker,
			d.Recommendation,
			fmt.Sprintf("%.1f", d.CompositeScore),
			fmt.Sprintf("%.1f", d.Conviction),
			fmt.Sprintf("%.2f%%", d.PositionSizePct),
			fv,
			fmt.Sprintf("%+.1f%%", d.ExpectedReturn.Y3),
		}, widths)
	}
	fmt.Println()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func roleLabel(role contracts.Role) string {
	return strings.ToUpper(string(role))
}
