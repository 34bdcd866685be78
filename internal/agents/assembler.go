package agents

import (
	"fmt"
	"strings"

	"github.com/verdictlab/verdict/internal/contracts"
)

// Request is one prepared agent invocation.
type Request struct {
	Role    contracts.Role
	Prompt  string
	Context string
}

// BusinessRequest prepares the first reasoning stage. It sees only the
// numbers; there is no prior narrative to anchor on.
func BusinessRequest(snap *contracts.FinancialSnapshot, m *contracts.DerivedMetrics) Request {
	var b strings.Builder
	b.WriteString(FormatSnapshot(snap))
	b.WriteString(FormatDerived(m))
	return Request{Role: contracts.RoleBusiness, Prompt: businessPrompt, Context: b.String()}
}

// RoleRequest prepares the value, growth, or risk stage. Each sees the
// snapshot, the computed metrics, and the business context.
func RoleRequest(role contracts.Role, snap *contracts.FinancialSnapshot, m *contracts.DerivedMetrics, businessContext string) Request {
	var b strings.Builder
	b.WriteString(FormatSnapshot(snap))

	section(&b, "BUSINESS UNDERSTANDING (from preliminary analysis)")
	if businessContext == "" {
		b.WriteString("Not available for this run.\n")
	} else {
		b.WriteString(businessContext)
		b.WriteString("\n")
	}

	b.WriteString(FormatDerived(m))

	return Request{Role: role, Prompt: PromptFor(role), Context: b.String()}
}

// SynthesisRequest prepares the final stage. The chief investment officer
// sees the three analyst reports in full plus a compact view of the
// numbers, so disagreements can be resolved against the data.
func SynthesisRequest(snap *contracts.FinancialSnapshot, m *contracts.DerivedMetrics, businessContext string, reports []*contracts.AgentReport) Request {
	var b strings.Builder

	section(&b, "COMPANY")
	fmt.Fprintf(&b, "%s (%s)  Price: $%.2f  Market Cap: $%.2fB\n",
		snap.Name, snap.Ticker, snap.Market.Price, snap.Market.MarketCap/1e9)

	if businessContext != "" {
		section(&b, "BUSINESS UNDERSTANDING")
		b.WriteString(businessContext)
		b.WriteString("\n")
	}

	for _, r := range reports {
		if r == nil || r.Text == "" {
			continue
		}
		section(&b, fmt.Sprintf("%s ANALYST REPORT", strings.ToUpper(string(r.Role))))
		if r.Truncated {
			b.WriteString("[NOTE: this report was truncated]\n\n")
		}
		b.WriteString(r.Text)
		b.WriteString("\n")
	}

	b.WriteString(FormatDerived(m))

	return Request{Role: contracts.RoleSynthesis, Prompt: synthesisPrompt, Context: b.String()}
}
