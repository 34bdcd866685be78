package extract

import (
	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/internal/decisionconfig"
)

// Extractor parses role reports into tagged metrics.
type Extractor struct {
	truncationMinChars int
}

func New(cfg decisionconfig.Extraction) *Extractor {
	return &Extractor{truncationMinChars: cfg.TruncationMinChars}
}

// Extract parses one report. It never panics on malformed input: binary
// noise or an empty report simply yields a record where every field is
// unextracted. A report shorter than the truncation threshold is flagged
// but still parsed, on the chance it ends mid-sentence after the summary.
func (e *Extractor) Extract(report *contracts.AgentReport) *contracts.ExtractedMetrics {
	m := contracts.NewExtractedMetrics(report.Role)

	if report.Truncated || len(report.Text) < e.truncationMinChars {
		m.Truncated = true
	}

	switch report.Role {
	case contracts.RoleValue:
		extractValue(report.Text, m)
	case contracts.RoleGrowth:
		extractGrowth(report.Text, m)
	case contracts.RoleRisk:
		extractRisk(report.Text, m)
	case contracts.RoleSynthesis:
		extractSynthesis(report.Text, m)
	}

	return m
}
