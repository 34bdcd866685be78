package extract

import (
	"regexp"
	"strings"

	"github.com/verdictlab/verdict/internal/contracts"
)

var (
	firstInt       = regexp.MustCompile(`(\d+)`)
	riskScoreLine  = regexp.MustCompile(`(\d+(?:\.\d+)?)/(100|10)`)
	redFlagsTotal  = regexp.MustCompile(`(?i)TOTAL FINANCIAL RED FLAGS:\s*(\d+)`)
)

// extractRisk fills the risk-role fields. The risk score accepts both the
// /10 and /100 scales and normalizes to 0-10.
func extractRisk(text string, m *contracts.ExtractedMetrics) {
	scanLines(text, func(line, upper string) bool {
		if m.RedFlagCount.Status == contracts.Unextracted {
			if (strings.Contains(upper, "RED FLAGS") || strings.Contains(upper, "RED FLAG")) && hasDigit(line) {
				if mm := firstInt.FindStringSubmatch(line); mm != nil {
					if v, ok := parseNum(mm[1]); ok {
						m.RedFlagCount = numField(v, mm[1], 0, 20)
					}
				}
			}
		}

		if m.RiskScore.Status == contracts.Unextracted {
			if strings.Contains(upper, "OVERALL RISK SCORE") ||
				(strings.Contains(upper, "OVERALL RISK") && strings.Contains(line, "/")) {
				if mm := riskScoreLine.FindStringSubmatch(line); mm != nil {
					if v, ok := parseNum(mm[1]); ok {
						if mm[2] == "100" {
							v /= 10
						}
						m.RiskScore = numField(v, mm[0], 0, 10)
					}
				}
			}
		}

		return m.RedFlagCount.Status != contracts.Unextracted &&
			m.RiskScore.Status != contracts.Unextracted
	})

	if m.RedFlagCount.Status == contracts.Unextracted {
		if mm := redFlagsTotal.FindStringSubmatch(text); mm != nil {
			if v, ok := parseNum(mm[1]); ok {
				m.RedFlagCount = numField(v, mm[1], 0, 20)
			}
		}
	}
}
