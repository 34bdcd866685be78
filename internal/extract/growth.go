package extract

import (
	"regexp"
	"strings"

	"github.com/verdictlab/verdict/internal/contracts"
)

var growthScoreLine = regexp.MustCompile(`(\d+(?:\.\d+)?)/10`)

var growthConvictionLine = regexp.MustCompile(`(?i)CONVICTION[:\s]+(\d+(?:\.\d+)?)/10`)

// extractGrowth fills the growth-role fields. The growth reports favor
// headline lines over labeled key-value pairs, so this scans line by line
// the way the report is read.
func extractGrowth(text string, m *contracts.ExtractedMetrics) {
	scanLines(text, func(line, upper string) bool {
		if !m.QualityScore.Ok() && m.QualityScore.Status != contracts.OutOfDomain {
			if matchesGrowthQuality(line, upper) {
				if mm := growthScoreLine.FindStringSubmatch(line); mm != nil {
					if v, ok := parseNum(mm[1]); ok {
						m.QualityScore = numField(v, mm[1], 0, 10)
					}
				}
			}
		}

		if m.Recommendation.Status == contracts.Unextracted {
			if rec, ok := growthRecommendation(upper); ok {
				m.Recommendation = contracts.Str{Value: rec, Status: contracts.Extracted, Raw: line}
			}
		}

		if !m.Conviction.Ok() && m.Conviction.Status != contracts.OutOfDomain {
			if mm := growthConvictionLine.FindStringSubmatch(line); mm != nil {
				if v, ok := parseNum(mm[1]); ok {
					m.Conviction = numField(v, mm[1], 0, 10)
				}
			}
		}

		return false
	})
}

func matchesGrowthQuality(line, upper string) bool {
	switch {
	case strings.Contains(upper, "HISTORICAL GROWTH QUALITY") && strings.Contains(line, "/"):
		return true
	case strings.Contains(line, "|") && strings.Contains(upper, "HISTORICAL") && strings.Contains(upper, "GROWTH"):
		return true
	case strings.Contains(upper, "TOTAL HISTORICAL GROWTH QUALITY SCORE:"):
		return true
	case strings.Contains(upper, "GROWTH QUALITY SCORE"):
		return true
	}
	return false
}

// growthRecommendation folds the growth report's label set onto the shared
// tiers. Longest labels first so GROWTH BUY is not shadowed by BUY.
func growthRecommendation(upper string) (string, bool) {
	if !strings.Contains(upper, "RECOMMENDATION") && !strings.Contains(upper, "GROWTH BUY") &&
		!strings.Contains(upper, "CAUTION") && !strings.Contains(upper, "AVOID") {
		return "", false
	}
	switch {
	case strings.Contains(upper, "STRONG GROWTH BUY"), strings.Contains(upper, "STRONG BUY"):
		return contracts.RecStrongBuy, true
	case strings.Contains(upper, "GROWTH BUY"), strings.Contains(upper, "BUY"):
		return contracts.RecBuy, true
	case strings.Contains(upper, "CAUTION"):
		return contracts.RecReduce, true
	case strings.Contains(upper, "AVOID"):
		return contracts.RecSell, true
	case strings.Contains(upper, "HOLD"):
		return contracts.RecHold, true
	}
	return "", false
}

