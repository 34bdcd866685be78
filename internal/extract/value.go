package extract

import (
	"regexp"
	"strings"

	"github.com/verdictlab/verdict/internal/contracts"
)

var valueQualityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)FINANCIAL QUALITY ASSESSMENT.*?\((\d+)/10`),
	regexp.MustCompile(`(?i)TOTAL FINANCIAL QUALITY SCORE[:\s]+\*?\*?(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?i)\|\s*Financial Quality Score\s*\|\s*(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?i)Quality Score[:\s]+\*?\*?(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?i)\*\*Quality Score\*\*[:\s]+(\d+(?:\.\d+)?)/10`),
}

var moatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)MOAT[:\s]+\*?\*?(STRONG|MEDIUM|MODERATE|WEAK|NONE)\*?\*?`),
	regexp.MustCompile(`(?i)\|\s*Moat\s*\|\s*(STRONG|MEDIUM|MODERATE|WEAK|NONE)`),
	regexp.MustCompile(`(?i)\*\*Moat\*\*[:\s]+(STRONG|MEDIUM|MODERATE|WEAK|NONE)`),
}

var recommendationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)RECOMMENDATION[:\s]+\*?\*?(STRONG BUY|BUY|HOLD|REDUCE|SELL|AVOID)\*?\*?`),
	regexp.MustCompile(`(?i)\|\s*Recommendation\s*\|\s*(STRONG BUY|BUY|HOLD|REDUCE|SELL|AVOID)`),
	regexp.MustCompile(`(?i)\*\*Recommendation\*\*[:\s]+\*?\*?(STRONG BUY|BUY|HOLD|REDUCE|SELL|AVOID)\*?\*?`),
}

var convictionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CONVICTION(?:\s+LEVEL)?[:\s]+\*?\*?(\d+(?:\.\d+)?)/10\*?\*?`),
	regexp.MustCompile(`(?i)\*\*Conviction(?:\s+Level)?\*\*[:\s]+(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?i)\|\s*Conviction\s*\|\s*(\d+(?:\.\d+)?)/10`),
}

var mosPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)MARGIN OF SAFETY[:\s]+\*?\*?([+-]?\d+(?:\.\d+)?)%`),
	regexp.MustCompile(`(?i)\*\*Margin of Safety\*\*[:\s]+([+-]?\d+(?:\.\d+)?)%`),
	regexp.MustCompile(`(?i)\|\s*Margin of Safety\s*\|\s*([+-]?\d+(?:\.\d+)?)%`),
}

var intrinsicRangePattern = regexp.MustCompile(
	`(?i)(?:INTRINSIC VALUE|FAIR VALUE)(?:\s+RANGE)?[:\s]+\*?\*?\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:-|to)\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`)

var intrinsicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)INTRINSIC VALUE[:\s]+\*?\*?\$(\d+(?:,\d{3})*(?:\.\d+)?)\*?\*?`),
	regexp.MustCompile(`(?i)\*\*Intrinsic Value\*\*[:\s]+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)\|\s*Intrinsic Value\s*\|\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)Fair Value[:\s]+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

// extractValue fills the value-role fields.
func extractValue(text string, m *contracts.ExtractedMetrics) {
	if v, raw, ok := chainNum(text, valueQualityPatterns); ok {
		m.QualityScore = numField(v, raw, 0, 10)
	}

	if s, ok := chainStr(text, moatPatterns); ok {
		m.MoatRating = contracts.Str{Value: normalizeMoat(s), Status: contracts.Extracted, Raw: s}
	}

	if s, ok := chainStr(text, recommendationPatterns); ok {
		m.Recommendation = contracts.Str{Value: normalizeRecommendation(s), Status: contracts.Extracted, Raw: s}
	}

	if v, raw, ok := chainNum(text, convictionPatterns); ok {
		m.Conviction = numField(v, raw, 0, 10)
	}

	if v, raw, ok := chainNum(text, mosPatterns); ok {
		m.MarginOfSafety = numField(v, raw, -1000, 100)
	}

	// A stated range beats a point estimate; the midpoint becomes the value.
	if mr := intrinsicRangePattern.FindStringSubmatch(text); mr != nil {
		low, okL := parseNum(mr[1])
		high, okH := parseNum(mr[2])
		if okL && okH {
			mid := (low + high) / 2
			m.IntrinsicValue = numField(mid, mr[0], 0.000001, 1e9)
			m.IntrinsicLow = low
			m.IntrinsicHigh = high
			m.HasRange = true
			return
		}
	}
	if v, raw, ok := chainNum(text, intrinsicPatterns); ok {
		m.IntrinsicValue = numField(v, raw, 0.000001, 1e9)
	}
}

func normalizeMoat(s string) string {
	switch strings.ToUpper(s) {
	case "STRONG":
		return contracts.MoatStrong
	case "MEDIUM", "MODERATE":
		return contracts.MoatMedium
	case "WEAK":
		return contracts.MoatWeak
	default:
		return contracts.MoatNone
	}
}

// normalizeRecommendation folds model-specific labels onto the five tiers.
func normalizeRecommendation(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.Contains(up, "STRONG GROWTH BUY"), strings.Contains(up, "STRONG BUY"):
		return contracts.RecStrongBuy
	case strings.Contains(up, "GROWTH BUY"), up == "BUY", strings.Contains(up, " BUY"):
		return contracts.RecBuy
	case strings.Contains(up, "HOLD"):
		return contracts.RecHold
	case strings.Contains(up, "REDUCE"), strings.Contains(up, "CAUTION"):
		return contracts.RecReduce
	case strings.Contains(up, "AVOID"), strings.Contains(up, "SELL"):
		return contracts.RecSell
	default:
		return up
	}
}
