package extract

import (
	"regexp"

	"github.com/verdictlab/verdict/internal/contracts"
)

// The synthesis report carries a tabular executive summary up front; fields
// stated there take priority over restatements deeper in the text.
var execSummaryPattern = regexp.MustCompile(`(?is)EXECUTIVE SUMMARY.*?(?:##\s+SECTION\s+2|$)`)

var finalRecPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\|[^|\n]*Final\s+Recommendation[^|\n]*\|[^|\n]*?(STRONG BUY|BUY|HOLD|REDUCE|SELL)[^|\n]*\|`),
	regexp.MustCompile(`(?i)\*?\*?Final Recommendation\*?\*?:\s*\*?\*?(STRONG BUY|BUY|HOLD|REDUCE|SELL)\*?\*?`),
	regexp.MustCompile(`(?i)\*?\*?Rating\*?\*?:\s*\*?\*?(STRONG BUY|BUY|HOLD|REDUCE|SELL)\*?\*?`),
}

var synthConvictionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\|\s*Conviction\s*(?:Level)?\s*\|\s*(\d+(?:\.\d+)?)/10\s*\|`),
	regexp.MustCompile(`(?i)\*\*Conviction(?:\s+Level)?\*\*\s*:\s*(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?i)Conviction(?:\s+Level)?\s*:\s*\*?\*?(\d+(?:\.\d+)?)/10\*?\*?`),
}

var positionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\|[^|\n]*Position\s+Size[^|\n]*\|[^|\n]*?(\d+(?:\.\d+)?)[^|\n]*%`),
	regexp.MustCompile(`(?i)\*?\*?(?:Recommended Position(?:\s+Size)?|Position Size|Final Position)\*?\*?:\s*(\d+(?:\.\d+)?)%`),
}

var compositePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\*?\*?COMPOSITE SCORE\*?\*?:\s*\*?\*?(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?i)(?:Weighted Composite|Integrated Score):\s*\*?\*?(\d+(?:\.\d+)?)/10`),
	regexp.MustCompile(`(?im)^\s*Composite:\s*(\d+(?:\.\d+)?)\s*$`),
}

var fairValueRangePattern = regexp.MustCompile(
	`(?i)(?:Fair\s+Value(?:\s+Range|\s+Estimate)?)[:\s]+\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:-|to)\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`)

var fairValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\|[^|\n]*Fair\s+Value[^|\n]*\|[^|\n]*?\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)Fair Value:\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)fair value\s+(?:around|near|at|of)\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

var (
	bullReturnPattern = regexp.MustCompile(`(?is)Bull Case.*?(?:Total Return|Return):\s*\+?(-?\d+(?:\.\d+)?)%`)
	baseReturnPattern = regexp.MustCompile(`(?is)Base Case.*?(?:Total Return|Return):\s*\+?(-?\d+(?:\.\d+)?)%`)
	bearReturnPattern = regexp.MustCompile(`(?is)Bear Case.*?(?:Total Return|Return):\s*([+-]?\d+(?:\.\d+)?)%`)

	bullProbPattern = regexp.MustCompile(`(?i)Bull Case \((\d+)%`)
	baseProbPattern = regexp.MustCompile(`(?i)Base Case \((\d+)%`)
	bearProbPattern = regexp.MustCompile(`(?i)Bear Case \((\d+)%`)
)

var entryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Target )?Entry(?:\s+Price)?\s+(?:Range|Zone):\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:-|to)\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?:enter|buy)\s+(?:at|between)\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)\s+(?:and|to|or)\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)accumulate\s+(?:at|near)\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:-|to)\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

var stopLossPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Stop Loss|Stop):\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)stop(?:\s+loss)?\s+(?:at|below)\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)exit\s+if\s+(?:price\s+)?falls\s+below\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

var targetRangePattern = regexp.MustCompile(
	`(?i)target(?:\s+of)?\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:-|to)\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`)

var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Target Price|Price Target|12-Month Target|Target):\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)reach\s+\$(\d+(?:,\d{3})*(?:\.\d+)?)`),
}

// extractSynthesis fills the synthesis-role fields.
func extractSynthesis(text string, m *contracts.ExtractedMetrics) {
	// Prefer the executive summary block when it exists.
	scope := text
	if sm := execSummaryPattern.FindString(text); sm != "" {
		scope = sm
	}

	if s, ok := chainStr(scope, finalRecPatterns); ok {
		m.Recommendation = contracts.Str{Value: normalizeRecommendation(s), Status: contracts.Extracted, Raw: s}
	} else if s, ok := chainStr(text, finalRecPatterns); ok {
		m.Recommendation = contracts.Str{Value: normalizeRecommendation(s), Status: contracts.Extracted, Raw: s}
	}

	if v, raw, ok := chainNum(scope, synthConvictionPatterns); ok {
		m.Conviction = numField(v, raw, 0, 10)
	} else if v, raw, ok := chainNum(text, synthConvictionPatterns); ok {
		m.Conviction = numField(v, raw, 0, 10)
	}

	if v, raw, ok := chainNum(scope, positionPatterns); ok {
		m.PositionSize = numField(v, raw, 0, 100)
	} else if v, raw, ok := chainNum(text, positionPatterns); ok {
		m.PositionSize = numField(v, raw, 0, 100)
	}

	if v, raw, ok := chainNum(text, compositePatterns); ok {
		m.CompositeScore = numField(v, raw, 0, 10)
	}

	if mr := fairValueRangePattern.FindStringSubmatch(text); mr != nil {
		low, okL := parseNum(mr[1])
		high, okH := parseNum(mr[2])
		if okL && okH {
			m.FairValue = numField((low+high)/2, mr[0], 0.000001, 1e9)
		}
	}
	if m.FairValue.Status == contracts.Unextracted {
		if v, raw, ok := chainNum(text, fairValuePatterns); ok {
			m.FairValue = numField(v, raw, 0.000001, 1e9)
		}
	}

	if mm := bullReturnPattern.FindStringSubmatch(text); mm != nil {
		if v, ok := parseNum(mm[1]); ok {
			m.BullReturn = numField(v, mm[1], -100, 1000)
		}
	}
	if mm := baseReturnPattern.FindStringSubmatch(text); mm != nil {
		if v, ok := parseNum(mm[1]); ok {
			m.BaseReturn = numField(v, mm[1], -100, 1000)
		}
	}
	if mm := bearReturnPattern.FindStringSubmatch(text); mm != nil {
		if v, ok := parseNum(mm[1]); ok {
			m.BearReturn = numField(v, mm[1], -100, 1000)
		}
	}

	if mm := bullProbPattern.FindStringSubmatch(text); mm != nil {
		if v, ok := parseNum(mm[1]); ok {
			m.BullProb = numField(v, mm[1], 0, 100)
		}
	}
	if mm := baseProbPattern.FindStringSubmatch(text); mm != nil {
		if v, ok := parseNum(mm[1]); ok {
			m.BaseProb = numField(v, mm[1], 0, 100)
		}
	}
	if mm := bearProbPattern.FindStringSubmatch(text); mm != nil {
		if v, ok := parseNum(mm[1]); ok {
			m.BearProb = numField(v, mm[1], 0, 100)
		}
	}

	for _, re := range entryPatterns {
		if mm := re.FindStringSubmatch(text); mm != nil {
			low, okL := parseNum(mm[1])
			high, okH := parseNum(mm[2])
			if okL && okH {
				m.EntryLow = numField(low, mm[1], 0.000001, 1e9)
				m.EntryHigh = numField(high, mm[2], 0.000001, 1e9)
			}
			break
		}
	}

	if v, raw, ok := chainNum(text, stopLossPatterns); ok {
		m.StopLoss = numField(v, raw, 0.000001, 1e9)
	}

	// A point target beats the high end of a stated range.
	if v, raw, ok := chainNum(text, targetPatterns[:1]); ok {
		m.TargetPrice = numField(v, raw, 0.000001, 1e9)
	} else if mr := targetRangePattern.FindStringSubmatch(text); mr != nil {
		if high, ok := parseNum(mr[2]); ok {
			m.TargetPrice = numField(high, mr[2], 0.000001, 1e9)
		}
	} else if v, raw, ok := chainNum(text, targetPatterns[1:]); ok {
		m.TargetPrice = numField(v, raw, 0.000001, 1e9)
	}
}
