// Package extract parses typed metrics out of narrative role reports. Each
// field runs a chain of patterns ordered most specific first; the first
// match wins. A matched value outside the field's domain is tagged rather
// than clamped, and a field no rule matched stays explicitly unextracted.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/verdictlab/verdict/internal/contracts"
)

// parseNum parses a captured number, tolerating thousands separators and a
// leading plus sign.
func parseNum(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// lastGroup returns the last non-empty capture group, so patterns may carry
// optional leading groups (emoji markers, bold runs) without shifting the
// value's index.
func lastGroup(m []string) string {
	for i := len(m) - 1; i >= 1; i-- {
		if m[i] != "" {
			return m[i]
		}
	}
	return ""
}

// chainNum runs patterns in order and returns the first captured number with
// its raw text.
func chainNum(text string, patterns []*regexp.Regexp) (float64, string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := lastGroup(m)
		if v, ok := parseNum(raw); ok {
			return v, raw, true
		}
	}
	return 0, "", false
}

// chainStr runs patterns in order and returns the first captured string.
func chainStr(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if s := lastGroup(m); s != "" {
			return s, true
		}
	}
	return "", false
}

// numField builds a tagged Num, marking values outside [lo, hi] out of
// domain instead of discarding them.
func numField(v float64, raw string, lo, hi float64) contracts.Num {
	status := contracts.Extracted
	if v < lo || v > hi {
		status = contracts.OutOfDomain
	}
	return contracts.Num{Value: v, Status: status, Raw: raw}
}

// scanLines walks the report line by line, calling fn with each line and its
// uppercase form. fn returns true to stop.
func scanLines(text string, fn func(line, upper string) bool) {
	for _, line := range strings.Split(text, "\n") {
		if fn(line, strings.ToUpper(line)) {
			return
		}
	}
}

var anyDigit = regexp.MustCompile(`\d`)

func hasDigit(s string) bool { return anyDigit.MatchString(s) }
