// Package textnorm cleans extracted page text before it is structured.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ScannedThreshold is the non-whitespace rune count below which a page is
// considered to have no usable text layer.
const ScannedThreshold = 20

var (
	lowerUpperRe  = regexp.MustCompile(`([a-z])([A-Z])`)
	letterDigitRe = regexp.MustCompile(`([A-Za-z])(\d)`)
	digitLetterRe = regexp.MustCompile(`(\d)([A-Za-z])`)
	timeDotRe     = regexp.MustCompile(`\b(\d{1,2})\.(\d{2})\b`)
	lineBreakRe   = regexp.MustCompile("\r\n|[\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029]")

	ligatures = strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
		"ﬆ", "st",
	)
)

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims both ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Desquash inserts the spaces lossy extraction tends to drop: between a
// lowercase and an uppercase letter, then between a letter and a digit, then
// between a digit and a letter. Each rule sees the output of the previous one.
func Desquash(s string) string {
	if s == "" {
		return s
	}
	s = lowerUpperRe.ReplaceAllString(s, "${1} ${2}")
	s = letterDigitRe.ReplaceAllString(s, "${1} ${2}")
	return digitLetterRe.ReplaceAllString(s, "${1} ${2}")
}

// ProtectTimes rewrites clock times such as "9.30" to "9:30" so the
// enumerator patterns do not read them as numbered items.
func ProtectTimes(s string) string {
	return timeDotRe.ReplaceAllString(s, "${1}:${2}")
}

// IsScanned reports whether text is effectively empty.
func IsScanned(text string) bool {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
			if n >= ScannedThreshold {
				return false
			}
		}
	}
	return true
}

// Fold replaces typographic ligatures and applies NFC normalization.
func Fold(s string) string {
	s = ligatures.Replace(s)
	out, _, err := transform.String(norm.NFC, s)
	if err != nil {
		return s
	}
	return out
}

// SplitLines splits page text on every line-break convention extraction
// tools produce.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := lineBreakRe.Split(s, -1)
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
