package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/starford/pactum/internal/textnorm"
)

// DateParser turns the date text captured next to a phrase such as
// "Effective Date" into a calendar date.
type DateParser func(string) (time.Time, error)

const (
	isoDateLayout  = "2006-01-02"
	longDateLayout = "January 2, 2006"
)

const longDate = `([A-Za-z]{3,9}\s+\d{1,2},\s+\d{4})`
const isoDate = `(\d{4}-\d{2}-\d{2})`

// effectiveDatePatterns are tried in order. An earlier pattern wins even if
// a later one matches earlier in the text.
var effectiveDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bEffective Date\b[: ]*` + longDate),
	regexp.MustCompile(`(?i)\bEffective as of\b[: ]*` + longDate),
	regexp.MustCompile(`(?i)\bmade (?:and entered )?as of\b[: ]*` + longDate),
	regexp.MustCompile(`(?i)\bdated\b[: ]*` + longDate),
	regexp.MustCompile(`(?i)\bAgreement Date\b[: ]*` + longDate),
	regexp.MustCompile(`(?i)\bAgreement Date\b[: ]*` + isoDate),
	regexp.MustCompile(`(?i)\bEffective Date\b[: ]*` + isoDate),
	regexp.MustCompile(`\b` + isoDate + `\b`),
}

var strictISODateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// septRe matches the four-letter September abbreviation, which dateparse
// does not know.
var septRe = regexp.MustCompile(`(?i)\bsept\b`)

// FuzzyDate parses free-form dates, falling back to StrictDate.
func FuzzyDate(s string) (time.Time, error) {
	if t, err := dateparse.ParseAny(septRe.ReplaceAllString(s, "Sep")); err == nil {
		return t, nil
	}
	return StrictDate(s)
}

// StrictDate parses "Month D, YYYY" only.
func StrictDate(s string) (time.Time, error) {
	t, err := time.Parse(longDateLayout, textnorm.NormalizeWhitespace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parser: strict date %q: %w", s, err)
	}
	return t, nil
}

// findEffectiveDate returns the first parseable effective date in text as
// YYYY-MM-DD, or nil.
func findEffectiveDate(text string, parse DateParser) *string {
	for _, re := range effectiveDatePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if iso, ok := resolveDate(strings.TrimSpace(m[1]), parse); ok {
			return &iso
		}
	}
	return nil
}

func resolveDate(raw string, parse DateParser) (string, bool) {
	if t, err := parse(raw); err == nil {
		return t.Format(isoDateLayout), true
	}
	if strictISODateRe.MatchString(raw) {
		if _, err := time.Parse(isoDateLayout, raw); err == nil {
			return raw, true
		}
	}
	return "", false
}
