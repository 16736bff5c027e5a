package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/pactum/internal/textnorm"
)

// Heading acceptance thresholds.
const (
	// maxHeadingRunes is the longest title a numbered heading may carry.
	maxHeadingRunes = 120
	// maxHeadingWordsNoColon rejects long titles unless they contain a colon.
	maxHeadingWordsNoColon = 14
	// maxHeadingWords accepts any title at or below this word count.
	maxHeadingWords = 12
	// maxAllCapsHeadingWords accepts longer titles written in capitals.
	maxAllCapsHeadingWords = 16
	// sentenceNumberThreshold is the numeral from which a sentence-starting
	// title marks an ordinary numbered paragraph rather than a heading.
	sentenceNumberThreshold = 30
	// maxAllCapsLineWords bounds the ALL-CAPS heading shape.
	maxAllCapsLineWords = 12
	// maxTitleCaseWords bounds the short title-case heading shape.
	maxTitleCaseWords = 7
)

var (
	numberedHeadingRe = regexp.MustCompile(`(?i)^(?:Section|Article)?\s*((?:\d+(?:\.\d+)*|[IVX]+))\s*[.)\-–—]?\s+(.+)$`)
	allCapsRe         = regexp.MustCompile(`^[A-Z0-9 \-&,]{3,}$`)
	titleCaseRe       = regexp.MustCompile(`^(?:[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,6})$`)
	timeTokenRe       = regexp.MustCompile(`(?i)^(?:\d{1,2}[:.]\d{2})(?:\s?(?:am|pm))?$`)
)

// sentenceStarts are words that usually open a sentence, not a heading.
var sentenceStarts = map[string]struct{}{
	"The": {}, "This": {}, "These": {}, "Those": {}, "A": {}, "An": {}, "In": {},
	"On": {}, "At": {}, "For": {}, "From": {}, "If": {}, "Upon": {}, "Whereas": {},
}

func isSentenceStart(word string) bool {
	_, ok := sentenceStarts[word]
	return ok
}

// heading is an accepted section heading.
type heading struct {
	title  string
	number *string
}

// headingShape tries to read a heading from a normalized line.
type headingShape func(line string) (heading, bool)

// headingShapes are tried in order; the first accepting shape wins.
var headingShapes = []headingShape{
	numberedHeading,
	allCapsHeading,
	titleCaseHeading,
}

// classifyHeading reports whether line starts a new section.
func classifyHeading(line string) (heading, bool) {
	for _, shape := range headingShapes {
		if h, ok := shape(line); ok {
			return h, true
		}
	}
	return heading{}, false
}

func numberedHeading(line string) (heading, bool) {
	m := numberedHeadingRe.FindStringSubmatch(line)
	if m == nil {
		return heading{}, false
	}
	number := m[1]
	title := textnorm.NormalizeWhitespace(m[2])
	if !likelyHeading(number, title) {
		return heading{}, false
	}
	return heading{title: title, number: &number}, true
}

func allCapsHeading(line string) (heading, bool) {
	if !allCapsRe.MatchString(line) || len(strings.Fields(line)) > maxAllCapsLineWords {
		return heading{}, false
	}
	title := line
	if hasLetter(line) {
		title = titleCase(line)
	}
	return heading{title: title}, true
}

func titleCaseHeading(line string) (heading, bool) {
	if !titleCaseRe.MatchString(line) || len(strings.Fields(line)) > maxTitleCaseWords {
		return heading{}, false
	}
	return heading{title: line}, true
}

// likelyHeading filters numbered-heading candidates that are really body
// text: clock times, sentences, and paragraphs that happen to start with a
// numeral.
func likelyHeading(number, title string) bool {
	if number != "" && timeTokenRe.MatchString(number) {
		return false
	}
	t := strings.TrimSpace(title)
	if t == "" || strings.HasSuffix(t, ".") {
		return false
	}
	if utf8.RuneCountInString(t) > maxHeadingRunes {
		return false
	}
	words := strings.Fields(t)
	if len(words) == 0 {
		return false
	}
	if first, _ := utf8.DecodeRuneInString(words[0]); unicode.IsLower(first) {
		return false
	}
	if len(words) > maxHeadingWordsNoColon && !strings.Contains(t, ":") {
		return false
	}
	if isDigits(number) {
		// All-digit numerals only fail Atoi on overflow, which is past the threshold.
		if n, err := strconv.Atoi(number); (err != nil || n >= sentenceNumberThreshold) && isSentenceStart(words[0]) {
			return false
		}
	}
	if len(words) <= maxHeadingWords {
		return true
	}
	return allCapsRe.MatchString(t) && len(words) <= maxAllCapsHeadingWords
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
