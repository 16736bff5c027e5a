package parser

import (
	"regexp"
	"strings"

	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/textnorm"
)

// clauseLabelPatterns are tried in order; the first match wins. Group 1 is
// the label, group 2 the remainder of the line.
var clauseLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\(([a-z])\)\s+(.*)$`),
	regexp.MustCompile(`^\(([A-Z])\)\s+(.*)$`),
	regexp.MustCompile(`(?i)^\(([ivx]+)\)\s+(.*)$`),
	regexp.MustCompile(`^([a-z])\.\s+(.*)$`),
	regexp.MustCompile(`^([A-Z])\.\s+(.*)$`),
	regexp.MustCompile(`(?i)^([ivx]+)\.\s+(.*)$`),
	regexp.MustCompile(`^(\d+(?:\.\d+)+)\s+(.*)$`),
	regexp.MustCompile(`^(\d+)[.)]\s+(.*)$`),
	regexp.MustCompile(`^([A-Z][A-Z ]{2,})[:\-]\s*(.*)$`),
}

// matchClauseLabel returns the label and remainder of a labeled line.
func matchClauseLabel(line string) (label, rest string, ok bool) {
	for _, re := range clauseLabelPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// clauseSegmenter groups body lines into clauses.
type clauseSegmenter struct {
	label   string
	parts   []string
	clauses []models.Clause
}

// flush emits the open clause if it has any text and resets the state.
// Calling it with nothing accumulated is a no-op.
func (s *clauseSegmenter) flush() {
	if len(s.parts) > 0 {
		s.clauses = append(s.clauses, models.Clause{
			Text:  textnorm.NormalizeWhitespace(strings.Join(s.parts, " ")),
			Label: s.label,
		})
	}
	s.label = ""
	s.parts = nil
}

func (s *clauseSegmenter) feed(line string) {
	label, rest, ok := matchClauseLabel(line)
	if !ok {
		s.parts = append(s.parts, line)
		return
	}
	s.flush()
	s.label = textnorm.NormalizeWhitespace(label)
	if rest = textnorm.NormalizeWhitespace(rest); rest != "" {
		s.parts = []string{rest}
	}
}

// segmentClauses turns the exploded body lines of one section into clauses
// with dense indices.
func segmentClauses(lines []string) []models.Clause {
	s := &clauseSegmenter{}
	for _, line := range lines {
		s.feed(line)
	}
	s.flush()

	out := s.clauses
	if out == nil {
		out = []models.Clause{}
	}
	for i := range out {
		out[i].Index = i
	}
	return out
}
