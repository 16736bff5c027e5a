package parser

import (
	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/textnorm"
)

// PreambleTitle names the section holding text before the first heading.
const PreambleTitle = "Preamble"

// sectionAssembler accumulates body lines under the current heading.
type sectionAssembler struct {
	title    string
	number   *string
	body     []string
	sections []models.Section
}

// flush emits the open section, exploding and segmenting its body. With no
// title open it only resets state.
func (a *sectionAssembler) flush() {
	if a.title != "" {
		var exploded []string
		for _, line := range a.body {
			exploded = append(exploded, explodeInlineBullets(line)...)
		}
		a.sections = append(a.sections, models.Section{
			Title:   textnorm.NormalizeWhitespace(a.title),
			Number:  a.number,
			Clauses: segmentClauses(exploded),
		})
	}
	a.title = ""
	a.number = nil
	a.body = nil
}

func (a *sectionAssembler) feed(line string) {
	if h, ok := classifyHeading(line); ok {
		a.flush()
		a.title = h.title
		a.number = h.number
		return
	}
	if a.title == "" {
		a.title = PreambleTitle
	}
	a.body = append(a.body, line)
}

// normalizedLines flattens pages into non-empty, normalized lines ready for
// heading classification.
func normalizedLines(pages []string) []string {
	var out []string
	for _, page := range pages {
		for _, raw := range textnorm.SplitLines(page) {
			line := textnorm.NormalizeWhitespace(textnorm.Desquash(raw))
			if line == "" {
				continue
			}
			out = append(out, textnorm.ProtectTimes(line))
		}
	}
	return out
}

// assembleSections builds the section tree for the given pages.
func assembleSections(pages []string) []models.Section {
	a := &sectionAssembler{}
	for _, line := range normalizedLines(pages) {
		a.feed(line)
	}
	a.flush()
	if a.sections == nil {
		return []models.Section{}
	}
	return a.sections
}
