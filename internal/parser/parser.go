// Package parser turns contract page text into a title, an effective date,
// and an ordered tree of sections and labeled clauses.
//
// Parsing is deterministic and never fails: lines that match no heading or
// clause shape become body text, missing metadata falls back to defaults,
// and a document without headings becomes a single Preamble section.
package parser

import (
	"strings"

	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/textnorm"
)

// Parser structures contract text. The zero value is not usable; call New.
type Parser struct {
	parseDate DateParser
}

// Option configures a Parser.
type Option func(*Parser)

// WithDateParser replaces the default fuzzy date parser.
func WithDateParser(fn DateParser) Option {
	return func(p *Parser) {
		if fn != nil {
			p.parseDate = fn
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{parseDate: FuzzyDate}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse structures pages (one string per page, in reading order). filename
// supplies the fallback title when no title line is found.
func (p *Parser) Parse(pages []string, filename string) *models.Document {
	title, contractType := guessTitle(pages, filename)
	fullText := textnorm.NormalizeWhitespace(strings.Join(pages, "\n"))

	return &models.Document{
		Title:         title,
		ContractType:  contractType,
		EffectiveDate: findEffectiveDate(fullText, p.parseDate),
		Sections:      assembleSections(pages),
	}
}

// Fallback is the minimal document reported when a file cannot be read or
// processed.
func Fallback(filename string) *models.Document {
	return &models.Document{
		Title:        TitleFromFilename(filename),
		ContractType: models.DefaultContractType,
		Sections:     []models.Section{},
	}
}
