package docservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/parser"
)

// Analyzer runs extraction followed by parsing.
type Analyzer struct {
	extractor extract.Extractor
	parser    *parser.Parser
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(ex extract.Extractor, p *parser.Parser) *Analyzer {
	return &Analyzer{extractor: ex, parser: p}
}

// Analyze extracts the pages of data and parses them. A panic inside the
// pipeline is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, name string, data []byte) (*models.Document, error) {
	pages, err := a.extractor.Extract(ctx, name, data)
	if err != nil {
		return nil, err
	}
	return a.ParsePages(pages, name)
}

// ParsePages parses already-extracted page text.
func (a *Analyzer) ParsePages(pages []string, name string) (doc *models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("docservice: parse %s: %v", name, r)
		}
	}()
	return a.parser.Parse(pages, name), nil
}

// ParseFile reads and analyzes the file at path. It never fails: a missing
// file, an extraction error or a pipeline panic yields parser.Fallback.
func (a *Analyzer) ParseFile(ctx context.Context, path string) *models.Document {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("parse: read failed, using fallback", slog.String("path", path), slog.String("error", err.Error()))
		return parser.Fallback(path)
	}
	doc, err := a.Analyze(ctx, path, data)
	if err != nil {
		slog.Warn("parse: analyze failed, using fallback", slog.String("path", path), slog.String("error", err.Error()))
		return parser.Fallback(path)
	}
	return doc
}
