package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/starford/pactum/internal/docservice"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/parser"
	"github.com/starford/pactum/internal/storage"
)

// ParseToFile structures the contract at input and writes the JSON result
// to output. Unreadable or unparseable input still produces a fallback
// document; only a failed write is an error.
func ParseToFile(ctx context.Context, input, output string, opts ...Option) error {
	app := newApplication(opts)
	cfg := app.config
	if cfg == nil {
		cfg = NewDefaultConfig()
	}

	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	analyzer := docservice.NewAnalyzer(extract.New(cfg.Extract.Strategy()), parser.New())
	doc := analyzer.ParseFile(ctx, input)

	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := storage.WriteFile(output, data); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	stats := doc.Stats()
	logger.Info("Contract parsed",
		slog.String("input", input),
		slog.String("output", output),
		slog.String("title", doc.Title),
		slog.Int("sections", stats.Sections),
		slog.Int("clauses", stats.Clauses))
	return nil
}

// encodeDocument renders v as two-space indented JSON without HTML
// escaping, with a trailing newline.
func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
