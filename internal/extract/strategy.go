package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/pactum/internal/apperr"
	"github.com/starford/pactum/internal/textnorm"
)

// ForceOCREnv forces OCR for PDFs when set to "1".
const ForceOCREnv = "FORCE_OCR"

// Config controls the PDF extraction strategy.
type Config struct {
	ForceOCR  bool
	OCRDPI    int
	Pdftoppm  string
	Tesseract string
}

// Strategy picks an extractor by file extension. PDFs are read from their
// text layer first and re-read with OCR when the layer looks scanned.
type Strategy struct {
	plain    Extractor
	text     Extractor
	ocr      Extractor
	forceOCR bool
}

// New creates a Strategy backed by the local OCR tools.
func New(cfg Config) *Strategy {
	return &Strategy{
		plain:    PlainText{},
		text:     TextLayer{},
		ocr:      &OCR{Pdftoppm: cfg.Pdftoppm, Tesseract: cfg.Tesseract, DPI: cfg.OCRDPI},
		forceOCR: cfg.ForceOCR,
	}
}

// Supported reports whether name has an extension the strategy can read.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// Extract implements Extractor. Every returned page is folded to NFC with
// typographic ligatures expanded.
func (s *Strategy) Extract(ctx context.Context, name string, data []byte) ([]string, error) {
	var (
		pages []string
		err   error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		pages, err = s.plain.Extract(ctx, name, data)
	case ".pdf":
		pages, err = s.extractPDF(ctx, name, data)
	default:
		return nil, fmt.Errorf("extract: %s: %w", name, apperr.ErrUnsupported)
	}
	if err != nil {
		return nil, err
	}
	for i, p := range pages {
		pages[i] = textnorm.Fold(p)
	}
	return pages, nil
}

func (s *Strategy) forced() bool {
	return s.forceOCR || os.Getenv(ForceOCREnv) == "1"
}

func (s *Strategy) extractPDF(ctx context.Context, name string, data []byte) ([]string, error) {
	var (
		pages   []string
		textErr error
		tried   bool
	)
	if !s.forced() {
		tried = true
		pages, textErr = s.text.Extract(ctx, name, data)
		if textErr == nil && !textnorm.IsScanned(strings.Join(pages, "")) {
			return pages, nil
		}
		if textErr != nil {
			slog.Warn("extract: text layer failed", slog.String("file", name), slog.String("error", textErr.Error()))
		}
	}

	ocrPages, err := s.ocr.Extract(ctx, name, data)
	if err == nil {
		return ocrPages, nil
	}
	slog.Warn("extract: ocr failed", slog.String("file", name), slog.String("error", err.Error()))

	if !tried {
		return s.text.Extract(ctx, name, data)
	}
	if textErr != nil {
		return nil, textErr
	}
	return pages, nil
}
