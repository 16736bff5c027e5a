package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
)

// DefaultOCRDPI is the rasterisation resolution used when none is configured.
const DefaultOCRDPI = 300

// ErrOCRUnavailable is returned when the OCR binaries are not installed.
var ErrOCRUnavailable = errors.New("extract: ocr tools not found")

// OCR rasterises each PDF page with pdftoppm and recognises it with
// tesseract.
type OCR struct {
	Pdftoppm  string // binary name or path, default "pdftoppm"
	Tesseract string // binary name or path, default "tesseract"
	DPI       int
}

func (o *OCR) bin(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Available reports whether both binaries can be found.
func (o *OCR) Available() bool {
	if _, err := exec.LookPath(o.bin(o.Pdftoppm, "pdftoppm")); err != nil {
		return false
	}
	_, err := exec.LookPath(o.bin(o.Tesseract, "tesseract"))
	return err == nil
}

// Extract implements Extractor.
func (o *OCR) Extract(ctx context.Context, name string, data []byte) ([]string, error) {
	if !o.Available() {
		return nil, ErrOCRUnavailable
	}
	dpi := o.DPI
	if dpi <= 0 {
		dpi = DefaultOCRDPI
	}

	dir, err := os.MkdirTemp("", "pactum-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("extract: ocr temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("extract: ocr write input: %w", err)
	}

	raster := exec.CommandContext(ctx, o.bin(o.Pdftoppm, "pdftoppm"),
		"-r", strconv.Itoa(dpi), "-png", input, filepath.Join(dir, "page"))
	if out, err := raster.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("extract: pdftoppm %s: %w: %s", name, err, bytes.TrimSpace(out))
	}

	// pdftoppm zero-pads page numbers, so lexical order is page order.
	images, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("extract: ocr list pages: %w", err)
	}
	slices.Sort(images)

	pages := make([]string, 0, len(images))
	for _, img := range images {
		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, o.bin(o.Tesseract, "tesseract"), img, "stdout")
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("extract: tesseract %s: %w: %s", filepath.Base(img), err, bytes.TrimSpace(stderr.Bytes()))
		}
		pages = append(pages, stdout.String())
	}
	return pages, nil
}
