package extract

import (
	"context"
	"strings"
)

// PlainText reads .txt documents. A form feed starts a new page.
type PlainText struct{}

// Extract implements Extractor.
func (PlainText) Extract(_ context.Context, _ string, data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	pages := strings.Split(string(data), "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}
