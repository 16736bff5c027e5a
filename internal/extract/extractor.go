// Package extract turns document bytes into page text for the parser.
package extract

import "context"

// Extractor returns the text of each page of a document, in reading order.
// name is used only for its extension and for log messages.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) ([]string, error)
}
