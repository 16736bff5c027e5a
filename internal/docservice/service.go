// Package docservice coordinates extraction, parsing, library storage and
// the index.
package docservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/starford/pactum/internal/apperr"
	"github.com/starford/pactum/internal/checksum"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/index"
	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/storage"
)

// Detail is the full representation of a stored document.
type Detail struct {
	Path      string           `json:"path"`
	Checksum  string           `json:"checksum"`
	Stats     models.Stats     `json:"stats"`
	UpdatedAt time.Time        `json:"updated_at"`
	Document  *models.Document `json:"document"`
}

// ListItem is a lightweight item in a list response.
type ListItem struct {
	Path          string       `json:"path"`
	Title         string       `json:"title"`
	ContractType  string       `json:"contract_type"`
	EffectiveDate *string      `json:"effective_date"`
	Checksum      string       `json:"checksum"`
	Stats         models.Stats `json:"stats"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	*Analyzer
	store storage.Provider
	db    index.DocumentIndex
}

// NewService creates a new document service.
func NewService(an *Analyzer, store storage.Provider, db index.DocumentIndex) *Service {
	return &Service{Analyzer: an, store: store, db: db}
}

// CleanPath normalizes a library-relative document path and rejects names
// the library cannot hold.
func CleanPath(name string) (string, error) {
	p := path.Clean("/" + strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "", fmt.Errorf("docservice: empty document path")
	}
	if !extract.Supported(p) {
		return "", fmt.Errorf("docservice: %s: %w", p, apperr.ErrUnsupported)
	}
	return p, nil
}

// Ingest analyzes data, stores it in the library and indexes it. Of
// several concurrent ingests of one path, exactly one succeeds; the others
// get apperr.ErrAlreadyExists.
func (s *Service) Ingest(ctx context.Context, name string, data []byte) (*Detail, error) {
	p, err := CleanPath(name)
	if err != nil {
		return nil, err
	}
	doc, err := s.Analyze(ctx, p, data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(p, data); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, err
	}
	meta := models.DocumentMetadata{Path: p, Checksum: checksum.Sum(data), UpdatedAt: time.Now().UTC()}
	if err := s.db.UpsertDocument(meta, doc); err != nil {
		return nil, err
	}
	return &Detail{Path: p, Checksum: meta.Checksum, Stats: doc.Stats(), UpdatedAt: meta.UpdatedAt, Document: doc}, nil
}

// GetDocument returns the indexed result for a library path.
func (s *Service) GetDocument(_ context.Context, p string) (*Detail, error) {
	row, doc, err := s.db.GetDocument(p)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Path:      row.Path,
		Checksum:  row.Checksum,
		Stats:     models.Stats{Sections: row.Sections, Clauses: row.Clauses},
		UpdatedAt: row.UpdatedAt,
		Document:  doc,
	}, nil
}

// ListDocuments returns a page of indexed documents and the total count.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, effectiveAfter string, sort index.ListSort) ([]ListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset, effectiveAfter, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]ListItem, len(rows))
	for i, r := range rows {
		items[i] = ListItem{
			Path:          r.Path,
			Title:         r.Title,
			ContractType:  r.ContractType,
			EffectiveDate: r.EffectiveDate,
			Checksum:      r.Checksum,
			Stats:         models.Stats{Sections: r.Sections, Clauses: r.Clauses},
			UpdatedAt:     r.UpdatedAt,
		}
	}
	return items, total, nil
}

// SearchClauses delegates clause search to the index.
func (s *Service) SearchClauses(_ context.Context, query string, limit int) ([]index.ClauseHit, error) {
	return s.db.SearchClauses(query, limit)
}

// DeleteDocument removes a document from storage and index.
func (s *Service) DeleteDocument(_ context.Context, p string) error {
	if err := s.store.Delete(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteDocument(p)
}

// Ready reports whether the index is reachable.
func (s *Service) Ready() error {
	return s.db.Ping()
}
