package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pactum/internal/docservice"
	"github.com/starford/pactum/internal/index"
)

const (
	maxSearchLimit = 200
	maxListLimit   = 500
)

// ParseRequest is the request body for a stateless parse.
type ParseRequest struct {
	Filename string   `json:"filename" example:"msa.pdf" validate:"required"`
	Pages    []string `json:"pages" validate:"required"`
}

// Validate validates the parse request.
func (r *ParseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Filename, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Pages, validation.NotNil),
	)
}

// SearchQuery holds the parsed query string of a clause search.
type SearchQuery struct {
	Q     string
	Limit int
}

// Validate validates the search query.
func (q *SearchQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Q, validation.Required),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxSearchLimit)),
	)
}

// ListQuery holds the parsed query string of a document listing.
type ListQuery struct {
	Limit          int
	Offset         int
	EffectiveAfter string
	Sort           string
}

// Validate validates the list query.
func (q *ListQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxListLimit)),
		validation.Field(&q.Offset, validation.Min(0)),
		validation.Field(&q.EffectiveAfter, validation.Date("2006-01-02")),
		validation.Field(&q.Sort, validation.In(string(index.SortPath), string(index.SortUpdated), string(index.SortEffective))),
	)
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.Detail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = docservice.ListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// ClauseHit is a single search hit in the API response.
type ClauseHit struct {
	Path          string  `json:"path" example:"leases/unit-4.pdf" validate:"required"`
	DocumentTitle string  `json:"document_title" example:"Residential Lease Agreement" validate:"required"`
	SectionTitle  string  `json:"section_title" example:"Rent" validate:"required"`
	SectionNumber *string `json:"section_number" example:"1"`
	Label         string  `json:"label" example:"a"`
	Index         int     `json:"index" example:"0"`
	Snippet       string  `json:"snippet" example:"...pay <b>rent</b> monthly..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []ClauseHit `json:"results" validate:"required"`
}

func toClauseHits(hits []index.ClauseHit) []ClauseHit {
	out := make([]ClauseHit, len(hits))
	for i, h := range hits {
		out[i] = ClauseHit{
			Path:          h.Path,
			DocumentTitle: h.DocumentTitle,
			SectionTitle:  h.SectionTitle,
			SectionNumber: h.SectionNumber,
			Label:         h.Label,
			Index:         h.Index,
			Snippet:       h.Snippet,
		}
	}
	return out
}
