package index

import "github.com/starford/pactum/internal/models"

// DocumentIndex defines the interface for document indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DocumentIndex interface {
	UpsertDocument(meta models.DocumentMetadata, doc *models.Document) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	GetDocument(path string) (*DocumentRow, *models.Document, error)
	ListDocuments(limit, offset int, effectiveAfter string, sort ListSort) ([]DocumentRow, int, error)
	SearchClauses(query string, limit int) ([]ClauseHit, error)
	AllChecksums() (map[string]string, error)
	Ping() error
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
