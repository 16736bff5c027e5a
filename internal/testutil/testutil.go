// Package testutil provides shared test helpers for setting up libraries,
// databases and services.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/pactum/internal/docservice"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/index"
	"github.com/starford/pactum/internal/parser"
	"github.com/starford/pactum/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "pactum-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory with a storage.FS.
func TestLibrary(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestService wires a document service over a temp library and database.
// OCR is never attempted.
func TestService(t *testing.T) (*docservice.Service, *storage.FS, *index.DB) {
	t.Helper()
	_, store := TestLibrary(t)
	db := TestDB(t)
	ex := extract.New(extract.Config{Pdftoppm: "pactum-test-missing-pdftoppm", Tesseract: "pactum-test-missing-tesseract"})
	svc := docservice.NewService(docservice.NewAnalyzer(ex, parser.New()), store, db)
	return svc, store, db
}
