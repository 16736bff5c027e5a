package index

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/pactum/internal/apperr"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/parser"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "pactum-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// textAnalyzer parses plain text without the PDF strategy.
var textAnalyzer = AnalyzerFunc(func(ctx context.Context, name string, data []byte) (*models.Document, error) {
	pages, err := extract.PlainText{}.Extract(ctx, name, data)
	if err != nil {
		return nil, err
	}
	return parser.New().Parse(pages, name), nil
})

func strPtr(s string) *string { return &s }

func sampleDoc(title, date string) *models.Document {
	var d *string
	if date != "" {
		d = strPtr(date)
	}
	return &models.Document{
		Title:         title,
		ContractType:  models.DefaultContractType,
		EffectiveDate: d,
		Sections: []models.Section{
			{Title: "Preamble", Clauses: []models.Clause{{Text: "This lease is entered into freely.", Index: 0}}},
			{Title: "Rent", Number: strPtr("1"), Clauses: []models.Clause{
				{Text: "pay rent monthly", Label: "a", Index: 0},
				{Text: "maintain the premises", Label: "b", Index: 1},
			}},
		},
	}
}

func meta(path, cs string) models.DocumentMetadata {
	return models.DocumentMetadata{Path: path, Checksum: cs, UpdatedAt: time.Now()}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM clauses`).Scan(&count); err != nil {
		t.Fatalf("clauses table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertDocument(meta("lease.txt", "abc123"), sampleDoc("Lease", "2024-01-01")); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	cs, err := db.GetChecksum("lease.txt")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(meta("lease.txt", "1"), sampleDoc("Lease", "2024-01-01"))

	row, doc, err := db.GetDocument("lease.txt")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if row.Sections != 2 || row.Clauses != 3 {
		t.Errorf("counts = %d/%d, want 2/3", row.Sections, row.Clauses)
	}
	if row.EffectiveDate == nil || *row.EffectiveDate != "2024-01-01" {
		t.Errorf("effective date = %v", row.EffectiveDate)
	}
	if doc.Title != "Lease" || len(doc.Sections) != 2 || doc.Sections[1].Clauses[1].Label != "b" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Sections[0].Number != nil {
		t.Error("preamble number should round-trip as nil")
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := testDB(t)
	if _, _, err := db.GetDocument("missing.pdf"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(meta("del.txt", "x"), sampleDoc("Gone", ""))

	if err := db.DeleteDocument("del.txt"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	cs, _ := db.GetChecksum("del.txt")
	if cs != "" {
		t.Errorf("deleted document still has checksum %q", cs)
	}
	var n int
	_ = db.conn.QueryRow(`SELECT count(*) FROM clauses WHERE path = ?`, "del.txt").Scan(&n)
	if n != 0 {
		t.Errorf("expected 0 clauses after delete, got %d", n)
	}
}

func TestUpsertReplacesClauses(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(meta("up.txt", "1"), sampleDoc("Old", ""))
	_ = db.UpsertDocument(meta("up.txt", "2"), &models.Document{
		Title:        "New",
		ContractType: models.DefaultContractType,
		Sections: []models.Section{
			{Title: "Term", Clauses: []models.Clause{{Text: "one year", Index: 0}}},
		},
	})

	cs, _ := db.GetChecksum("up.txt")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	var n int
	_ = db.conn.QueryRow(`SELECT count(*) FROM clauses WHERE path = ?`, "up.txt").Scan(&n)
	if n != 1 {
		t.Errorf("clauses = %d, want 1 after replace", n)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListDocuments(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(meta("a.txt", "1"), sampleDoc("A", "2020-05-01"))
	_ = db.UpsertDocument(meta("b.txt", "2"), sampleDoc("B", "2023-02-01"))
	_ = db.UpsertDocument(meta("c.txt", "3"), sampleDoc("C", ""))

	rows, total, err := db.ListDocuments(2, 0, "", SortPath)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 3 || len(rows) != 2 || rows[0].Path != "a.txt" {
		t.Errorf("total=%d rows=%+v", total, rows)
	}

	rows, total, _ = db.ListDocuments(10, 0, "2021-01-01", SortPath)
	if total != 1 || len(rows) != 1 || rows[0].Path != "b.txt" {
		t.Errorf("effective filter: total=%d rows=%+v", total, rows)
	}

	rows, _, _ = db.ListDocuments(10, 0, "", SortEffective)
	if len(rows) != 3 || rows[0].Path != "b.txt" || rows[2].Path != "c.txt" {
		t.Errorf("effective sort = %+v", rows)
	}
}

func TestSearchClauses(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(meta("lease.txt", "1"), sampleDoc("Lease", ""))

	hits, err := db.SearchClauses("premises", 10)
	if err != nil {
		t.Fatalf("SearchClauses: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %+v, want 1", hits)
	}
	h := hits[0]
	if h.Path != "lease.txt" || h.DocumentTitle != "Lease" || h.SectionTitle != "Rent" || h.Label != "b" || h.Index != 1 {
		t.Errorf("hit = %+v", h)
	}
	if h.SectionNumber == nil || *h.SectionNumber != "1" {
		t.Errorf("section number = %v", h.SectionNumber)
	}
}

func TestSync(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	_ = os.WriteFile(dir+"/one.txt", []byte("LEASE AGREEMENT\n1. Rent\n(a) pay monthly\n"), 0o644)
	_ = os.WriteFile(dir+"/two.txt", []byte("NDA\nConfidential things.\n"), 0o644)
	_ = os.WriteFile(dir+"/ignored.md", []byte("# not a document"), 0o644)
	_ = db.UpsertDocument(meta("stale.txt", "s"), sampleDoc("Stale", ""))

	res, err := Sync(context.Background(), db, store, textAnalyzer, discardLogger(), 2)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Indexed != 2 || res.Removed != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
	_, doc, err := db.GetDocument("one.txt")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Title != "LEASE AGREEMENT" {
		t.Errorf("title = %q", doc.Title)
	}

	res, _ = Sync(context.Background(), db, store, textAnalyzer, discardLogger(), 2)
	if res.Indexed != 0 {
		t.Errorf("second sync re-indexed %d unchanged files", res.Indexed)
	}
}

func TestSync_AnalyzerFailureCounted(t *testing.T) {
	dir, store, db := watcherTestEnv(t)
	_ = os.WriteFile(dir+"/bad.txt", []byte("x"), 0o644)
	failing := AnalyzerFunc(func(context.Context, string, []byte) (*models.Document, error) {
		return nil, errors.New("boom")
	})

	res, err := Sync(context.Background(), db, store, failing, discardLogger(), 1)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Failed != 1 || res.Indexed != 0 {
		t.Errorf("result = %+v", res)
	}
}
