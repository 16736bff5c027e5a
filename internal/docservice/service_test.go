package docservice_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/pactum/internal/apperr"
	"github.com/starford/pactum/internal/docservice"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/index"
	"github.com/starford/pactum/internal/parser"
	"github.com/starford/pactum/internal/testutil"
)

const leaseText = "RESIDENTIAL LEASE AGREEMENT\n" +
	"This lease is effective as of March 1, 2024.\n" +
	"1. Rent\n" +
	"Tenant shall: a. pay rent monthly b. maintain the premises\n" +
	"2. Termination\n" +
	"(a) Either party may terminate with notice.\n"

func TestIngestAndGet(t *testing.T) {
	svc, store, _ := testutil.TestService(t)
	ctx := context.Background()

	d, err := svc.Ingest(ctx, "leases/unit-4.txt", []byte(leaseText))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if d.Path != "leases/unit-4.txt" || d.Document.Title != "RESIDENTIAL LEASE AGREEMENT" {
		t.Errorf("detail = %+v", d)
	}
	if d.Stats.Sections != 3 {
		t.Errorf("sections = %d, want 3", d.Stats.Sections)
	}
	if _, err := store.Read("leases/unit-4.txt"); err != nil {
		t.Errorf("file not stored: %v", err)
	}

	got, err := svc.GetDocument(ctx, "leases/unit-4.txt")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Document.EffectiveDate == nil || *got.Document.EffectiveDate != "2024-03-01" {
		t.Errorf("effective date = %v", got.Document.EffectiveDate)
	}
	if got.Checksum != d.Checksum {
		t.Errorf("checksum = %q, want %q", got.Checksum, d.Checksum)
	}
}

func TestIngest_Duplicate(t *testing.T) {
	svc, _, _ := testutil.TestService(t)
	ctx := context.Background()
	if _, err := svc.Ingest(ctx, "a.txt", []byte(leaseText)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Ingest(ctx, "a.txt", []byte(leaseText)); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestIngest_Unsupported(t *testing.T) {
	svc, _, _ := testutil.TestService(t)
	if _, err := svc.Ingest(context.Background(), "a.docx", []byte("x")); !errors.Is(err, apperr.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	svc, _, _ := testutil.TestService(t)
	ctx := context.Background()
	_, _ = svc.Ingest(ctx, "gone.txt", []byte(leaseText))

	if err := svc.DeleteDocument(ctx, "gone.txt"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := svc.GetDocument(ctx, "gone.txt"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteDocument(ctx, "gone.txt"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListAndSearch(t *testing.T) {
	svc, _, _ := testutil.TestService(t)
	ctx := context.Background()
	_, _ = svc.Ingest(ctx, "a.txt", []byte(leaseText))
	_, _ = svc.Ingest(ctx, "b.txt", []byte("NDA\nConfidential information stays secret.\n"))

	items, total, err := svc.ListDocuments(ctx, 10, 0, "", index.SortPath)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 2 || len(items) != 2 || items[0].Path != "a.txt" {
		t.Errorf("items = %+v total = %d", items, total)
	}

	hits, err := svc.SearchClauses(ctx, "premises", 10)
	if err != nil {
		t.Fatalf("SearchClauses: %v", err)
	}
	if len(hits) != 1 || hits[0].Label != "b" || hits[0].SectionTitle != "Rent" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestIngest_ConcurrentSamePath(t *testing.T) {
	svc, _, _ := testutil.TestService(t)
	ctx := context.Background()

	const n = 6
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(ctx, "leases/shared.txt", []byte(leaseText))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, dup := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrAlreadyExists):
			dup++
		default:
			t.Errorf("Ingest: %v", err)
		}
	}
	if ok != 1 || dup != n-1 {
		t.Errorf("succeeded = %d, duplicates = %d, want 1 and %d", ok, dup, n-1)
	}
}

func TestParseFile(t *testing.T) {
	an := docservice.NewAnalyzer(extract.New(extract.Config{}), parser.New())
	p := filepath.Join(t.TempDir(), "lease.txt")
	if err := os.WriteFile(p, []byte(leaseText), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := an.ParseFile(context.Background(), p)
	if doc.Title != "RESIDENTIAL LEASE AGREEMENT" || len(doc.Sections) != 3 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestParseFile_Fallbacks(t *testing.T) {
	an := docservice.NewAnalyzer(extract.New(extract.Config{}), parser.New())
	dir := t.TempDir()

	missing := an.ParseFile(context.Background(), filepath.Join(dir, "master_services.pdf"))
	if missing.Title != "Master Services" || len(missing.Sections) != 0 || missing.EffectiveDate != nil {
		t.Errorf("missing file = %+v", missing)
	}

	bad := filepath.Join(dir, "broken_contract.pdf")
	_ = os.WriteFile(bad, []byte("definitely not a pdf"), 0o644)
	doc := an.ParseFile(context.Background(), bad)
	if doc.Title != "Broken Contract" || len(doc.Sections) != 0 {
		t.Errorf("broken pdf = %+v", doc)
	}
}

type panicExtractor struct{}

func (panicExtractor) Extract(context.Context, string, []byte) ([]string, error) {
	return []string{"text"}, nil
}

func TestParsePages_RecoversPanic(t *testing.T) {
	// A nil parser panics on use; the analyzer must turn that into an error.
	an := docservice.NewAnalyzer(panicExtractor{}, nil)
	if _, err := an.Analyze(context.Background(), "x.txt", []byte("x")); err == nil {
		t.Error("expected error from recovered panic")
	}
}
