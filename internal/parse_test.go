package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/pactum/internal/models"
)

func TestParseToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nda.txt")
	text := "MUTUAL NDA\nEffective Date: June 1, 2022\n1. Confidential Information\n(a) Recipient shall protect <secrets> & data.\n"
	if err := os.WriteFile(in, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out", "nda.json")

	var logs bytes.Buffer
	if err := ParseToFile(context.Background(), in, out, WithLogOutput(&logs)); err != nil {
		t.Fatalf("ParseToFile: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"title\": \"MUTUAL NDA\"") {
		t.Errorf("output not two-space indented: %s", data)
	}
	if !strings.Contains(string(data), "<secrets> & data") {
		t.Errorf("output should not escape HTML characters: %s", data)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.EffectiveDate == nil || *doc.EffectiveDate != "2022-06-01" {
		t.Errorf("effective_date = %v", doc.EffectiveDate)
	}
	if !strings.Contains(logs.String(), `"msg":"Contract parsed"`) {
		t.Errorf("logs = %s", logs.String())
	}
}

func TestParseToFile_MissingInputWritesFallback(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	err := ParseToFile(context.Background(), filepath.Join(dir, "supply_agreement.pdf"), out, WithLogOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("ParseToFile: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Supply Agreement" || doc.EffectiveDate != nil || len(doc.Sections) != 0 {
		t.Errorf("fallback = %+v", doc)
	}
}

func TestParseToFile_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := ParseToFile(context.Background(), "missing.txt", filepath.Join(blocker, "out.json"), WithLogOutput(&bytes.Buffer{}))
	if err == nil {
		t.Fatal("expected error when the output directory cannot be created")
	}
}
