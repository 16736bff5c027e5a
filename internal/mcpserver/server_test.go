package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/storage"
	"github.com/starford/pactum/internal/testutil"
)

const leaseText = "RESIDENTIAL LEASE AGREEMENT\n" +
	"This lease is effective as of March 1, 2024.\n" +
	"1. Rent\n" +
	"Tenant shall: a. pay rent monthly b. maintain the premises\n"

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	svc, store, _ := testutil.TestService(t)
	return New(svc), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "parse_text":
		result, err = srv.parseText(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "search_clauses":
		result, err = srv.searchClauses(ctx, req)
	case "ingest_document":
		result, err = srv.ingestDocument(ctx, req)
	case "get_output_schema":
		result, err = srv.getOutputSchema(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func dataURI(mime, body string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(body))
}

func TestParseText(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "parse_text", map[string]any{
		"text": "SUPPLY AGREEMENT\nDated 2021-04-01\f1. Delivery\n(a) on time\n(b) in full",
	})
	if r.IsError {
		t.Fatalf("parse_text error: %s", resultText(r))
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(resultText(r)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Title != "SUPPLY AGREEMENT" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.EffectiveDate == nil || *doc.EffectiveDate != "2021-04-01" {
		t.Errorf("effective_date = %v", doc.EffectiveDate)
	}
	last := doc.Sections[len(doc.Sections)-1]
	if last.Title != "Delivery" || len(last.Clauses) != 2 {
		t.Errorf("last section = %+v", last)
	}
}

func TestParseText_EmptyUsesFilename(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "parse_text", map[string]any{"text": "", "filename": "supply_terms.pdf"})
	if !strings.Contains(resultText(r), `"title": "Supply Terms"`) {
		t.Errorf("result = %s", resultText(r))
	}
}

func TestParseText_MissingText(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "parse_text", map[string]any{})
	if !r.IsError {
		t.Error("expected error without text")
	}
}

func TestIngestAndReadDocument(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "ingest_document", map[string]any{
		"url":      dataURI("text/plain", leaseText),
		"filename": "unit 4.txt",
		"folder":   "leases",
	})
	if r.IsError {
		t.Fatalf("ingest error: %s", resultText(r))
	}
	var res ingestResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Path != "leases/unit_4.txt" {
		t.Errorf("path = %q", res.Path)
	}
	if _, err := store.Read("leases/unit_4.txt"); err != nil {
		t.Errorf("document not stored: %v", err)
	}

	r = callTool(t, srv, "read_document", map[string]any{"path": "leases/unit_4.txt"})
	if !strings.Contains(resultText(r), `"effective_date": "2024-03-01"`) {
		t.Errorf("read result = %s", resultText(r))
	}

	r = callTool(t, srv, "ingest_document", map[string]any{
		"url":      dataURI("text/plain", leaseText),
		"filename": "unit 4.txt",
		"folder":   "leases",
	})
	if !r.IsError {
		t.Error("expected error for duplicate ingest")
	}
}

func TestIngest_GeneratedName(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "ingest_document", map[string]any{"url": dataURI("text/plain", leaseText)})
	if r.IsError {
		t.Fatalf("ingest error: %s", resultText(r))
	}
	var res ingestResult
	_ = json.Unmarshal([]byte(resultText(r)), &res)
	if !strings.HasSuffix(res.Path, ".txt") || len(res.Path) != 36+len(".txt") {
		t.Errorf("path = %q, want uuid.txt", res.Path)
	}
}

func TestIngest_Rejections(t *testing.T) {
	srv, _ := testServer(t)
	cases := []struct {
		name string
		args map[string]any
	}{
		{"image mime", map[string]any{"url": dataURI("image/png", "x")}},
		{"not base64", map[string]any{"url": "data:text/plain,hello"}},
		{"bad extension", map[string]any{"url": dataURI("text/plain", "x"), "filename": "x.docx"}},
		{"pdf mismatch", map[string]any{"url": dataURI("application/pdf", "plain words"), "filename": "x.pdf"}},
		{"loopback", map[string]any{"url": "http://127.0.0.1/x.pdf"}},
		{"private network", map[string]any{"url": "http://192.168.1.10/x.pdf"}},
		{"scheme", map[string]any{"url": "ftp://example.com/x.pdf"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := callTool(t, srv, "ingest_document", c.args)
			if !r.IsError {
				t.Errorf("expected error, got %s", resultText(r))
			}
		})
	}
}

func TestReadDocumentMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_document", map[string]any{"path": "nope.pdf"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestListAndSearch(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_documents", map[string]any{})
	if resultText(r) != "no documents indexed" {
		t.Errorf("empty list = %q", resultText(r))
	}

	_ = callTool(t, srv, "ingest_document", map[string]any{"url": dataURI("text/plain", leaseText), "filename": "lease.txt"})

	r = callTool(t, srv, "list_documents", map[string]any{"effective_after": "2024-01-01"})
	if !strings.Contains(resultText(r), `"path": "lease.txt"`) {
		t.Errorf("list = %s", resultText(r))
	}

	r = callTool(t, srv, "search_clauses", map[string]any{"query": "premises"})
	if !strings.Contains(resultText(r), "lease.txt") {
		t.Errorf("search = %s", resultText(r))
	}

	r = callTool(t, srv, "search_clauses", map[string]any{"query": "zebra"})
	if resultText(r) != "no clauses found" {
		t.Errorf("search = %s", resultText(r))
	}
}

func TestOutputSchema(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_output_schema", nil)
	var schema map[string]any
	if err := json.Unmarshal([]byte(resultText(r)), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("schema type = %v", schema["type"])
	}

	contents, err := srv.readOutputSchemaResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct{ in, want string }{
		{"lease.pdf", "lease.pdf"},
		{"../../etc/passwd.txt", "passwd.txt"},
		{"my contract (v2).pdf", "my_contract__v2_.pdf"},
		{`dir\nda.txt`, "nda.txt"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCheckBlockedHost(t *testing.T) {
	cases := []struct {
		host    string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.9", true},
		{"192.168.0.1", true},
		{"fd00::1", true},
		{"169.254.169.254", true},
		{"0.0.0.0", true},
		{"metadata.google.internal", true},
		{"93.184.216.34", false},
		{"2606:4700:4700::1111", false},
	}
	for _, c := range cases {
		err := checkBlockedHost(c.host)
		if (err != nil) != c.blocked {
			t.Errorf("checkBlockedHost(%q) = %v, blocked want %v", c.host, err, c.blocked)
		}
	}
}
