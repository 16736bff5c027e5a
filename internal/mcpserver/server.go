// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Pactum tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pactum/internal/apperr"
	"github.com/starford/pactum/internal/docservice"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/index"
	"github.com/starford/pactum/internal/textnorm"
)

const outputSchemaURI = "pactum://output-schema"

// Server wraps the MCP server with Pactum tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all Pactum tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Pactum",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("parse_text",
		mcp.WithDescription("Structure raw contract text into title, effective date, sections and clauses. "+
			"Separate pages with a form feed (\\f). The result follows the schema returned by get_output_schema."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Contract text; pages separated by \\f")),
		mcp.WithString("filename", mcp.Description("Optional source file name, used for the title when the text is empty")),
	), s.parseText)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the structured result of a document stored in the library."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Library-relative path (e.g. leases/unit-4.pdf)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List indexed documents with title, effective date and clause counts."),
		mcp.WithString("effective_after", mcp.Description("Only documents effective on or after this date (YYYY-MM-DD)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents (default 50)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("search_clauses",
		mcp.WithDescription("Full-text search through clause text and section titles of all indexed documents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchClauses)

	s.mcp.AddTool(mcp.NewTool("ingest_document",
		mcp.WithDescription("Add a PDF or plain-text contract to the library and index it. "+
			"Accepts a base64 data URI or an http(s) URL."),
		mcp.WithString("url", mcp.Required(), mcp.Description("data:application/pdf;base64,... or https://...")),
		mcp.WithString("filename", mcp.Description("Optional file name (.pdf or .txt); generated when omitted")),
		mcp.WithString("folder", mcp.Description("Optional library folder to store the document in")),
	), s.ingestDocument)

	s.mcp.AddTool(mcp.NewTool("get_output_schema",
		mcp.WithDescription("Returns the JSON Schema of a structured contract."),
	), s.getOutputSchema)

	s.mcp.AddResource(
		mcp.NewResource(outputSchemaURI, "Structured Contract Schema",
			mcp.WithResourceDescription("JSON Schema of the structured contract output."),
			mcp.WithMIMEType("application/schema+json"),
		),
		s.readOutputSchemaResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) parseText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := req.GetString("filename", "document.txt")

	pages, err := extract.PlainText{}.Extract(ctx, filename, []byte(text))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for i := range pages {
		pages[i] = textnorm.Fold(pages[i])
	}
	doc, err := s.svc.ParsePages(pages, filename)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d.Document), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	after := strings.TrimSpace(req.GetString("effective_after", ""))
	limit := req.GetInt("limit", 50)

	items, total, err := s.svc.ListDocuments(ctx, limit, 0, after, index.SortPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if total == 0 {
		return mcp.NewToolResultText("no documents indexed"), nil
	}
	return jsonResult(items), nil
}

func (s *Server) searchClauses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SearchClauses(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("no clauses found"), nil
	}
	return jsonResult(hits), nil
}

func (s *Server) getOutputSchema(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(OutputSchema), nil
}

func (s *Server) readOutputSchemaResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      outputSchemaURI,
			MIMEType: "application/schema+json",
			Text:     OutputSchema,
		},
	}, nil
}
