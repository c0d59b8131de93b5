// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the published archive to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/annal/internal/apperr"
	"github.com/starford/annal/internal/catalog"
	"github.com/starford/annal/internal/docservice"
)

// Resource URIs.
const (
	SiteURI        = "annal://site"
	ConventionsURI = "annal://conventions"
)

// Server wraps the MCP server with archive tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all archive tools registered.
func New(svc *docservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Annal",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List published documents, newest first, optionally for one year."),
		mcp.WithString("year", mcp.Description("Four-digit year to filter by (empty for all)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents (default 20)")),
		mcp.WithNumber("offset", mcp.Description("Number of documents to skip")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through published document titles and contents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the source contents and metadata of a published document."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Document URL (e.g. /2024/03/hello-world.html)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("get_source_conventions",
		mcp.WithDescription("Returns the file naming and placement rules that decide what gets published."),
	), s.getSourceConventions)

	s.mcp.AddResource(
		mcp.NewResource(SiteURI, "Site",
			mcp.WithResourceDescription("Site metadata, yearly document counts and the latest build."),
			mcp.WithMIMEType("application/json"),
		),
		s.readSiteResource,
	)
	s.mcp.AddResource(
		mcp.NewResource(ConventionsURI, "Source Conventions",
			mcp.WithResourceDescription("How source files are named and placed to be published."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readConventionsResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year := req.GetString("year", "")
	limit := req.GetInt("limit", catalog.DefaultLimit)
	offset := req.GetInt("offset", 0)
	if limit < 0 || offset < 0 {
		return mcp.NewToolResultError("limit and offset must be non-negative"), nil
	}

	items, total, err := s.svc.ListDocuments(ctx, year, limit, offset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"documents": items,
		"total":     total,
	})
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", catalog.DefaultLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, url)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", url)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (s *Server) getSourceConventions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ArchiveConventions), nil
}

type siteSummary struct {
	Title       string                  `json:"title"`
	URL         string                  `json:"url"`
	Description string                  `json:"description"`
	Years       []catalog.YearCount     `json:"years"`
	LastBuild   *docservice.BuildStatus `json:"last_build,omitempty"`
}

func (s *Server) readSiteResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	years, err := s.svc.Years(ctx)
	if err != nil {
		return nil, err
	}
	site := s.svc.Site()
	summary := siteSummary{
		Title:       site.Title,
		URL:         site.URL,
		Description: site.Description,
		Years:       years,
	}
	if status, ok := s.svc.LastBuild(); ok {
		summary.LastBuild = &status
	}
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SiteURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func (s *Server) readConventionsResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ConventionsURI,
			MIMEType: "text/markdown",
			Text:     ArchiveConventions,
		},
	}, nil
}
