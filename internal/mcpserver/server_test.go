package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/annal/internal/docservice"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/site"
	"github.com/starford/annal/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	base := t.TempDir()
	data := filepath.Join(base, "data")
	mod := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	testutil.WriteFile(t, data, "public_archive/2024-03-01 Hello World.md", "hello uniquetoken", mod)
	testutil.WriteFile(t, data, "public_archive/2023-07-04 Fireworks.txt", "bang", mod)

	siteInfo := models.Site{Title: "Archive", URL: "https://example.com"}
	gen := site.NewGenerator(site.Config{
		DataDir:     data,
		PublicDir:   "public_archive",
		Extensions:  []string{"md", "txt"},
		OutputDir:   filepath.Join(base, "output"),
		TemplateDir: testutil.Templates(t, filepath.Join(base, "template")),
		Site:        siteInfo,
	}, nil)

	svc := docservice.NewService(gen, testutil.TestCatalog(t), siteInfo, nil)
	_, err := svc.Build(context.Background())
	require.NoError(t, err)
	return New(svc, "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handlers are
	// invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "search_documents":
		result, err = srv.searchDocuments(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "get_source_conventions":
		result, err = srv.getSourceConventions(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	require.NoError(t, err, "tool %s", name)
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

func TestListDocuments(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_documents", map[string]interface{}{})
	var resp struct {
		Documents []docservice.DocumentItem `json:"documents"`
		Total     int                       `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &resp), resultText(r))
	assert.Equal(t, 2, resp.Total)
	require.NotEmpty(t, resp.Documents)
	assert.Equal(t, "/2024/03/hello-world.html", resp.Documents[0].URL)
}

func TestListDocuments_Year(t *testing.T) {
	srv := testServer(t)

	text := resultText(callTool(t, srv, "list_documents", map[string]interface{}{"year": "2023", "limit": 5}))
	assert.Contains(t, text, "/2023/07/fireworks.html")
	assert.NotContains(t, text, "hello-world")
}

func TestListDocuments_NegativeLimit(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_documents", map[string]interface{}{"limit": -1})
	assert.True(t, r.IsError, "negative limit")
}

func TestSearchDocuments(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_documents", map[string]interface{}{"query": "uniquetoken"})
	assert.Contains(t, resultText(r), "/2024/03/hello-world.html")
}

func TestSearchDocuments_MissingQuery(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_documents", map[string]interface{}{})
	assert.True(t, r.IsError, "missing query")
}

func TestReadDocument(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_document", map[string]interface{}{"url": "/2023/07/fireworks.html"})
	var doc docservice.DocumentDetail
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &doc))
	assert.Equal(t, "bang", doc.Content)
	assert.Equal(t, "Fireworks", doc.Title)
}

func TestReadDocumentMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_document", map[string]interface{}{"url": "/2023/07/nope.html"})
	assert.True(t, r.IsError, "missing document")
}

func TestSourceConventions(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_source_conventions", nil)
	assert.Contains(t, resultText(r), "DRAFT", "conventions should mention drafts")
}

func TestSiteResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readSiteResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, contents)
	text := contents[0].(mcp.TextResourceContents).Text

	var summary siteSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Equal(t, "Archive", summary.Title)
	assert.Len(t, summary.Years, 2)
	assert.NotNil(t, summary.LastBuild)
}
