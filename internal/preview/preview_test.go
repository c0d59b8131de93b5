package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/annal/internal/docservice"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/site"
	"github.com/starford/annal/internal/testutil"
)

// testEnv generates a small archive, syncs it into a temp catalog and
// returns the API router. A non-empty authToken enables token mode.
func testEnv(t *testing.T, authToken string) (*docservice.Service, http.Handler) {
	t.Helper()
	return testEnvWithSSE(t, authToken != "", authToken, nil)
}

func testEnvWithSSE(t *testing.T, authEnabled bool, token string, sseHandler http.Handler) (*docservice.Service, http.Handler) {
	t.Helper()
	base := t.TempDir()
	data := filepath.Join(base, "data")
	mod := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	testutil.WriteFile(t, data, "public_archive/2024-03-01 Hello World.md", "hello uniquetoken", mod)
	testutil.WriteFile(t, data, "public_archive/2023-07-04 Fireworks.txt", "bang", mod)
	testutil.WriteFile(t, data, "public_archive/2023-01-15 Older.html", "<p>cold</p>", mod)

	gen := site.NewGenerator(site.Config{
		DataDir:     data,
		PublicDir:   "public_archive",
		Extensions:  []string{"html", "md", "txt"},
		OutputDir:   filepath.Join(base, "output"),
		TemplateDir: testutil.Templates(t, filepath.Join(base, "template")),
		Site:        models.Site{Title: "Archive"},
		RecentPosts: 3,
	}, nil)

	svc := docservice.NewService(gen, testutil.TestCatalog(t), models.Site{Title: "Archive"}, nil)
	_, err := svc.Build(context.Background())
	require.NoError(t, err)
	return svc, NewRouter(svc, authEnabled, token, sseHandler)
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestListDocuments(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/documents?limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	var resp DocumentListResponse
	decode(t, w, &resp)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Documents, 3)
	assert.Equal(t, "/2024/03/hello-world.html", resp.Documents[0].URL, "newest document first")
}

func TestListDocuments_YearAndPaging(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/documents?year=2023&limit=1&offset=1")
	var resp DocumentListResponse
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "Older", resp.Documents[0].Title)
}

func TestListDocuments_BadLimit(t *testing.T) {
	_, router := testEnv(t, "")

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/documents?limit=abc").Code, "bad limit")
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/documents?offset=-1").Code, "negative offset")
}

func TestGetDocument(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/documents/2023/07/fireworks.html")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var doc docservice.DocumentDetail
	decode(t, w, &doc)
	assert.Equal(t, "Fireworks", doc.Title)
	assert.Equal(t, "bang", doc.Content)
}

func TestGetDocument_EncodedSlashes(t *testing.T) {
	_, router := testEnv(t, "")

	assert.Equal(t, http.StatusOK, get(t, router, "/documents/2023%2F07%2Ffireworks.html").Code)
}

func TestGetDocument_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	assert.Equal(t, http.StatusNotFound, get(t, router, "/documents/2023/07/nope.html").Code)
}

func TestYearsEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	var resp YearsResponse
	decode(t, get(t, router, "/years"), &resp)
	require.Len(t, resp.Years, 2)
	assert.Equal(t, "2024", resp.Years[0].Year)
	assert.Equal(t, 2, resp.Years[1].Count)
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := get(t, router, "/search?q=uniquetoken")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SearchResponse
	decode(t, w, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "/2024/03/hello-world.html", resp.Results[0].URL)
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, "")

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/search").Code)
}

func TestBuildEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	var resp BuildResponse
	decode(t, get(t, router, "/build"), &resp)
	assert.True(t, resp.Built)
	require.NotNil(t, resp.Status)
	assert.Equal(t, 3, resp.Status.Documents)
	assert.NotEmpty(t, resp.Status.RunID)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	assert.Equal(t, http.StatusUnauthorized, get(t, router, "/documents").Code)
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// blockingSSE writes stream headers and blocks until the client goes away.
var blockingSSE = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	<-r.Context().Done()
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router := testEnvWithSSE(t, true, "secret", blockingSSE)

	assert.Equal(t, http.StatusUnauthorized, get(t, router, "/events").Code)
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router := testEnvWithSSE(t, true, "tok", blockingSSE)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
