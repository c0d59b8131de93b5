package preview

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/annal/internal/apperr"
	"github.com/starford/annal/internal/catalog"
	"github.com/starford/annal/internal/docservice"
)

// MaxLimit caps the page size of list and search requests.
const MaxLimit = 200

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// documentURL extracts the document URL from the request path (everything
// after /api/documents). Encoded slashes are accepted.
func documentURL(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "/" + raw
	}
	return "/" + strings.TrimPrefix(decoded, "/")
}

func pageParams(r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	var err error
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return 0, 0, false
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, false
		}
	}
	if limit == 0 {
		limit = catalog.DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, offset, true
}

// ListDocuments handles GET /api/documents?year=&limit=&offset=.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("limit and offset must be non-negative integers"))
		return
	}
	year := r.URL.Query().Get("year")

	items, total, err := h.svc.ListDocuments(r.Context(), year, limit, offset)
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{
		Documents: items,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

// GetDocument handles GET /api/documents/{year}/{month}/{slug}.html.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	u := documentURL(r)
	if u == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document url is required"))
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), u)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get document failed", slog.String("url", u), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Years handles GET /api/years.
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.Years(r.Context())
	if err != nil {
		slog.Error("years failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, YearsResponse{Years: years})
}

// Search handles GET /api/search?q=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _, ok := pageParams(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("limit must be a non-negative integer"))
		return
	}
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Build handles GET /api/build and reports the latest generation run.
func (h *Handler) Build(w http.ResponseWriter, _ *http.Request) {
	status, ok := h.svc.LastBuild()
	if !ok {
		writeJSON(w, http.StatusOK, BuildResponse{})
		return
	}
	writeJSON(w, http.StatusOK, BuildResponse{Built: true, Status: &status})
}
