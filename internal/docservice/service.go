// Package docservice coordinates generation runs and catalog queries for the
// preview server and the MCP tools.
package docservice

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/starford/annal/internal/catalog"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/site"
)

// Builder runs one generation. *site.Generator satisfies it.
type Builder interface {
	Run(ctx context.Context) (*site.Result, error)
}

// DocumentItem is a lightweight item in a list response.
type DocumentItem struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	DateTime time.Time `json:"date_time"`
	Year     string    `json:"year"`
	Month    string    `json:"month"`
	Summary  string    `json:"summary"`
}

// DocumentDetail is the full representation of a published document.
type DocumentDetail struct {
	DocumentItem
	Slug       string `json:"slug"`
	SourcePath string `json:"source_path"`
	OutputFile string `json:"output_file"`
	Content    string `json:"content"`
}

// BuildStatus records the outcome of the latest build.
type BuildStatus struct {
	RunID     string        `json:"run_id,omitempty"`
	At        time.Time     `json:"at"`
	Documents int           `json:"documents"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// OK reports whether the build succeeded.
func (b BuildStatus) OK() bool { return b.Error == "" }

// Service coordinates the generator and the catalog.
type Service struct {
	builder Builder
	db      catalog.Catalog
	site    models.Site
	logger  *slog.Logger

	buildMu sync.Mutex

	mu      sync.RWMutex
	last    BuildStatus
	hasLast bool
}

// NewService creates a new document service.
func NewService(builder Builder, db catalog.Catalog, s models.Site, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{builder: builder, db: db, site: s, logger: logger}
}

// Site returns the site metadata.
func (s *Service) Site() models.Site { return s.site }

// Build runs the generator and, on success, replaces the catalog with the
// new collection. Concurrent calls are serialized.
func (s *Service) Build(ctx context.Context) (*site.Result, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	res, err := s.builder.Run(ctx)
	if err == nil {
		err = catalog.Sync(s.db, res.Published(), s.logger)
	}

	status := BuildStatus{At: time.Now().UTC(), Duration: time.Since(start)}
	if res != nil {
		status.RunID = res.RunID
		status.Documents = len(res.Documents)
	} else {
		status.RunID = site.RunID(err)
	}
	if err != nil {
		status.Error = err.Error()
	}
	s.mu.Lock()
	s.last, s.hasLast = status, true
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return res, nil
}

// LastBuild returns the status of the latest build, if any ran.
func (s *Service) LastBuild() (BuildStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.hasLast
}

// ListDocuments returns catalogued documents newest first.
func (s *Service) ListDocuments(_ context.Context, year string, limit, offset int) ([]DocumentItem, int, error) {
	rows, total, err := s.db.List(catalog.ListQuery{Year: year, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentItem, len(rows))
	for i, r := range rows {
		items[i] = toItem(r)
	}
	return items, total, nil
}

// GetDocument returns the document published at url. A missing leading
// slash is tolerated.
func (s *Service) GetDocument(_ context.Context, url string) (*DocumentDetail, error) {
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	e, err := s.db.Get(url)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		DocumentItem: toItem(*e),
		Slug:         e.Slug,
		SourcePath:   e.SourcePath,
		OutputFile:   e.OutputFile,
		Content:      e.Body,
	}, nil
}

// Search delegates full-text search to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Years returns document counts per year, newest first.
func (s *Service) Years(_ context.Context) ([]catalog.YearCount, error) {
	return s.db.Years()
}

func toItem(e catalog.Entry) DocumentItem {
	return DocumentItem{
		URL:      e.URL,
		Title:    e.Title,
		DateTime: e.DateTime,
		Year:     e.Year,
		Month:    e.Month,
		Summary:  e.Summary,
	}
}
