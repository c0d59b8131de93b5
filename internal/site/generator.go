package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/starford/annal/internal/discover"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/storage"
	"github.com/starford/annal/internal/templater"
)

// Config is everything one generation run needs.
type Config struct {
	DataDir     string
	PublicDir   string
	Extensions  []string
	OutputDir   string
	TemplateDir string
	Overwrite   bool
	Site        models.Site
	RecentPosts int
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	Documents []*models.Document
	Report    *Report
	Duration  time.Duration

	overwrite bool
}

// Published returns one document per URL in collection order: the one whose
// page the run leaves on disk. With overwrite the last document sharing a
// URL wins, otherwise the first one does.
func (r *Result) Published() []*models.Document {
	owner := make(map[string]int, len(r.Documents))
	for i, d := range r.Documents {
		if _, ok := owner[d.URL]; ok && !r.overwrite {
			continue
		}
		owner[d.URL] = i
	}
	out := make([]*models.Document, 0, len(owner))
	for i, d := range r.Documents {
		if owner[d.URL] == i {
			out = append(out, d)
		}
	}
	return out
}

// RunError is returned by Run when a generation fails. It carries the run id
// the failed run logged under.
type RunError struct {
	RunID string
	Err   error
}

func (e *RunError) Error() string { return e.Err.Error() }

func (e *RunError) Unwrap() error { return e.Err }

// RunID returns the id of the run that produced err, if any.
func RunID(err error) string {
	var re *RunError
	if errors.As(err, &re) {
		return re.RunID
	}
	return ""
}

// Generator runs the full pipeline: discover public directories, load and
// sort documents, then render them.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// NewGenerator creates a Generator for cfg.
func NewGenerator(cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Run performs one generation. Any error aborts the run and is returned as
// a *RunError.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	res, err := g.run(ctx, runID)
	if err != nil {
		return nil, &RunError{RunID: runID, Err: err}
	}
	return res, nil
}

func (g *Generator) run(ctx context.Context, runID string) (*Result, error) {
	start := time.Now()
	logger := g.logger.With(slog.String("run_id", runID))

	dirs, err := discover.PublicDirs(g.cfg.DataDir, g.cfg.PublicDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Public directories discovered", slog.Int("count", len(dirs)))

	docs, err := discover.NewLoader(g.cfg.Extensions, g.cfg.OutputDir, logger).LoadAll(dirs)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(docs)
	logger.Info("Documents loaded", slog.Int("count", len(docs)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tpl, err := templater.LoadSet(g.cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	store, err := storage.Ensure(g.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	renderer := NewRenderer(store, tpl, Options{
		Overwrite:   g.cfg.Overwrite,
		Site:        g.cfg.Site,
		RecentPosts: g.cfg.RecentPosts,
	}, logger)
	rep, err := renderer.Render(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	res := &Result{RunID: runID, Documents: docs, Report: rep, Duration: time.Since(start), overwrite: g.cfg.Overwrite}
	logger.Info("Site generated",
		slog.String("output", store.Root()),
		slog.Int("documents", rep.Documents),
		slog.Int("pages_written", rep.PagesWritten),
		slog.Int("pages_skipped", rep.PagesSkipped),
		slog.Int("assets_copied", rep.AssetsCopied),
		slog.Duration("took", res.Duration))
	return res, nil
}

// SortNewestFirst orders docs by date descending. Equal dates keep their
// discovery order.
func SortNewestFirst(docs []*models.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].DateTime.After(docs[j].DateTime)
	})
}
