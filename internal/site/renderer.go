// Package site renders a sorted document collection into the output tree:
// folders, home and yearly indexes, document pages, assets and the feed.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/starford/annal/internal/feed"
	"github.com/starford/annal/internal/group"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/parser"
	"github.com/starford/annal/internal/storage"
	"github.com/starford/annal/internal/templater"
)

// Output file names at the root of the tree and of every year folder.
const (
	IndexFile = "index.html"
	FeedFile  = "rss.xml"
)

// DefaultHomeTitle titles the home index when the site has no title.
const DefaultHomeTitle = "Home"

// Options controls rendering.
type Options struct {
	// Overwrite re-renders document pages that already exist.
	Overwrite bool
	Site      models.Site
	// RecentPosts is the number of documents passed to the recent-post template.
	RecentPosts int
}

// Report summarizes one render.
type Report struct {
	Documents     int            `json:"documents"`
	Folders       int            `json:"folders"`
	PagesWritten  int            `json:"pages_written"`
	PagesSkipped  int            `json:"pages_skipped"`
	AssetsCopied  int            `json:"assets_copied"`
	AssetsSkipped int            `json:"assets_skipped"`
	Years         map[string]int `json:"years"`
}

// Renderer writes a site into a storage provider.
type Renderer struct {
	store  storage.Provider
	tpl    *templater.Set
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a Renderer writing into store with the given templates.
func NewRenderer(store storage.Provider, tpl *templater.Set, opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{store: store, tpl: tpl, opts: opts, logger: logger}
}

// Render runs every output phase over docs, which must already be sorted
// newest first. The first failing phase aborts the render.
func (r *Renderer) Render(ctx context.Context, docs []*models.Document) (*Report, error) {
	rep := &Report{Documents: len(docs), Years: map[string]int{}}
	buckets := group.ByYear(docs)
	for y, b := range buckets {
		rep.Years[y] = len(b)
	}

	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{"directories", func(context.Context) error { return r.createDirectories(docs, rep) }},
		{"home", func(context.Context) error { return r.renderHome(docs) }},
		{"years", func(ctx context.Context) error { return r.renderYears(ctx, buckets) }},
		{"pages", func(ctx context.Context) error { return r.renderPages(ctx, docs, rep) }},
		{"assets", func(ctx context.Context) error { return r.copyAssets(ctx, docs, rep) }},
		{"feed", func(context.Context) error { return r.writeFeed(docs) }},
	}
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := p.run(ctx); err != nil {
			return nil, fmt.Errorf("site: %s: %w", p.name, err)
		}
		r.logger.Debug("site: phase done", slog.String("phase", p.name), slog.Duration("took", time.Since(start)))
	}
	return rep, nil
}

func (r *Renderer) createDirectories(docs []*models.Document, rep *Report) error {
	if err := r.store.MkdirAll(""); err != nil {
		return err
	}
	folders := group.UniqueFolders(docs)
	for _, f := range folders {
		if err := r.store.MkdirAll(filepath.FromSlash(f)); err != nil {
			return err
		}
	}
	rep.Folders = len(folders)
	return nil
}

func (r *Renderer) recentPosts(docs []*models.Document) string {
	n := r.opts.RecentPosts
	if n <= 0 {
		return ""
	}
	if n > len(docs) {
		n = len(docs)
	}
	return r.tpl.RecentPosts(docs[:n])
}

func (r *Renderer) renderIndex(title, year string, docs, all []*models.Document) []byte {
	page := r.tpl.Page(templater.Page{
		Title:       title,
		Content:     r.tpl.ArchiveList(title, docs),
		Year:        year,
		RecentPosts: r.recentPosts(all),
		Site:        r.opts.Site,
	})
	return []byte(page)
}

func (r *Renderer) renderHome(docs []*models.Document) error {
	title := r.opts.Site.Title
	if title == "" {
		title = DefaultHomeTitle
	}
	year := strconv.Itoa(time.Now().UTC().Year())
	if len(docs) > 0 {
		year = docs[0].Year
	}
	return r.store.Write(IndexFile, r.renderIndex(title, year, docs, docs))
}

func (r *Renderer) renderYears(ctx context.Context, buckets map[string][]*models.Document) error {
	var all []*models.Document
	for _, y := range group.Years(buckets) {
		all = append(all, buckets[y]...)
	}
	for _, y := range group.Years(buckets) {
		if err := ctx.Err(); err != nil {
			return err
		}
		title := "Posts from " + y
		if err := r.store.Write(filepath.Join(y, IndexFile), r.renderIndex(title, y, buckets[y], all)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderPages(ctx context.Context, docs []*models.Document, rep *Report) error {
	recent := r.recentPosts(docs)
	claimed := make(map[string]string, len(docs))

	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := r.store.Rel(d.OutputFile)
		if err != nil {
			return err
		}
		if prev, ok := claimed[rel]; ok {
			r.logger.Debug("site: output shared by several documents",
				slog.String("output", rel), slog.String("first", prev), slog.String("source", d.SourcePath))
		}
		claimed[rel] = d.SourcePath

		page := []byte(r.tpl.Page(templater.Page{
			Title:       d.DisplayTitle(),
			Content:     r.tpl.Document(d),
			Year:        d.Year,
			RecentPosts: recent,
			Site:        r.opts.Site,
			Document:    d,
		}))

		if r.opts.Overwrite {
			if err := r.store.Write(rel, page); err != nil {
				return err
			}
			rep.PagesWritten++
			continue
		}
		written, err := r.store.Create(rel, page)
		if err != nil {
			return err
		}
		if !written {
			rep.PagesSkipped++
			r.logger.Debug("site: page exists", slog.String("output", rel))
			continue
		}
		rep.PagesWritten++
	}
	return nil
}

// copyAssets copies every "./name" reference next to the document's page.
// Existing destinations are kept even when Overwrite is set.
func (r *Renderer) copyAssets(ctx context.Context, docs []*models.Document, rep *Report) error {
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		monthDir := filepath.Join(d.Year, d.Month)
		for _, name := range parser.ExtractAssets(d.RenderedContents) {
			dst := filepath.Join(monthDir, filepath.FromSlash(name))
			if !strings.HasPrefix(dst, monthDir+string(os.PathSeparator)) {
				r.logger.Warn("site: asset outside month folder",
					slog.String("asset", name), slog.String("source", d.SourcePath))
				rep.AssetsSkipped++
				continue
			}
			exists, err := r.store.Exists(dst)
			if err != nil {
				return err
			}
			if exists {
				rep.AssetsSkipped++
				continue
			}
			src := filepath.Join(filepath.Dir(d.SourcePath), filepath.FromSlash(name))
			copied, err := r.store.CopyFrom(src, dst)
			if err != nil {
				return err
			}
			if copied {
				rep.AssetsCopied++
			} else {
				rep.AssetsSkipped++
			}
		}
	}
	return nil
}

func (r *Renderer) writeFeed(docs []*models.Document) error {
	out, err := feed.New(r.opts.Site, docs).Marshal()
	if err != nil {
		return err
	}
	return r.store.Write(FeedFile, out)
}
