package templater

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/annal/internal/apperr"
	"github.com/starford/annal/internal/document"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/parser"
)

// Template file names inside the template directory.
const (
	ShellFile       = "template.html"
	ArchiveFile     = "archive.html"
	SingleFile      = "single.html"
	RecentPostFile  = "recent-post.html"
	ArchiveItemFile = "archive-item.html"
)

// DefaultArchiveItem renders one archive list entry when no archive-item
// template is provided.
const DefaultArchiveItem = `<li><span>{{dateisoshort}}</span><a href='{{url}}'>{{title}}</a></li>`

// SummaryLength is the number of characters kept in {{summary}}.
const SummaryLength = 160

// Set holds the template texts used to render a site.
type Set struct {
	Shell       string
	Archive     string
	Single      string
	RecentPost  string
	ArchiveItem string
}

// LoadSet reads the templates in dir. The shell, archive and single
// templates are required; a missing recent-post template contributes
// nothing and a missing archive-item template uses DefaultArchiveItem.
func LoadSet(dir string) (*Set, error) {
	s := &Set{}
	required := []struct {
		name string
		dst  *string
	}{
		{ShellFile, &s.Shell},
		{ArchiveFile, &s.Archive},
		{SingleFile, &s.Single},
	}
	for _, r := range required {
		text, ok, err := readOptional(filepath.Join(dir, r.name))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("templater: %s: %w", filepath.Join(dir, r.name), apperr.ErrTemplateMissing)
		}
		*r.dst = text
	}

	var err error
	if s.RecentPost, _, err = readOptional(filepath.Join(dir, RecentPostFile)); err != nil {
		return nil, err
	}
	item, ok, err := readOptional(filepath.Join(dir, ArchiveItemFile))
	if err != nil {
		return nil, err
	}
	if !ok {
		item = DefaultArchiveItem
	}
	s.ArchiveItem = item
	return s, nil
}

func readOptional(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("templater: read %s: %w", path, err)
	}
	return string(data), true, nil
}

// DocumentVars returns the tokens describing d.
func DocumentVars(d *models.Document) Vars {
	return Vars{
		"title":        d.DisplayTitle(),
		"content":      d.RenderedContents,
		"url":          d.URL,
		"summary":      parser.Summary(d.RawContents, SummaryLength),
		"dateiso":      d.DateTime.Format(document.LayoutTimestamp),
		"datehuman":    d.DateHuman,
		"dateisoshort": d.DateISO,
		"dateyear":     d.Year,
	}
}

// SiteVars returns the tokens describing the site.
func SiteVars(site models.Site) Vars {
	return Vars{
		"site-title":       site.Title,
		"site-description": site.Description,
		"site-url":         site.URL,
	}
}

// Document renders the single-document template for d.
func (s *Set) Document(d *models.Document) string {
	return Render(s.Single, DocumentVars(d))
}

// ArchiveItems renders one archive item per document and joins them.
func (s *Set) ArchiveItems(docs []*models.Document) string {
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(Render(s.ArchiveItem, DocumentVars(d)))
	}
	return b.String()
}

// ArchiveList renders the archive template titled title listing docs.
func (s *Set) ArchiveList(title string, docs []*models.Document) string {
	items := s.ArchiveItems(docs)
	return Render(s.Archive, Vars{
		"title":        title,
		"content":      "<ul>" + items + "</ul>",
		"archive-item": items,
	})
}

// RecentPosts renders the recent-post template for each of docs. It is
// empty when no recent-post template exists.
func (s *Set) RecentPosts(docs []*models.Document) string {
	if s.RecentPost == "" {
		return ""
	}
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(Render(s.RecentPost, DocumentVars(d)))
	}
	return b.String()
}

// Page describes one page rendered through the site shell.
type Page struct {
	Title       string
	Content     string
	Year        string
	RecentPosts string
	Site        models.Site
	// Document is set for single-document pages and exposes its tokens to
	// the shell as well.
	Document *models.Document
}

// Page renders p through the site shell template.
func (s *Set) Page(p Page) string {
	vars := SiteVars(p.Site)
	if p.Document != nil {
		vars = Merge(vars, DocumentVars(p.Document))
	}
	vars = Merge(vars, Vars{
		"title":        p.Title,
		"content":      p.Content,
		"dateyear":     p.Year,
		"recent-posts": p.RecentPosts,
	})
	return Render(s.Shell, vars)
}
