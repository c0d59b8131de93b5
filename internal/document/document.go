// Package document derives a document's canonical identity (title, slug,
// date, URL and output location) from a source file.
package document

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/starford/annal/internal/apperr"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/pathutil"
)

// Date layouts used for the formatted projections of a document's date.
const (
	LayoutISO       = time.DateOnly
	LayoutHuman     = "Monday, 02 January 2006"
	LayoutTimestamp = "2006-01-02T15:04:05Z"
)

// Source is a classified file ready to become a document.
type Source struct {
	Path      string
	Name      string
	Extension string
	ModTime   time.Time
	Contents  []byte
}

// Options carries the configuration needed to place a document.
type Options struct {
	OutputDir string
}

// New builds the document for src. Contents must be valid UTF-8.
func New(src Source, opts Options) (*models.Document, error) {
	if !utf8.Valid(src.Contents) {
		return nil, fmt.Errorf("document: %s: %w", src.Path, apperr.ErrMalformedContent)
	}

	stem := ParseStem(strings.TrimSuffix(src.Name, src.Extension))
	dt := ResolveDateTime(stem, src.ModTime)

	dateISO := dt.Format(LayoutISO)
	year := dt.Format("2006")
	month := dt.Format("01")
	slug := DeriveSlug(stem.Title, dateISO)
	raw := string(src.Contents)

	outputDir := pathutil.MustJoin(opts.OutputDir, year, month)

	return &models.Document{
		SourcePath:       src.Path,
		Extension:        src.Extension,
		Title:            stem.Title,
		Slug:             slug,
		RawContents:      raw,
		RenderedContents: RenderContents(raw, src.Extension),
		DateTime:         dt,
		DateISO:          dateISO,
		DateHuman:        dt.Format(LayoutHuman),
		Year:             year,
		Month:            month,
		YearMonth:        year + "/" + month,
		URL:              URL(year, month, slug),
		OutputDir:        outputDir,
		OutputFile:       pathutil.MustJoin(outputDir, slug+".html"),
	}, nil
}

// URL returns the canonical absolute path of a document.
func URL(year, month, slug string) string {
	return "/" + year + "/" + month + "/" + slug + ".html"
}
