// Package models defines the domain types for annal.
package models

import "time"

// Document is one renderable unit derived from exactly one qualifying source file.
// It is built once by the loader and never modified afterwards.
type Document struct {
	SourcePath string `json:"source_path"`
	Extension  string `json:"extension"`

	Title            string `json:"title"`
	Slug             string `json:"slug"`
	RawContents      string `json:"-"`
	RenderedContents string `json:"-"`

	DateTime  time.Time `json:"date_time"`
	DateISO   string    `json:"date_iso"`
	DateHuman string    `json:"date_human"`
	Year      string    `json:"year"`
	Month     string    `json:"month"`
	YearMonth string    `json:"year_month"`

	URL        string `json:"url"`
	OutputDir  string `json:"output_dir"`
	OutputFile string `json:"output_file"`
}

// DisplayTitle returns the title, or the ISO date for untitled documents.
func (d *Document) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.DateISO
}

// Site is the global site metadata consumed by templates and the feed.
type Site struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
