package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/annal/internal/apperr"
	"github.com/starford/annal/internal/document"
	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/parser"
)

// SummaryLength is the number of characters stored as a document summary.
const SummaryLength = 200

// Entry is one catalogued document.
type Entry struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	DateTime   time.Time `json:"date_time"`
	Year       string    `json:"year"`
	Month      string    `json:"month"`
	SourcePath string    `json:"source_path"`
	OutputFile string    `json:"output_file"`
	Summary    string    `json:"summary"`
	// Body is only filled by Get.
	Body string `json:"body,omitempty"`
}

// ListQuery filters and pages List. Zero Limit means DefaultLimit.
type ListQuery struct {
	Year   string
	Limit  int
	Offset int
}

// DefaultLimit caps List and Search when no limit is given.
const DefaultLimit = 20

// YearCount is the number of documents in one year.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Replace swaps the whole catalog for docs in one transaction. docs are
// expected newest first with one document per URL; if several share a URL
// the first one is kept.
func (db *DB) Replace(docs []*models.Document) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("catalog: clear: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO documents
			(url, title, slug, date_time, year, month, source_path, output_file, summary, body, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		res, err := stmt.Exec(d.URL, d.DisplayTitle(), d.Slug, d.DateTime.UTC().Format(document.LayoutTimestamp),
			d.Year, d.Month, d.SourcePath, d.OutputFile,
			parser.Summary(d.RawContents, SummaryLength), d.RawContents, i)
		if err != nil {
			return fmt.Errorf("catalog: insert %s: %w", d.URL, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		if err := ftsInsert(tx, d.URL, d.DisplayTitle(), d.RawContents); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const entryColumns = `url, title, slug, date_time, year, month, source_path, output_file, summary`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner, extra ...any) (Entry, error) {
	var e Entry
	var dt string
	dest := append([]any{&e.URL, &e.Title, &e.Slug, &dt, &e.Year, &e.Month, &e.SourcePath, &e.OutputFile, &e.Summary}, extra...)
	if err := s.Scan(dest...); err != nil {
		return e, err
	}
	t, err := time.Parse(document.LayoutTimestamp, dt)
	if err != nil {
		return e, fmt.Errorf("catalog: parse date %q: %w", dt, err)
	}
	e.DateTime = t
	return e, nil
}

// List returns catalogued documents newest first, optionally restricted to
// one year, together with the total number of matching documents.
func (db *DB) List(q ListQuery) ([]Entry, int, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	where, args := "", []any{}
	if q.Year != "" {
		where = "WHERE year = ?"
		args = append(args, q.Year)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+entryColumns+` FROM documents `+where+`
		ORDER BY date_time DESC, position ASC
		LIMIT ? OFFSET ?`, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// Get returns the document published at url, including its raw body.
func (db *DB) Get(url string) (*Entry, error) {
	row := db.conn.QueryRow(`SELECT `+entryColumns+`, body FROM documents WHERE url = ?`, url)
	var body string
	e, err := scanEntry(row, &body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("catalog: %s: %w", url, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("catalog: get: %w", err)
	}
	e.Body = body
	return &e, nil
}

// Years returns the document count per year, newest year first.
func (db *DB) Years() ([]YearCount, error) {
	rows, err := db.conn.Query(`SELECT year, count(*) FROM documents GROUP BY year ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: years: %w", err)
	}
	defer rows.Close()

	out := []YearCount{}
	for rows.Next() {
		var y YearCount
		if err := rows.Scan(&y.Year, &y.Count); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}
