package discover

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/annal/internal/document"
	"github.com/starford/annal/internal/models"
)

// Loader builds documents from the direct children of a public directory.
type Loader struct {
	extensions []string
	outputDir  string
	logger     *slog.Logger
}

// NewLoader creates a Loader for the given allowed extensions (without the
// leading dot, in match order) and output root.
func NewLoader(extensions []string, outputDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{extensions: extensions, outputDir: outputDir, logger: logger}
}

// Load returns the documents in dir in directory enumeration order. Drafts,
// unsupported extensions, subdirectories and entries whose metadata cannot
// be read are skipped. Read failures and undecodable contents are errors.
func (l *Loader) Load(dir string) ([]*models.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover: read dir %s: %w", dir, err)
	}

	var out []*models.Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext, ok := document.Classify(name, l.extensions)
		if !ok {
			l.logger.Debug("discover: skipped", slog.String("file", name), slog.String("dir", dir))
			continue
		}
		path := filepath.Join(dir, name)
		// Stat follows symlinks so a linked file is dated by its target.
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Debug("discover: unreadable entry", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		if info.IsDir() {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("discover: read %s: %w", path, err)
		}

		doc, err := document.New(document.Source{
			Path:      path,
			Name:      name,
			Extension: ext,
			ModTime:   info.ModTime(),
			Contents:  data,
		}, document.Options{OutputDir: l.outputDir})
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// LoadAll loads every directory in dirs and flattens the result, keeping
// the order of dirs.
func (l *Loader) LoadAll(dirs []string) ([]*models.Document, error) {
	var out []*models.Document
	for _, dir := range dirs {
		docs, err := l.Load(dir)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("discover: loaded dir", slog.String("dir", dir), slog.Int("documents", len(docs)))
		out = append(out, docs...)
	}
	return out, nil
}
