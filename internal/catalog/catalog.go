package catalog

import "github.com/starford/annal/internal/models"

// Catalog defines the operations the preview API and MCP tools rely on.
// Consumers should depend on this interface rather than the concrete *DB.
type Catalog interface {
	Replace(docs []*models.Document) error
	List(q ListQuery) ([]Entry, int, error)
	Get(url string) (*Entry, error)
	Years() ([]YearCount, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
