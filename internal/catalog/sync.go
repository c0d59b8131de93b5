package catalog

import (
	"log/slog"

	"github.com/starford/annal/internal/models"
)

// Sync replaces the catalog with the collection of a successful run.
func Sync(c Catalog, docs []*models.Document, logger *slog.Logger) error {
	if err := c.Replace(docs); err != nil {
		return err
	}
	years, err := c.Years()
	if err != nil {
		return err
	}
	logger.Info("Catalog synced", slog.Int("documents", len(docs)), slog.Int("years", len(years)))
	return nil
}
