// Package testutil provides shared test helpers for source trees and catalogs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starford/annal/internal/catalog"
)

// TestCatalog creates a temporary SQLite catalog that is automatically cleaned up.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "annal-test-*.db")
	require.NoError(t, err)
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// WriteFile writes contents to root/rel, creating parent directories, and
// sets its modification time to mod unless mod is zero.
func WriteFile(t *testing.T, root, rel, contents string, mod time.Time) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	if !mod.IsZero() {
		require.NoError(t, os.Chtimes(p, mod, mod))
	}
	return p
}

// Templates writes a minimal template set into dir and returns dir.
func Templates(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"template.html":    `<html><head><title>{{title}} - {{site-title}}</title></head><body>{{content}}<aside>{{recent-posts}}</aside><footer>{{dateyear}}</footer></body></html>`,
		"archive.html":     `<h1>{{title}}</h1>{{content}}`,
		"single.html":      `<article><h1>{{title}}</h1><time datetime="{{dateiso}}">{{datehuman}}</time>{{content}}</article>`,
		"recent-post.html": `<a href="{{url}}">{{title}}</a>`,
	}
	for name, body := range files {
		WriteFile(t, dir, name, body, time.Time{})
	}
	return dir
}
