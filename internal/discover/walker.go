// Package discover finds public directories under a data root and loads the
// documents they contain.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PublicDirs returns every directory below root whose name ends with marker.
// Matched directories are not searched further; non-matching directories are
// searched recursively. Any unreadable directory aborts the walk.
func PublicDirs(root, marker string) ([]string, error) {
	var out []string
	if err := walk(root, marker, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(dir, marker string, out *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("discover: read dir %s: %w", dir, err)
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		isDir, err := isDirectory(p, e)
		if err != nil {
			return err
		}
		if !isDir {
			continue
		}
		if strings.HasSuffix(e.Name(), marker) {
			*out = append(*out, p)
			continue
		}
		if err := walk(p, marker, out); err != nil {
			return err
		}
	}
	return nil
}

// isDirectory follows symlinks so linked archives are discovered too.
func isDirectory(p string, e os.DirEntry) (bool, error) {
	if e.Type()&os.ModeSymlink == 0 {
		return e.IsDir(), nil
	}
	info, err := os.Stat(p)
	if err != nil {
		// Dangling links are not directories.
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("discover: stat %s: %w", p, err)
	}
	return info.IsDir(), nil
}
