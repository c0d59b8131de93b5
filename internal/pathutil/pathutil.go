// Package pathutil joins path segments into platform file paths.
package pathutil

import "path/filepath"

// Join joins segments with the platform separator. It reports false when
// no segments are given.
func Join(segments ...string) (string, bool) {
	if len(segments) == 0 {
		return "", false
	}
	return filepath.Join(segments...), true
}

// MustJoin is Join for call sites that always pass at least one segment.
func MustJoin(first string, rest ...string) string {
	p, _ := Join(append([]string{first}, rest...)...)
	return p
}
