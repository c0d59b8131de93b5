// Package parser extracts local asset references and plain-text summaries
// from document contents.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ellipsis marks a truncated summary.
const Ellipsis = "..."

var assetRe = regexp.MustCompile(`"\./([^"]+)"`)

// ExtractAssets returns deduplicated relative asset names referenced as
// quoted strings starting with "./", in order of first appearance.
func ExtractAssets(contents string) []string {
	matches := assetRe.FindAllStringSubmatch(contents, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Summary returns the first limit characters of raw, followed by Ellipsis
// when raw is longer than that.
func Summary(raw string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(raw) <= limit {
		return raw
	}
	n := 0
	for i := range raw {
		if n == limit {
			return raw[:i] + Ellipsis
		}
		n++
	}
	return raw
}
