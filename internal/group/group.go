// Package group partitions documents by calendar year and derives the output
// folders they need.
package group

import (
	"sort"

	"github.com/starford/annal/internal/models"
)

// ByYear maps each year to its documents, preserving the order of docs
// inside every bucket. Years without documents never appear.
func ByYear(docs []*models.Document) map[string][]*models.Document {
	out := make(map[string][]*models.Document)
	for _, d := range docs {
		out[d.Year] = append(out[d.Year], d)
	}
	return out
}

// Years returns the keys of buckets, newest first.
func Years(buckets map[string][]*models.Document) []string {
	years := make([]string, 0, len(buckets))
	for y := range buckets {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// UniqueFolders returns every distinct "{year}" and "{year}/{month}" folder
// used by docs, each exactly once, in first-seen order.
func UniqueFolders(docs []*models.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(folder string) {
		if _, ok := seen[folder]; ok {
			return
		}
		seen[folder] = struct{}{}
		out = append(out, folder)
	}
	for _, d := range docs {
		add(d.Year)
		add(d.YearMonth)
	}
	return out
}
