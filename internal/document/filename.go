package document

import (
	"regexp"
	"strings"
	"time"
)

// DraftPrefix marks source files that must never be published.
const DraftPrefix = "DRAFT"

var datePrefixRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(.*)$`)

// Stem is the parsed form of a filename with its extension removed.
// Dated is true only when the stem starts with a valid YYYY-MM-DD date.
type Stem struct {
	Dated bool
	Date  time.Time
	Title string
}

// Classify reports the extension a filename is published under. Drafts and
// names without an allowed extension are rejected. Extensions are tried in
// the configured order and the first suffix match wins.
func Classify(name string, extensions []string) (string, bool) {
	if strings.HasPrefix(name, DraftPrefix) {
		return "", false
	}
	for _, ext := range extensions {
		suffix := "." + ext
		if strings.HasSuffix(name, suffix) {
			return suffix, true
		}
	}
	return "", false
}

// ParseStem splits a filename stem into its optional leading date and title.
// A date-like prefix that is not a real calendar date leaves the stem undated.
func ParseStem(stem string) Stem {
	m := datePrefixRe.FindStringSubmatch(stem)
	if m != nil {
		if date, err := time.Parse(time.DateOnly, m[1]); err == nil {
			return Stem{Dated: true, Date: date, Title: strings.TrimSpace(m[2])}
		}
	}
	return Stem{Title: strings.TrimSpace(stem)}
}

// ResolveDateTime picks the document date: the filename date with the
// time-of-day of modTime when dated, otherwise modTime itself.
func ResolveDateTime(s Stem, modTime time.Time) time.Time {
	modified := NormalizeModTime(modTime)
	if !s.Dated {
		return modified
	}
	return combine(s.Date, modified)
}
