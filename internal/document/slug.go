package document

import "strings"

// Slugify keeps ASCII letters, digits, spaces and hyphens, turns spaces into
// hyphens, trims hyphens at both ends and lowercases the result.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for i := 0; i < len(title); i++ {
		c := title[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('-')
		}
	}
	return strings.ToLower(strings.Trim(b.String(), "-"))
}

// DeriveSlug returns the slug for title, falling back to dateISO when the
// title is empty or has no URL-safe characters.
func DeriveSlug(title, dateISO string) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return dateISO
}
