package document

import "strings"

// HTMLExtension is published verbatim.
const HTMLExtension = ".html"

var breakReplacer = strings.NewReplacer("\n\n", "</p><p>", "\n", "<br />")

// RenderContents upgrades plain text to HTML paragraphs and line breaks.
// HTML sources are returned unchanged. Markdown syntax is not interpreted.
func RenderContents(raw, ext string) string {
	if ext == HTMLExtension {
		return raw
	}
	text := strings.ReplaceAll(raw, "\r", "")
	return "<p>" + breakReplacer.Replace(text) + "</p>"
}
