// Package templater fills {{token}} placeholders in template text and
// composes the page, archive and single-document templates.
package templater

import (
	"sort"
	"strings"
)

// Vars maps token names (without braces) to replacement text.
type Vars map[string]string

// Token returns the placeholder form of name.
func Token(name string) string {
	return "{{" + name + "}}"
}

// Render replaces every {{name}} in tpl whose name is in vars. Replacement
// happens in one pass, so substituted text is never scanned for tokens.
// Unknown tokens are left as they are.
func Render(tpl string, vars Vars) string {
	if len(vars) == 0 {
		return tpl
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, Token(name), vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// Merge returns a new Vars holding all entries of sets; later sets win.
func Merge(sets ...Vars) Vars {
	out := Vars{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
