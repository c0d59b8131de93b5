package mcpserver

// ArchiveConventions describes how source files must be named and placed to
// be published, for LLM consumers that prepare content for the archive.
const ArchiveConventions = `# Annal Source Conventions

Only files inside a directory whose name ends with the public marker
(default ` + "`public_archive`" + `) are published. Subdirectories of a public
directory are ignored; public directories may sit at any depth below the
data root.

## File names

` + "```" + `
2024-03-01 Hello World.md     dated: published on 2024-03-01 as /2024/03/hello-world.html
notes.txt                     undated: the modification time is the date
DRAFT-ideas.md                never published
` + "```" + `

1. A name starting with a ` + "`YYYY-MM-DD`" + ` date takes that date; the time of
   day comes from the file's modification time. Everything after the date is
   the title.
2. The slug keeps ASCII letters, digits and hyphens of the title; spaces
   become hyphens. A title without such characters uses the date as slug.
3. Allowed extensions are configured (default html, md, txt); anything else
   is skipped.
4. Names starting with ` + "`DRAFT`" + ` are never published.

## Contents

- ` + "`.html`" + ` files are published verbatim.
- Every other file is plain text: blank lines start a new paragraph, single
  newlines become line breaks. Markdown syntax is not interpreted.
- Contents must be UTF-8.

## Assets

Quoted references starting with ` + "`./`" + ` (for example
` + "`<img src=\"./cat.png\">`" + `) are copied from the source directory next to the
published page. Existing copies are never replaced.
`
