// Package storage defines the output tree abstraction the site is written to.
package storage

// Provider is the interface for output tree operations. All paths are
// relative to the output root.
type Provider interface {
	// Root returns the absolute output root.
	Root() string
	// Rel converts an absolute path inside the tree to a tree-relative one.
	Rel(path string) (string, error)
	// MkdirAll creates dir and any parents; existing directories are fine.
	MkdirAll(dir string) error
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, replacing any existing file.
	Write(path string, content []byte) error
	// Create writes content to path only if path does not exist yet. It
	// reports whether the file was written.
	Create(path string, content []byte) (bool, error)
	// CopyFrom copies the file at src (an absolute or working-directory
	// path outside the tree) to path unless path already exists. It reports
	// whether the file was copied.
	CopyFrom(src, path string) (bool, error)
}
