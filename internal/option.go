package internal

// Run modes.
const (
	ModeBuild = "build"
	ModeServe = "serve"
	ModeMCP   = "mcp"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	mode    string
	version string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode selects what runs after the initial build: nothing (ModeBuild),
// the preview server (ModeServe) or the MCP stdio server (ModeMCP).
func WithMode(mode string) Option {
	return func(a *application) {
		a.mode = mode
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
