package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/site"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Source    SourceConfig      `yaml:"source"`
	Output    OutputConfig      `yaml:"output"`
	Templates TemplatesConfig   `yaml:"templates"`
	Site      SiteConfig        `yaml:"site"`
	Catalog   CatalogConfig     `yaml:"catalog"`
	Preview   PreviewConfig     `yaml:"preview"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{
		&c.Source, &c.Output, &c.Templates, &c.Site, &c.Catalog, &c.Preview,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Generator returns the generation settings derived from c.
func (c *Config) Generator() site.Config {
	return site.Config{
		DataDir:     c.Source.DataDir,
		PublicDir:   c.Source.PublicDir,
		Extensions:  append([]string(nil), c.Source.Extensions...),
		OutputDir:   c.Output.Dir,
		TemplateDir: c.Templates.Dir,
		Overwrite:   c.Output.Overwrite,
		Site:        c.Site.Model(),
		RecentPosts: c.Site.RecentPosts,
	}
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ParseLogLevel parses a level name such as "debug" or "warn+2".
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// SourceConfig describes where documents are discovered.
type SourceConfig struct {
	// DataDir is the root searched for public directories. It has no default.
	DataDir string `yaml:"data_dir"`
	// PublicDir is the directory name suffix marking a public directory.
	PublicDir string `yaml:"public_dir"`
	// Extensions are the publishable extensions without the leading dot, in
	// match order.
	Extensions []string `yaml:"extensions"`
}

// Validate normalizes the extension list and validates the source configuration.
func (c *SourceConfig) Validate() error {
	c.Extensions = NormalizeExtensions(c.Extensions)
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required.Error("data directory is required (set DATA_DIR)")),
		validation.Field(&c.PublicDir, validation.Required),
		validation.Field(&c.Extensions, validation.Required),
	); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	for _, ext := range c.Extensions {
		if strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("source: invalid extension %q", ext)
		}
	}
	return nil
}

// NormalizeExtensions trims every entry, strips one leading dot and drops
// empty entries, keeping order.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// OutputConfig describes the generated tree.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Overwrite re-renders document pages that already exist.
	Overwrite bool `yaml:"overwrite"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// TemplatesConfig locates the template directory.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the templates configuration.
func (c *TemplatesConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	); err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	return nil
}

// SiteConfig holds the site metadata exposed to templates and the feed.
type SiteConfig struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	RecentPosts int    `yaml:"recent_posts"`
}

// Validate strips a trailing slash from the URL and validates the site configuration.
func (c *SiteConfig) Validate() error {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if err := validation.ValidateStruct(c,
		validation.Field(&c.RecentPosts, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	return nil
}

// Model returns the site metadata.
func (c *SiteConfig) Model() models.Site {
	return models.Site{Title: c.Title, URL: c.URL, Description: c.Description}
}

// CatalogConfig holds the SQLite catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// PreviewConfig configures serve mode.
type PreviewConfig struct {
	HTTP HTTPConfig `yaml:"http"`
	Auth AuthConfig `yaml:"auth"`
	// WatchDebounce is the quiet period before a change triggers a rebuild.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// Validate validates the preview configuration.
func (c *PreviewConfig) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.WatchDebounce, validation.Min(time.Duration(0))),
	)
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local preview.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
// Source.DataDir is left empty; it must be configured.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Source: SourceConfig{
			PublicDir:  "public_archive",
			Extensions: []string{"html", "md", "txt"},
		},
		Output: OutputConfig{
			Dir: "./output",
		},
		Templates: TemplatesConfig{
			Dir: "./template",
		},
		Site: SiteConfig{
			RecentPosts: 5,
		},
		Catalog: CatalogConfig{
			Path: "./annal.db",
		},
		Preview: PreviewConfig{
			HTTP:          HTTPConfig{Port: 8080},
			Auth:          AuthConfig{Mode: AuthModeDisabled},
			WatchDebounce: 300 * time.Millisecond,
		},
	}
}
