package internal

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	require.NoError(t, cfg.Validate(), "disabled mode should pass")
	assert.False(t, cfg.AuthEnabled(), "disabled mode should not be enabled")
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	require.NoError(t, cfg.Validate(), "empty mode should default to disabled")
	assert.Equal(t, AuthModeDisabled, cfg.Mode)
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	require.NoError(t, cfg.Validate(), "token mode with token should pass")
	assert.True(t, cfg.AuthEnabled(), "token mode should be enabled")
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	assert.ErrorContains(t, cfg.Validate(), "token is empty")
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	assert.Error(t, cfg.Validate(), "invalid mode should fail validation")
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := validConfig()
	cfg.Preview.Auth.Mode = "token"
	cfg.Preview.Auth.Token = ""
	assert.Error(t, cfg.Validate(), "full config validate should catch auth error")
}

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Source.DataDir = "/data"
	return cfg
}

func TestDefaultConfig_RequiresDataDir(t *testing.T) {
	assert.ErrorContains(t, NewDefaultConfig().Validate(), "DATA_DIR")
	assert.NoError(t, validConfig().Validate(), "default config with data dir should pass")
}

func TestSourceConfig_NormalizesExtensions(t *testing.T) {
	cfg := validConfig()
	cfg.Source.Extensions = []string{" .md", "txt ", "", ".html"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"md", "txt", "html"}, cfg.Source.Extensions)
}

func TestSourceConfig_EmptyExtensions(t *testing.T) {
	cfg := validConfig()
	cfg.Source.Extensions = []string{" ", "."}
	assert.Error(t, cfg.Validate(), "empty extension list should fail")
}

func TestSourceConfig_ExtensionWithSeparator(t *testing.T) {
	cfg := validConfig()
	cfg.Source.Extensions = []string{"md/x"}
	assert.Error(t, cfg.Validate(), "extension with a path separator should fail")
}

func TestSiteConfig_StripsTrailingSlash(t *testing.T) {
	cfg := validConfig()
	cfg.Site.URL = "https://example.com/"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://example.com", cfg.Site.URL)
}

func TestSiteConfig_NegativeRecentPosts(t *testing.T) {
	cfg := validConfig()
	cfg.Site.RecentPosts = -1
	assert.Error(t, cfg.Validate(), "negative recent posts should fail")
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Preview.HTTP.Port = 70000
	assert.Error(t, cfg.Validate(), "out of range port should fail")
}

func TestConfig_Generator(t *testing.T) {
	cfg := validConfig()
	cfg.Site.Title = "Archive"
	cfg.Output.Overwrite = true
	g := cfg.Generator()
	assert.Equal(t, "/data", g.DataDir)
	assert.Equal(t, "./output", g.OutputDir)
	assert.True(t, g.Overwrite)
	assert.Equal(t, "Archive", g.Site.Title)
	assert.Equal(t, 5, g.RecentPosts)

	g.Extensions[0] = "changed"
	assert.Equal(t, "html", cfg.Source.Extensions[0], "generator config must not alias the extension list")
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"INFO":   slog.LevelInfo,
		" warn ": slog.LevelWarn,
		"error":  slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, "ParseLogLevel(%q)", in)
		assert.Equal(t, want, got, "ParseLogLevel(%q)", in)
	}

	_, err := ParseLogLevel("verbose")
	assert.ErrorContains(t, err, `invalid log level "verbose"`)
}
