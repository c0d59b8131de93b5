package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "archive")
	p := writeConfig(t, "name: ${SAMPLE_NAME}\nport: 9000\n")

	var s sample
	require.NoError(t, Load(p, &s))
	assert.Equal(t, sample{Name: "archive", Port: 9000}, s)
}

func TestLoad_OverridesBeforeValidation(t *testing.T) {
	s := sample{Port: 1}
	require.NoError(t, Load("", &s, func(s *sample) { s.Name = "from-flag" }))
	assert.Equal(t, sample{Name: "from-flag", Port: 1}, s)
}

func TestLoad_ValidationError(t *testing.T) {
	var s sample
	assert.ErrorContains(t, Load("", &s), "name is required")
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	assert.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), &s))
}

func TestResolve(t *testing.T) {
	existing := writeConfig(t, "name: x\n")
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	got, err := Resolve(existing, false)
	require.NoError(t, err)
	assert.Equal(t, existing, got)

	got, err = Resolve(missing, false)
	require.NoError(t, err)
	assert.Empty(t, got, "implicit missing file is skipped")

	_, err = Resolve(missing, true)
	assert.Error(t, err, "explicit missing file is an error")
}
