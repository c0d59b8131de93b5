// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Override mutates a loaded configuration before validation, typically to
// apply command-line flags.
type Override[T any] func(*T)

// Load loads configuration from a YAML file with environment variable
// expansion, applies overrides, then validates the result. An empty
// filename skips the file and keeps target's current values.
func Load[T any](filename string, target *T, overrides ...Override[T]) error {
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", filename, err)
		}

		expandedData := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}

	for _, o := range overrides {
		o(target)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// Resolve picks the file to load. An explicitly requested file must exist;
// an implicit default is used only when present, otherwise "" is returned.
func Resolve(filename string, explicit bool) (string, error) {
	if filename == "" {
		return "", nil
	}
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file %s: %w", filename, err)
	}
	return filename, nil
}
