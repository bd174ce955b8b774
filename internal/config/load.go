package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/valen-cli/valen/internal/messages"
)

// ErrConfigValidation wraps semantic validation failures, as opposed to
// TOML syntax or filesystem errors.
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

// Load starts from Default, overlays the user config and then the project
// config when they exist, and validates the result.
func Load(paths Paths) (*Config, error) {
	cfg := Default()
	for _, path := range []string{paths.UserConfig, paths.ProjectConfig} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
		}
		layer, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		cfg.merge(*layer)
	}
	if err := cfg.Validate("merged config"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// Parse decodes one config layer, rejecting unknown keys.
// source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, strict.String())
		}
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	return &cfg, nil
}

// Encode renders cfg as TOML, used by `valen config` to show the effective settings.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigEncodeFailedFmt, err)
	}
	return buf.Bytes(), nil
}
