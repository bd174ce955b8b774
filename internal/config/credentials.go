package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

// Credentials resolves provider secrets from the process environment first
// and the project .env file second.
type Credentials struct {
	file   map[string]string
	getenv func(string) (string, bool)
}

// LoadCredentials reads envPath when present. A missing file is not an error.
func LoadCredentials(envPath string) (Credentials, error) {
	creds := Credentials{file: map[string]string{}, getenv: os.LookupEnv}
	data, err := os.ReadFile(envPath)
	if errors.Is(err, fs.ErrNotExist) {
		return creds, nil
	}
	if err != nil {
		return creds, fmt.Errorf(messages.DotenvReadFileFmt, envPath, err)
	}
	env, err := ParseDotenv(string(data))
	if err != nil {
		return creds, fmt.Errorf(messages.DotenvInvalidFileFmt, envPath, err)
	}
	creds.file = env
	return creds, nil
}

// StaticCredentials builds Credentials from a fixed map without consulting the environment.
func StaticCredentials(values map[string]string) Credentials {
	return Credentials{file: values, getenv: func(string) (string, bool) { return "", false }}
}

// Lookup returns a non-empty credential for name.
func (c Credentials) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if c.getenv != nil {
		if v, ok := c.getenv(name); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	if v, ok := c.file[name]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	return "", false
}

// SaveCredential writes key=value into envPath with owner-only permissions.
func SaveCredential(envPath string, key string, value string) error {
	if err := os.MkdirAll(filepath.Dir(envPath), 0o700); err != nil {
		return fmt.Errorf(messages.DotenvWriteFileFmt, envPath, err)
	}
	existing, err := os.ReadFile(envPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(messages.DotenvReadFileFmt, envPath, err)
	}
	updated := UpsertDotenv(string(existing), key, value)
	if err := os.WriteFile(envPath, []byte(updated), 0o600); err != nil {
		return fmt.Errorf(messages.DotenvWriteFileFmt, envPath, err)
	}
	return nil
}
