package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/valen-cli/valen/internal/messages"
)

// Paths holds resolved paths for config files and project state.
type Paths struct {
	Root          string
	ProjectConfig string
	EnvPath       string
	LockPath      string
	UserConfig    string
}

// DefaultPaths returns the config paths for a project root.
// The user config lives under $XDG_CONFIG_HOME/valen, or ~/.config/valen when unset.
func DefaultPaths(root string) (Paths, error) {
	userDir := os.Getenv("XDG_CONFIG_HOME")
	if userDir == "" {
		expanded, err := homedir.Expand("~/.config")
		if err != nil {
			return Paths{}, fmt.Errorf(messages.ConfigHomeDirFmt, err)
		}
		userDir = expanded
	}
	stateDir := filepath.Join(root, ".valen")
	return Paths{
		Root:          root,
		ProjectConfig: filepath.Join(stateDir, "config.toml"),
		EnvPath:       filepath.Join(stateDir, ".env"),
		LockPath:      filepath.Join(stateDir, "upgrade.lock"),
		UserConfig:    filepath.Join(userDir, "valen", "config.toml"),
	}, nil
}

// PatchesPath returns the absolute patch directory for the project.
func (p Paths) PatchesPath(cfg *Config) string {
	return resolveUnder(p.Root, cfg.Upgrade.PatchesDir)
}

// TemplatesPath returns the absolute preview scratch directory for the project.
func (p Paths) TemplatesPath(cfg *Config) string {
	return resolveUnder(p.Root, cfg.Upgrade.TemplatesDir)
}

func resolveUnder(root string, dir string) string {
	if expanded, err := homedir.Expand(dir); err == nil {
		dir = expanded
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
