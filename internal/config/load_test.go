package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testPaths(t *testing.T) Paths {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
	paths, err := DefaultPaths(t.TempDir())
	require.NoError(t, err)
	return paths
}

func TestLoad_DefaultsWhenNoFiles(t *testing.T) {
	paths := testPaths(t)

	cfg, err := Load(paths)
	require.NoError(t, err)
	assert.Equal(t, DefaultDiffURL, cfg.Upgrade.DiffURL)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Fetch.Duration)
	assert.True(t, cfg.AlignDepsEnabled())
	assert.True(t, cfg.CreateBranchEnabled())

	names := make([]string, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"anthropic", "groq", "openai", "deepseek"}, names)
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	paths := testPaths(t)
	writeFile(t, paths.UserConfig, `
[editor]
command = "code"
args = ["--wait"]

[timeouts]
fetch = "5s"
git = "20s"
`)
	writeFile(t, paths.ProjectConfig, `
[upgrade]
align_deps = false
patches_dir = "tmp/patches"

[timeouts]
fetch = "45s"

[[providers]]
name = "local"
kind = "openai"
model = "qwen2.5-coder"
credential_env = "LOCAL_LLM_KEY"
endpoint = "http://localhost:11434/v1"
`)

	cfg, err := Load(paths)
	require.NoError(t, err)
	assert.Equal(t, "code", cfg.Editor.Command)
	assert.Equal(t, []string{"--wait"}, cfg.Editor.Args)
	assert.Equal(t, 45*time.Second, cfg.Timeouts.Fetch.Duration)
	assert.Equal(t, 20*time.Second, cfg.Timeouts.Git.Duration)
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Completion.Duration)
	assert.False(t, cfg.AlignDepsEnabled())
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "local", cfg.Providers[0].Name)
	assert.Equal(t, filepath.Join(paths.Root, "tmp", "patches"), paths.PatchesPath(cfg))
	assert.Equal(t, filepath.Join(paths.Root, DefaultTemplatesDir), paths.TemplatesPath(cfg))
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	paths := testPaths(t)
	writeFile(t, paths.ProjectConfig, `
[upgrade]
diff_url = "https://example.com/{from}..{to}.diff"
mirror = "nope"
`)

	_, err := Load(paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), "mirror")
}

func TestLoad_InvalidTOML(t *testing.T) {
	paths := testPaths(t)
	writeFile(t, paths.ProjectConfig, "[upgrade\n")

	_, err := Load(paths)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), paths.ProjectConfig)
}

func TestLoad_InvalidDuration(t *testing.T) {
	paths := testPaths(t)
	writeFile(t, paths.ProjectConfig, "[timeouts]\nfetch = \"soon\"\n")

	_, err := Load(paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soon")
}

func TestLoad_ValidationFailure(t *testing.T) {
	paths := testPaths(t)
	writeFile(t, paths.ProjectConfig, "[upgrade]\ndiff_url = \"https://example.com/latest.diff\"\n")

	_, err := Load(paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestLoad_ReadError(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.ProjectConfig, 0o755))

	_, err := Load(paths)
	assert.Error(t, err)
}

func TestEncode_RoundTrips(t *testing.T) {
	cfg := Default()
	data, err := Encode(&cfg)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "fetch = '30s'")
	assert.True(t, strings.Contains(text, "[[providers]]"))

	parsed, err := Parse(data, "encoded")
	require.NoError(t, err)
	assert.Equal(t, cfg.Timeouts, parsed.Timeouts)
	assert.Equal(t, cfg.Providers, parsed.Providers)
}

func TestDefaultPaths_UsesHomeWithoutXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	paths, err := DefaultPaths("/project")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/project", ".valen", "config.toml"), paths.ProjectConfig)
	assert.Equal(t, filepath.Join("/project", ".valen", ".env"), paths.EnvPath)
	assert.Equal(t, filepath.Join("/project", ".valen", "upgrade.lock"), paths.LockPath)
	assert.True(t, strings.HasSuffix(paths.UserConfig, filepath.Join(".config", "valen", "config.toml")))
}

func TestPatchesPath_Absolute(t *testing.T) {
	cfg := Default()
	cfg.Upgrade.PatchesDir = "/var/tmp/patches"
	assert.Equal(t, "/var/tmp/patches", Paths{Root: "/project"}.PatchesPath(&cfg))
}
