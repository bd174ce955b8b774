package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate("default"))
}

func TestValidate_Errors(t *testing.T) {
	no := false
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"diff url placeholders", func(c *Config) { c.Upgrade.DiffURL = "https://x/{from}.diff" }, "{from}"},
		{"asset url placeholder", func(c *Config) { c.Upgrade.AssetURL = "https://x/jar" }, "{version}"},
		{"helper url", func(c *Config) { c.Upgrade.HelperURL = " " }, "helper_url"},
		{"scratch dirs", func(c *Config) { c.Upgrade.PatchesDir = "" }, "patches_dir"},
		{"scratch dirs distinct", func(c *Config) { c.Upgrade.TemplatesDir = c.Upgrade.PatchesDir }, "differ"},
		{"negative duration", func(c *Config) { c.Timeouts.Git = Duration{-time.Second} }, "timeouts.git"},
		{"provider name", func(c *Config) { c.Providers[0].Name = "" }, "name"},
		{"provider duplicate", func(c *Config) { c.Providers[1].Name = c.Providers[0].Name }, `duplicate provider "anthropic"`},
		{"provider kind", func(c *Config) { c.Providers[0].Kind = "cohere" }, "cohere"},
		{"provider model", func(c *Config) { c.Providers[0].Model = "" }, "model"},
		{"provider credential", func(c *Config) { c.Providers[0].CredentialEnv = "" }, "credential_env"},
		{"gemini project", func(c *Config) {
			c.Providers = []ProviderConfig{{Name: "vertex", Kind: KindGemini, Model: "gemini-2.0-flash", Enabled: &no}}
		}, "project"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate("test.toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "test.toml")
		})
	}
}

func TestValidate_GeminiWithoutCredentialEnv(t *testing.T) {
	cfg := Default()
	cfg.Providers = []ProviderConfig{{Name: "vertex", Kind: KindGemini, Model: "gemini-2.0-flash", Project: "p", Location: "us-central1"}}
	assert.NoError(t, cfg.Validate("test.toml"))
}

func TestProviderIsEnabled(t *testing.T) {
	no := false
	assert.True(t, ProviderConfig{}.IsEnabled())
	assert.False(t, ProviderConfig{Enabled: &no}.IsEnabled())
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration)
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
	assert.Error(t, d.UnmarshalText([]byte("later")))
}
