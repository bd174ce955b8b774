package config

import (
	"fmt"
	"time"

	"github.com/valen-cli/valen/internal/messages"
)

// Provider kinds understood by the completion package.
const (
	KindOpenAI = "openai"
	KindClaude = "claude"
	KindGemini = "gemini"
)

// Config is the merged Valen configuration.
type Config struct {
	Upgrade   UpgradeConfig    `toml:"upgrade"`
	Editor    EditorConfig     `toml:"editor"`
	Timeouts  TimeoutConfig    `toml:"timeouts"`
	Providers []ProviderConfig `toml:"providers"`
}

// UpgradeConfig holds remote sources and scratch locations for the upgrade assistant.
type UpgradeConfig struct {
	// DiffURL is a template with {from} and {to} placeholders.
	DiffURL string `toml:"diff_url"`
	// AssetURL is a template with a {version} placeholder for the gradle wrapper jar.
	AssetURL string `toml:"asset_url"`
	// HelperURL is the hosted visual diff helper.
	HelperURL    string   `toml:"helper_url"`
	PatchesDir   string   `toml:"patches_dir"`
	TemplatesDir string   `toml:"templates_dir"`
	AlignDeps    *bool    `toml:"align_deps"`
	CreateBranch *bool    `toml:"create_branch"`
	LockWait     Duration `toml:"lock_wait"`
}

// EditorConfig selects the manual edit fallback editor.
type EditorConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// TimeoutConfig bounds every blocking external call.
type TimeoutConfig struct {
	Fetch      Duration `toml:"fetch"`
	Completion Duration `toml:"completion"`
	Editor     Duration `toml:"editor"`
	Git        Duration `toml:"git"`
	Deps       Duration `toml:"deps"`
}

// ProviderConfig describes one text-completion provider. Order in the
// config file is the priority order.
type ProviderConfig struct {
	Name          string `toml:"name"`
	Kind          string `toml:"kind"`
	Model         string `toml:"model"`
	CredentialEnv string `toml:"credential_env"`
	Endpoint      string `toml:"endpoint"`
	Project       string `toml:"project"`
	Location      string `toml:"location"`
	Enabled       *bool  `toml:"enabled"`
}

// IsEnabled reports whether the provider participates in the chain.
func (p ProviderConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Duration wraps time.Duration so TOML values like "30s" decode.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf(messages.ConfigInvalidDurationFmt, string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in Go notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default values.
const (
	DefaultDiffURL      = "https://raw.githubusercontent.com/react-native-community/rn-diff-purge/diffs/diffs/{from}..{to}.diff"
	DefaultAssetURL     = "https://raw.githubusercontent.com/react-native-community/rn-diff-purge/release/{version}/RnDiffApp/android/gradle/wrapper/gradle-wrapper.jar"
	DefaultHelperURL    = "https://react-native-community.github.io/upgrade-helper/"
	DefaultPatchesDir   = ".upgrade-patches"
	DefaultTemplatesDir = ".upgrade-templates"
)

// Default returns the built-in configuration.
func Default() Config {
	yes := true
	return Config{
		Upgrade: UpgradeConfig{
			DiffURL:      DefaultDiffURL,
			AssetURL:     DefaultAssetURL,
			HelperURL:    DefaultHelperURL,
			PatchesDir:   DefaultPatchesDir,
			TemplatesDir: DefaultTemplatesDir,
			AlignDeps:    &yes,
			CreateBranch: &yes,
			LockWait:     Duration{10 * time.Second},
		},
		Timeouts: TimeoutConfig{
			Fetch:      Duration{30 * time.Second},
			Completion: Duration{2 * time.Minute},
			Editor:     Duration{30 * time.Minute},
			Git:        Duration{time.Minute},
			Deps:       Duration{5 * time.Minute},
		},
		Providers: DefaultProviders(),
	}
}

// DefaultProviders returns the built-in provider priority list.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{Name: "anthropic", Kind: KindClaude, Model: "claude-3-5-sonnet-20240620", CredentialEnv: "ANTHROPIC_API_KEY"},
		{Name: "groq", Kind: KindOpenAI, Model: "llama3-8b-8192", CredentialEnv: "GROQ_API_KEY", Endpoint: "https://api.groq.com/openai/v1"},
		{Name: "openai", Kind: KindOpenAI, Model: "gpt-4o-2024-08-06", CredentialEnv: "OPENAI_API_KEY"},
		{Name: "deepseek", Kind: KindOpenAI, Model: "deepseek-coder", CredentialEnv: "DEEPSEEK_API_KEY", Endpoint: "https://api.deepseek.com/v1"},
	}
}

// AlignDepsEnabled reports whether the dependency alignment step is offered.
func (c *Config) AlignDepsEnabled() bool {
	return c.Upgrade.AlignDeps == nil || *c.Upgrade.AlignDeps
}

// CreateBranchEnabled reports whether the upgrade runs on a dedicated branch.
func (c *Config) CreateBranchEnabled() bool {
	return c.Upgrade.CreateBranch == nil || *c.Upgrade.CreateBranch
}

// merge overlays the non-zero fields of o onto c.
func (c *Config) merge(o Config) {
	overlayString(&c.Upgrade.DiffURL, o.Upgrade.DiffURL)
	overlayString(&c.Upgrade.AssetURL, o.Upgrade.AssetURL)
	overlayString(&c.Upgrade.HelperURL, o.Upgrade.HelperURL)
	overlayString(&c.Upgrade.PatchesDir, o.Upgrade.PatchesDir)
	overlayString(&c.Upgrade.TemplatesDir, o.Upgrade.TemplatesDir)
	if o.Upgrade.AlignDeps != nil {
		c.Upgrade.AlignDeps = o.Upgrade.AlignDeps
	}
	if o.Upgrade.CreateBranch != nil {
		c.Upgrade.CreateBranch = o.Upgrade.CreateBranch
	}
	overlayDuration(&c.Upgrade.LockWait, o.Upgrade.LockWait)

	overlayString(&c.Editor.Command, o.Editor.Command)
	if len(o.Editor.Args) > 0 {
		c.Editor.Args = o.Editor.Args
	}

	overlayDuration(&c.Timeouts.Fetch, o.Timeouts.Fetch)
	overlayDuration(&c.Timeouts.Completion, o.Timeouts.Completion)
	overlayDuration(&c.Timeouts.Editor, o.Timeouts.Editor)
	overlayDuration(&c.Timeouts.Git, o.Timeouts.Git)
	overlayDuration(&c.Timeouts.Deps, o.Timeouts.Deps)

	// A providers list replaces the previous one so priority stays explicit.
	if len(o.Providers) > 0 {
		c.Providers = o.Providers
	}
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayDuration(dst *Duration, v Duration) {
	if v.Duration != 0 {
		*dst = v
	}
}
