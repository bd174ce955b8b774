package config

import (
	"fmt"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

var validKinds = map[string]struct{}{
	KindOpenAI: {},
	KindClaude: {},
	KindGemini: {},
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(source string) error {
	if !strings.Contains(c.Upgrade.DiffURL, "{from}") || !strings.Contains(c.Upgrade.DiffURL, "{to}") {
		return fmt.Errorf(messages.ConfigDiffURLPlaceholdersFmt, source)
	}
	if !strings.Contains(c.Upgrade.AssetURL, "{version}") {
		return fmt.Errorf(messages.ConfigAssetURLPlaceholderFmt, source)
	}
	if strings.TrimSpace(c.Upgrade.HelperURL) == "" {
		return fmt.Errorf(messages.ConfigHelperURLRequiredFmt, source)
	}
	if strings.TrimSpace(c.Upgrade.PatchesDir) == "" || strings.TrimSpace(c.Upgrade.TemplatesDir) == "" {
		return fmt.Errorf(messages.ConfigScratchDirsRequiredFmt, source)
	}
	if c.Upgrade.PatchesDir == c.Upgrade.TemplatesDir {
		return fmt.Errorf(messages.ConfigScratchDirsDistinctFmt, source)
	}
	for name, d := range map[string]Duration{
		"upgrade.lock_wait":   c.Upgrade.LockWait,
		"timeouts.fetch":      c.Timeouts.Fetch,
		"timeouts.completion": c.Timeouts.Completion,
		"timeouts.editor":     c.Timeouts.Editor,
		"timeouts.git":        c.Timeouts.Git,
		"timeouts.deps":       c.Timeouts.Deps,
	} {
		if d.Duration < 0 {
			return fmt.Errorf(messages.ConfigNegativeDurationFmt, source, name)
		}
	}

	seen := make(map[string]int, len(c.Providers))
	for i, p := range c.Providers {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf(messages.ConfigProviderNameRequiredFmt, source, i)
		}
		if prev, ok := seen[p.Name]; ok {
			return fmt.Errorf(messages.ConfigProviderDuplicateFmt, source, p.Name, prev, i)
		}
		seen[p.Name] = i
		if _, ok := validKinds[p.Kind]; !ok {
			return fmt.Errorf(messages.ConfigProviderKindInvalidFmt, source, p.Name, p.Kind)
		}
		if strings.TrimSpace(p.Model) == "" {
			return fmt.Errorf(messages.ConfigProviderModelRequiredFmt, source, p.Name)
		}
		if p.Kind == KindGemini {
			if p.Project == "" || p.Location == "" {
				return fmt.Errorf(messages.ConfigProviderGeminiProjectFmt, source, p.Name)
			}
			continue
		}
		if strings.TrimSpace(p.CredentialEnv) == "" {
			return fmt.Errorf(messages.ConfigProviderCredentialRequiredFmt, source, p.Name)
		}
	}
	return nil
}
