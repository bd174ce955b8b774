// Package doctor checks that a project and its environment are ready for an upgrade.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/valen-cli/valen/internal/completion"
	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/editor"
	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/upgrade"
)

// Status is the severity of one check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is the outcome of one check.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

var (
	lookPath    = exec.LookPath
	toolVersion = func(ctx context.Context, path string) (string, error) {
		out, err := exec.CommandContext(ctx, path, "--version").Output()
		if err != nil {
			return "", err
		}
		line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
		return line, nil
	}
)

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// CheckProject verifies root is a React Native project and reports what was detected.
func CheckProject(root string) []Result {
	project, err := upgrade.DetectProject(root)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameProject,
			Message:        err.Error(),
			Recommendation: messages.DoctorProjectRecommend,
		}}
	}
	results := []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameProject,
		Message:   fmt.Sprintf(messages.DoctorProjectFoundFmt, project.ReactNativeVersion),
	}}
	if project.AppName == "" || project.AppPackage == "" {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameProject,
			Message:        messages.DoctorProjectIdentityMissing,
			Recommendation: messages.DoctorProjectIdentityRecommend,
		})
	} else {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameProject,
			Message:   fmt.Sprintf(messages.DoctorProjectIdentityFmt, project.AppName, project.AppPackage),
		})
	}
	return results
}

// CheckConfig loads the merged configuration.
func CheckConfig(paths config.Paths) ([]Result, *config.Config) {
	cfg, err := config.Load(paths)
	if err != nil {
		rec := messages.DoctorConfigLoadRecommend
		if errors.Is(err, config.ErrConfigValidation) {
			rec = messages.DoctorConfigValidationRecommend
		}
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: rec,
		}}, nil
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameConfig,
		Message:   messages.DoctorConfigLoaded,
	}}, cfg
}

// CheckTools looks for git, which is required, and npx, which only the
// dependency alignment step needs.
func CheckTools(ctx context.Context, alignDeps bool) []Result {
	tools := []struct {
		name     string
		required bool
	}{
		{"git", true},
		{"npx", alignDeps},
	}
	var results []Result
	for _, tool := range tools {
		path, err := lookPath(tool.name)
		if err != nil {
			status := StatusWarn
			if tool.required {
				status = StatusFail
			}
			results = append(results, Result{
				Status:         status,
				CheckName:      messages.DoctorCheckNameTools,
				Message:        fmt.Sprintf(messages.DoctorToolMissingFmt, tool.name),
				Recommendation: fmt.Sprintf(messages.DoctorToolMissingRecommendFmt, tool.name),
			})
			continue
		}
		version, err := toolVersion(ctx, path)
		if err != nil || version == "" {
			version = path
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameTools,
			Message:   fmt.Sprintf(messages.DoctorToolFoundFmt, tool.name, version),
		})
	}
	return results
}

// CheckEditor reports which editor the manual edit fallback will launch.
func CheckEditor(cfg *config.Config, getenv func(string) string) Result {
	command, err := editor.Resolve(cfg.Editor.Command, cfg.Editor.Args, getenv)
	if err != nil {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameEditor,
			Message:        err.Error(),
			Recommendation: messages.DoctorEditorRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameEditor,
		Message:   fmt.Sprintf(messages.DoctorEditorFoundFmt, strings.Join(command, " ")),
	}
}

// CheckProviders reports which completion providers have a credential.
// Missing credentials only warn: the upgrade falls back to manual edits.
func CheckProviders(cfg *config.Config, creds completion.CredentialSource) []Result {
	chain := completion.NewChain(cfg.Providers, creds)
	available := make(map[string]bool)
	for _, p := range chain.Available() {
		available[p.Name] = true
	}
	var results []Result
	for _, p := range cfg.Providers {
		switch {
		case !p.IsEnabled():
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameProviders,
				Message:   fmt.Sprintf(messages.DoctorProviderDisabledFmt, p.Name),
			})
		case available[p.Name]:
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameProviders,
				Message:   fmt.Sprintf(messages.DoctorProviderReadyFmt, p.Name, p.Model),
			})
		default:
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameProviders,
				Message:        fmt.Sprintf(messages.DoctorProviderMissingFmt, p.Name, p.CredentialEnv),
				Recommendation: fmt.Sprintf(messages.DoctorProviderMissingRecommendFmt, p.CredentialEnv),
			})
		}
	}
	if len(available) == 0 {
		results = append(results, Result{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameProviders,
			Message:   messages.DoctorNoProviders,
		})
	}
	return results
}

// CheckScratch warns about patch directories left by an earlier run.
func CheckScratch(paths config.Paths, cfg *config.Config) []Result {
	var results []Result
	for _, dir := range []string{paths.PatchesPath(cfg), paths.TemplatesPath(cfg)} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		rel, err := filepath.Rel(paths.Root, dir)
		if err != nil {
			rel = dir
		}
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameScratch,
			Message:        fmt.Sprintf(messages.DoctorScratchLeftoverFmt, rel),
			Recommendation: messages.DoctorScratchRecommend,
		})
	}
	if len(results) == 0 {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameScratch,
			Message:   messages.DoctorScratchClean,
		})
	}
	return results
}
