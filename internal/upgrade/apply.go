package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
)

// GradleWrapperJar is the one binary file replaced whole instead of patched.
const GradleWrapperJar = "android/gradle/wrapper/gradle-wrapper.jar"

// AssetFetcher downloads the gradle wrapper jar of a release.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, version string) ([]byte, error)
}

// Applicator drives one patch to a terminal outcome.
type Applicator struct {
	Root string
	// TargetVersion selects the release the gradle wrapper jar comes from.
	TargetVersion string
	Assets        AssetFetcher
	Resolver      *Resolver
	UI            prompt.UI
	Out           io.Writer
	// Strategies run in order until one does not decline.
	Strategies []Strategy
	Logger     *slog.Logger
}

func (a *Applicator) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func (a *Applicator) abs(rel string) string {
	return filepath.Join(a.Root, filepath.FromSlash(rel))
}

// Apply handles pf and returns its outcome. Errors are returned with the
// Aborted outcome and left to the caller's recovery menu.
func (a *Applicator) Apply(ctx context.Context, pf PatchFile) (Outcome, error) {
	data, err := os.ReadFile(pf.Path)
	if err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeReadPatchFmt, pf.Path, err)
	}

	if pf.Change.Deleted {
		return a.remove(pf)
	}
	if pf.TargetPath == GradleWrapperJar {
		return a.replaceAsset(ctx, pf)
	}

	res, err := a.Resolver.Resolve(pf)
	if err != nil {
		return Aborted, err
	}
	if res.Skip {
		return Skipped, nil
	}
	if !pf.Change.HasHunks() {
		return Aborted, fmt.Errorf("%w: %s", ErrEmptyPatch, pf.TargetPath)
	}

	attempt := &Attempt{Patch: pf, Target: res.Path, PatchText: string(data), Root: a.Root}
	return a.run(ctx, attempt, a.Strategies)
}

// ManualEdit runs only the manual strategies for pf. The orchestrator
// offers it after another strategy failed.
func (a *Applicator) ManualEdit(ctx context.Context, pf PatchFile) (Outcome, error) {
	data, err := os.ReadFile(pf.Path)
	if err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeReadPatchFmt, pf.Path, err)
	}
	target := pf.TargetPath
	if !fileExists(a.abs(target)) {
		res, err := a.Resolver.Resolve(pf)
		if err != nil {
			return Aborted, err
		}
		if res.Skip {
			return Skipped, nil
		}
		target = res.Path
	}
	var manual []Strategy
	for _, s := range a.Strategies {
		if _, ok := s.(*ManualStrategy); ok {
			manual = append(manual, s)
		}
	}
	attempt := &Attempt{Patch: pf, Target: target, PatchText: string(data), Root: a.Root}
	return a.run(ctx, attempt, manual)
}

func (a *Applicator) run(ctx context.Context, attempt *Attempt, strategies []Strategy) (Outcome, error) {
	for _, s := range strategies {
		outcome, err := s.Attempt(ctx, attempt)
		if errors.Is(err, ErrStrategyDeclined) {
			a.logger().Debug("strategy declined", "strategy", s.Name(), "target", attempt.Target, "error", err)
			_, _ = color.New(color.FgYellow).Fprintf(a.Out, messages.ApplyStrategyDeclinedFmt, s.Name(), attempt.Target, err)
			continue
		}
		if err != nil {
			return Aborted, err
		}
		a.logger().Info("patch handled", "strategy", s.Name(), "target", attempt.Target, "outcome", outcome.String())
		return outcome, nil
	}
	_, _ = fmt.Fprintf(a.Out, messages.ApplyNoStrategyFmt, attempt.Target)
	return Skipped, nil
}

func (a *Applicator) remove(pf PatchFile) (Outcome, error) {
	target := a.abs(pf.TargetPath)
	if !fileExists(target) {
		_, _ = fmt.Fprintf(a.Out, messages.ApplyDeleteMissingFmt, pf.TargetPath)
		return Removed, nil
	}
	ok, err := prompt.Ask(a.UI, fmt.Sprintf(messages.ApplyDeleteConfirmFmt, pf.TargetPath), true)
	if err != nil {
		return Aborted, err
	}
	if !ok {
		_, _ = fmt.Fprintf(a.Out, messages.ApplyDeleteKeptFmt, pf.TargetPath)
		return Removed, nil
	}
	if err := os.Remove(target); err != nil {
		return Aborted, fmt.Errorf(messages.ApplyDeleteFailedFmt, pf.TargetPath, err)
	}
	_, _ = color.New(color.FgRed).Fprintf(a.Out, messages.ApplyDeletedFmt, pf.TargetPath)
	return Removed, nil
}

func (a *Applicator) replaceAsset(ctx context.Context, pf PatchFile) (Outcome, error) {
	ok, err := prompt.Ask(a.UI, fmt.Sprintf(messages.ApplyAssetConfirmFmt, pf.TargetPath, a.TargetVersion), true)
	if err != nil {
		return Aborted, err
	}
	if !ok {
		return Skipped, nil
	}
	data, err := a.Assets.FetchAsset(ctx, a.TargetVersion)
	if err != nil {
		return Aborted, err
	}
	target := a.abs(pf.TargetPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeWriteTargetFmt, pf.TargetPath, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeWriteTargetFmt, pf.TargetPath, err)
	}
	_, _ = color.New(color.FgGreen).Fprintf(a.Out, messages.ApplyAssetWrittenFmt, pf.TargetPath, len(data))
	return Applied, nil
}
