package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/completion"
	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
)

// Patcher applies a patch file to the working tree.
type Patcher interface {
	Apply(ctx context.Context, patchPath string) error
}

// Completer asks text-completion providers in priority order.
type Completer interface {
	Try(ctx context.Context, prompt string, accept func(completion.Result) (bool, error)) (completion.Result, error)
}

// Editor opens a file for manual editing and blocks until it closes.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Attempt is the input shared by every strategy for one patch.
type Attempt struct {
	Patch PatchFile
	// Target is the resolved project-relative path.
	Target string
	// PatchText is the materialized patch as read from disk.
	PatchText string
	Root      string
}

func (a *Attempt) targetAbs() string {
	return filepath.Join(a.Root, filepath.FromSlash(a.Target))
}

// Strategy is one way of applying a patch. Returning ErrStrategyDeclined
// hands the patch to the next strategy.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, a *Attempt) (Outcome, error)
}

func declined(cause error) error {
	if cause == nil {
		return ErrStrategyDeclined
	}
	return fmt.Errorf("%w: %w", ErrStrategyDeclined, cause)
}

// ToolStrategy applies the patch with git apply.
type ToolStrategy struct {
	Git Patcher
	// Dir receives the temporary patch file.
	Dir string
}

// Name returns the strategy label.
func (s *ToolStrategy) Name() string { return messages.StrategyTool }

// Attempt writes temp_<name> with headers pointing at the resolved target,
// runs git apply and always removes the temporary file.
func (s *ToolStrategy) Attempt(ctx context.Context, a *Attempt) (Outcome, error) {
	tempPath := filepath.Join(s.Dir, "temp_"+a.Patch.Name)
	content := RewriteHeaders(a.PatchText, a.Target)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeWritePatchFmt, tempPath, err)
	}
	if err := os.WriteFile(tempPath, []byte(content), 0o644); err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeWritePatchFmt, tempPath, err)
	}
	defer func() { _ = os.Remove(tempPath) }()

	if err := s.Git.Apply(ctx, tempPath); err != nil {
		if ctx.Err() != nil {
			return Aborted, ctx.Err()
		}
		return Aborted, declined(fmt.Errorf("%w: %w", ErrToolApply, err))
	}
	return Applied, nil
}

// RewriteHeaders points the file headers of patch at target. A /dev/null
// side is left untouched.
func RewriteHeaders(patch string, target string) string {
	lines := strings.SplitAfter(patch, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "@@") {
			break
		}
		switch {
		case strings.HasPrefix(line, "--- ") && !isDevNullHeader(line):
			lines[i] = "--- a/" + target + "\n"
		case strings.HasPrefix(line, "+++ ") && !isDevNullHeader(line):
			lines[i] = "+++ b/" + target + "\n"
		}
	}
	return strings.Join(lines, "")
}

func isDevNullHeader(line string) bool {
	return strings.TrimSpace(line[4:]) == devNull
}

// AIStrategy asks completion providers for the patched file and writes the
// answer only after the operator accepts a preview.
type AIStrategy struct {
	Completer Completer
	UI        prompt.UI
	Out       io.Writer
	// ScratchDir receives updated_<base> preview files.
	ScratchDir      string
	MaxPreviewLines int
}

// Name returns the strategy label.
func (s *AIStrategy) Name() string { return messages.StrategyAI }

// Attempt declines when no provider is configured or every answer is rejected.
func (s *AIStrategy) Attempt(ctx context.Context, a *Attempt) (Outcome, error) {
	if s.Completer == nil {
		return Aborted, declined(completion.ErrNoProviders)
	}
	target := a.targetAbs()
	original, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Aborted, fmt.Errorf(messages.UpgradeReadTargetFmt, a.Target, err)
	}
	request := BuildCompletionPrompt(a.Target, string(original), a.PatchText)

	_, _ = fmt.Fprintf(s.Out, messages.StrategyAIRequestFmt, a.Target)
	var accepted string
	_, err = s.Completer.Try(ctx, request, func(res completion.Result) (bool, error) {
		updated := ensureTrailingNewline(res.Text)
		preview, err := BuildPreview(s.ScratchDir, a.Target, string(original), updated, s.MaxPreviewLines)
		if err != nil {
			return false, err
		}
		_, _ = color.New(color.Bold).Fprintf(s.Out, messages.StrategyAIPreviewFmt, res.Provider, a.Target)
		if err := WriteColorDiff(s.Out, preview.UnifiedDiff); err != nil {
			return false, err
		}
		if preview.Truncated {
			_, _ = fmt.Fprintf(s.Out, messages.StrategyAIScratchFmt, preview.ScratchPath)
		}
		ok, err := prompt.Ask(s.UI, fmt.Sprintf(messages.StrategyAIConfirmFmt, a.Target), false)
		if err != nil {
			return false, err
		}
		if ok {
			accepted = updated
		}
		return ok, nil
	})
	if errors.Is(err, completion.ErrNoProviders) || errors.Is(err, completion.ErrExhausted) {
		return Aborted, declined(err)
	}
	if err != nil {
		return Aborted, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeWriteTargetFmt, a.Target, err)
	}
	if err := os.WriteFile(target, []byte(accepted), 0o644); err != nil {
		return Aborted, fmt.Errorf(messages.UpgradeWriteTargetFmt, a.Target, err)
	}
	return AppliedAI, nil
}

// BuildCompletionPrompt asks for the full content of path after patch.
func BuildCompletionPrompt(path string, original string, patch string) string {
	return fmt.Sprintf(messages.CompletionPromptFmt, path, original, patch)
}

// ManualStrategy shows the patch and opens the operator's editor.
type ManualStrategy struct {
	Editor Editor
	UI     prompt.UI
}

// Name returns the strategy label.
func (s *ManualStrategy) Name() string { return messages.StrategyManual }

// Attempt never declines: refusing the editor skips the change.
func (s *ManualStrategy) Attempt(ctx context.Context, a *Attempt) (Outcome, error) {
	if err := s.UI.Note(fmt.Sprintf(messages.StrategyManualNoteFmt, a.Target), a.PatchText); err != nil {
		return Aborted, err
	}
	ok, err := prompt.Ask(s.UI, fmt.Sprintf(messages.StrategyManualConfirmFmt, a.Target), false)
	if err != nil {
		return Aborted, err
	}
	if !ok {
		return Skipped, nil
	}
	if err := s.Editor.Edit(ctx, a.targetAbs()); err != nil {
		return Aborted, err
	}
	return ManuallyEdited, nil
}
