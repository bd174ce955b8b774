package upgrade

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/messages"
)

// DefaultPreviewMaxLines caps the diff shown before an AI rewrite is accepted.
const DefaultPreviewMaxLines = 80

// Preview is a rendered diff between a file's current and proposed content.
type Preview struct {
	Path        string
	UnifiedDiff string
	Truncated   bool
	// ScratchPath is where the proposed content was written for inspection.
	ScratchPath string
}

// BuildPreview diffs before and after for relPath and writes the proposed
// content to scratchDir as updated_<base>.
func BuildPreview(scratchDir string, relPath string, before string, after string, maxLines int) (Preview, error) {
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return Preview{}, fmt.Errorf(messages.UpgradeWritePreviewFmt, scratchDir, err)
	}
	scratch := filepath.Join(scratchDir, "updated_"+filepath.Base(relPath))
	if err := os.WriteFile(scratch, []byte(after), 0o644); err != nil {
		return Preview{}, fmt.Errorf(messages.UpgradeWritePreviewFmt, scratch, err)
	}
	rendered, truncated := renderTruncatedUnifiedDiff(relPath+" (current)", relPath+" (proposed)", before, after, maxLines)
	return Preview{Path: relPath, UnifiedDiff: rendered, Truncated: truncated, ScratchPath: scratch}, nil
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	if maxLines <= 0 {
		maxLines = DefaultPreviewMaxLines
	}
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= maxLines {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:maxLines:maxLines], fmt.Sprintf(messages.UpgradePreviewTruncatedFmt, maxLines))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}

// WriteColorDiff prints diff text with additions green, deletions red and
// hunk headers cyan.
func WriteColorDiff(w io.Writer, diff string) error {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)
	header := color.New(color.Bold)
	for _, line := range splitDiffLines(diff) {
		var err error
		switch {
		case strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- "):
			_, err = header.Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			_, err = hunk.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			_, err = add.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			_, err = del.Fprintln(w, line)
		default:
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
