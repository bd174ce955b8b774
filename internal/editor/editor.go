// Package editor launches the operator's text editor and waits for it to exit.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/valen-cli/valen/internal/messages"
)

var (
	// ErrEditorFailed reports an editor that exited non-zero or timed out.
	ErrEditorFailed = errors.New(messages.EditorFailed)
	// ErrEditorNotFound reports that no editor could be resolved.
	ErrEditorNotFound = errors.New(messages.EditorNotFound)
)

// fallbacks are tried in order when nothing is configured.
// cursor and code return immediately without --wait.
var fallbacks = [][]string{
	{"cursor", "--wait"},
	{"code", "--wait"},
	{"nano"},
	{"vim"},
	{"vi"},
}

var lookPath = exec.LookPath

// Resolve picks the editor command line: configured command first, then
// $VISUAL, then $EDITOR, then the first installed fallback.
func Resolve(configured string, configuredArgs []string, getenv func(string) string) ([]string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if fields := strings.Fields(configured); len(fields) > 0 {
		return append(fields, configuredArgs...), nil
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(getenv(env)); len(fields) > 0 {
			return fields, nil
		}
	}
	for _, candidate := range fallbacks {
		if _, err := lookPath(candidate[0]); err == nil {
			return append([]string(nil), candidate...), nil
		}
	}
	return nil, ErrEditorNotFound
}

// Launcher runs an editor command against a file.
type Launcher struct {
	Command []string
	Timeout time.Duration
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Edit opens path and blocks until the editor exits or the timeout expires.
func (l *Launcher) Edit(ctx context.Context, path string) error {
	if len(l.Command) == 0 {
		return ErrEditorNotFound
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	args := append(append([]string(nil), l.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, l.Command[0], args...)
	cmd.Stdin = orDefault(l.Stdin, os.Stdin)
	cmd.Stdout = orDefaultWriter(l.Stdout, os.Stdout)
	cmd.Stderr = orDefaultWriter(l.Stderr, os.Stderr)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: "+messages.EditorTimeoutFmt, ErrEditorFailed, l.Command[0], l.Timeout)
		}
		return fmt.Errorf("%w: "+messages.EditorRunFmt, ErrEditorFailed, l.Command[0], err)
	}
	return nil
}

func orDefault(r io.Reader, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orDefaultWriter(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
