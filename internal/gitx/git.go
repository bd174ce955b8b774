// Package gitx wraps the git binary for the operations the upgrade flow needs.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/valen-cli/valen/internal/messages"
)

// Runner executes git with args inside dir and returns stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CommandError describes a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		return fmt.Sprintf(messages.GitCommandFailedFmt, strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf(messages.GitCommandFailedDetailFmt, strings.Join(e.Args, " "), e.ExitCode, detail)
}

// ExecRunner runs the real git binary.
type ExecRunner struct {
	// Binary defaults to "git".
	Binary string
}

// Run executes git and maps non-zero exits to *CommandError.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf(messages.GitTimeoutFmt, strings.Join(args, " "), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), &CommandError{Args: args, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return "", fmt.Errorf(messages.GitStartFailedFmt, bin, err)
}

// Client runs git operations against one working tree.
type Client struct {
	runner  Runner
	dir     string
	timeout time.Duration
}

// New returns a Client for dir backed by the git binary.
func New(dir string, timeout time.Duration) *Client {
	return NewWithRunner(ExecRunner{}, dir, timeout)
}

// NewWithRunner returns a Client using runner.
func NewWithRunner(runner Runner, dir string, timeout time.Duration) *Client {
	return &Client{runner: runner, dir: dir, timeout: timeout}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.runner.Run(ctx, c.dir, args...)
}

// IsRepository reports whether the directory is inside a git work tree.
func (c *Client) IsRepository(ctx context.Context) bool {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether a local branch named name exists.
func (c *Client) BranchExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}

// Checkout switches to an existing branch.
func (c *Client) Checkout(ctx context.Context, name string) error {
	_, err := c.run(ctx, "checkout", name)
	return err
}

// CreateBranch creates name from HEAD and switches to it.
func (c *Client) CreateBranch(ctx context.Context, name string) error {
	_, err := c.run(ctx, "checkout", "-b", name)
	return err
}

// IsDirty reports whether the working tree has uncommitted or untracked
// changes outside the excluded paths.
func (c *Client) IsDirty(ctx context.Context, exclude ...string) (bool, error) {
	out, err := c.run(ctx, append([]string{"status", "--porcelain"}, pathspec(exclude)...)...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Stash saves uncommitted and untracked changes under message, leaving the
// excluded paths in place.
func (c *Client) Stash(ctx context.Context, message string, exclude ...string) error {
	_, err := c.run(ctx, append([]string{"stash", "push", "--include-untracked", "-m", message}, pathspec(exclude)...)...)
	return err
}

func pathspec(exclude []string) []string {
	if len(exclude) == 0 {
		return nil
	}
	spec := []string{"--", "."}
	for _, p := range exclude {
		spec = append(spec, ":(exclude)"+p)
	}
	return spec
}

// Apply applies a patch file to the working tree. Line counts in hunk
// headers are recomputed so hand-assembled patches still apply.
func (c *Client) Apply(ctx context.Context, patchPath string) error {
	_, err := c.run(ctx, "apply", "--recount", "--whitespace=nowarn", patchPath)
	return err
}
