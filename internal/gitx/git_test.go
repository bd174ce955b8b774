package gitx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	args []string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	f.calls = append(f.calls, call{dir: dir, args: args})
	key := args[0]
	if len(args) > 1 {
		key += " " + args[1]
	}
	return f.outputs[key], f.errs[key]
}

func TestClient_BranchExists(t *testing.T) {
	runner := &fakeRunner{}
	client := NewWithRunner(runner, "/repo", time.Second)

	ok, err := client.BranchExists(context.Background(), "upgrade-0.72.0-to-0.74.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"rev-parse", "--verify", "--quiet", "refs/heads/upgrade-0.72.0-to-0.74.0"}, runner.calls[0].args)
	assert.Equal(t, "/repo", runner.calls[0].dir)

	runner.errs = map[string]error{"rev-parse --verify": &CommandError{ExitCode: 1}}
	ok, err = client.BranchExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	runner.errs = map[string]error{"rev-parse --verify": &CommandError{ExitCode: 128, Stderr: "fatal"}}
	_, err = client.BranchExists(context.Background(), "broken")
	assert.Error(t, err)
}

func TestClient_Commands(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"status --porcelain":              " M App.js\n",
		"rev-parse --abbrev-ref":          "main\n",
		"rev-parse --is-inside-work-tree": "true\n",
	}}
	client := NewWithRunner(runner, "/repo", 0)
	ctx := context.Background()

	dirty, err := client.IsDirty(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	branch, err := client.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
	assert.True(t, client.IsRepository(ctx))

	require.NoError(t, client.Checkout(ctx, "feature"))
	require.NoError(t, client.CreateBranch(ctx, "upgrade"))
	require.NoError(t, client.Stash(ctx, "valen: before upgrade"))
	require.NoError(t, client.Apply(ctx, "/tmp/temp_App.js.patch"))

	var got [][]string
	for _, c := range runner.calls[3:] {
		got = append(got, c.args)
	}
	assert.Equal(t, [][]string{
		{"checkout", "feature"},
		{"checkout", "-b", "upgrade"},
		{"stash", "push", "--include-untracked", "-m", "valen: before upgrade"},
		{"apply", "--recount", "--whitespace=nowarn", "/tmp/temp_App.js.patch"},
	}, got)
}

func TestClient_IsDirtyClean(t *testing.T) {
	client := NewWithRunner(&fakeRunner{}, "/repo", 0)
	dirty, err := client.IsDirty(context.Background())
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.False(t, client.IsRepository(context.Background()))
}

func TestClient_ExcludedPaths(t *testing.T) {
	runner := &fakeRunner{}
	client := NewWithRunner(runner, "/repo", 0)
	ctx := context.Background()

	_, err := client.IsDirty(ctx, ".valen")
	require.NoError(t, err)
	require.NoError(t, client.Stash(ctx, "before upgrade", ".valen", ".upgrade-patches"))

	assert.Equal(t, []string{"status", "--porcelain", "--", ".", ":(exclude).valen"}, runner.calls[0].args)
	assert.Equal(t, []string{
		"stash", "push", "--include-untracked", "-m", "before upgrade",
		"--", ".", ":(exclude).valen", ":(exclude).upgrade-patches",
	}, runner.calls[1].args)
}

func TestCommandError_Message(t *testing.T) {
	err := &CommandError{Args: []string{"apply", "x.patch"}, ExitCode: 1, Stderr: "error: patch failed\n"}
	assert.Contains(t, err.Error(), "git apply x.patch")
	assert.Contains(t, err.Error(), "patch failed")

	bare := &CommandError{Args: []string{"stash"}, ExitCode: 2}
	assert.Contains(t, bare.Error(), "exit status 2")
}

func TestExecRunner_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	ctx := context.Background()
	runner := ExecRunner{}
	_, err := runner.Run(ctx, dir, "init", "-q")
	require.NoError(t, err)

	client := NewWithRunner(runner, dir, 10*time.Second)
	assert.True(t, client.IsRepository(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.js"), []byte("one\n"), 0o644))
	dirty, err := client.IsDirty(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)
	dirty, err = client.IsDirty(ctx, "App.js")
	require.NoError(t, err)
	assert.False(t, dirty)

	patch := "--- a/App.js\n+++ b/App.js\n@@ -1 +1 @@\n-one\n+two\n"
	patchPath := filepath.Join(dir, "change.patch")
	require.NoError(t, os.WriteFile(patchPath, []byte(patch), 0o644))
	require.NoError(t, client.Apply(ctx, patchPath))
	data, err := os.ReadFile(filepath.Join(dir, "App.js"))
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))

	err = client.Apply(ctx, patchPath)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.NotZero(t, cmdErr.ExitCode)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{Binary: filepath.Join(t.TempDir(), "no-git")}.Run(context.Background(), t.TempDir(), "status")
	require.Error(t, err)
	var cmdErr *CommandError
	assert.False(t, errors.As(err, &cmdErr))
}
