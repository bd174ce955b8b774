package upgrade

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valen-cli/valen/internal/completion"
	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/prompt"
	"github.com/valen-cli/valen/internal/testutil"
)

// fakePatcher records the patch it was given and whether the file existed
// while git apply ran.
type fakePatcher struct {
	err       error
	paths     []string
	contents  []string
	sawOnDisk bool
	hook      func()
}

func (f *fakePatcher) Apply(_ context.Context, patchPath string) error {
	f.paths = append(f.paths, patchPath)
	data, err := os.ReadFile(patchPath)
	f.sawOnDisk = err == nil
	f.contents = append(f.contents, string(data))
	if f.hook != nil {
		f.hook()
	}
	return f.err
}

func newAttempt(t *testing.T, root string, target string, patch string) *Attempt {
	t.Helper()
	return &Attempt{
		Patch:     PatchFile{Name: PatchName(target), TargetPath: target},
		Target:    target,
		PatchText: patch,
		Root:      root,
	}
}

func TestToolStrategy_RemovesTempPatch(t *testing.T) {
	for _, tc := range []struct {
		name    string
		err     error
		outcome Outcome
	}{
		{"success", nil, Applied},
		{"failure", errors.New("patch does not apply"), Aborted},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), ".upgrade-patches")
			git := &fakePatcher{err: tc.err}
			s := &ToolStrategy{Git: git, Dir: dir}

			outcome, err := s.Attempt(context.Background(), newAttempt(t, t.TempDir(), "src/App.tsx", "--- a/App.tsx\n+++ b/App.tsx\n@@ -1 +1 @@\n-a\n+b\n"))
			assert.Equal(t, tc.outcome, outcome)
			require.Len(t, git.paths, 1)
			assert.Equal(t, filepath.Join(dir, "temp_src_App.tsx.patch"), git.paths[0])
			assert.True(t, git.sawOnDisk)
			assert.Equal(t, "--- a/src/App.tsx\n+++ b/src/App.tsx\n@@ -1 +1 @@\n-a\n+b\n", git.contents[0])
			assert.NoFileExists(t, git.paths[0])
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrStrategyDeclined)
			assert.ErrorIs(t, err, ErrToolApply)
		})
	}
}

func TestRewriteHeaders(t *testing.T) {
	assert.Equal(t,
		"--- /dev/null\n+++ b/new/File.kt\n@@ -0,0 +1 @@\n+--- a/not-a-header\n",
		RewriteHeaders("--- /dev/null\n+++ b/File.kt\n@@ -0,0 +1 @@\n+--- a/not-a-header\n", "new/File.kt"))
	assert.Equal(t,
		"--- a/x/Podfile\n+++ /dev/null\n@@ -1 +0,0 @@\n-pod\n",
		RewriteHeaders("--- a/Podfile\n+++ /dev/null\n@@ -1 +0,0 @@\n-pod\n", "x/Podfile"))
}

func mockChain(t *testing.T, answers map[string]string) *completion.Chain {
	t.Helper()
	var specs []config.ProviderConfig
	secrets := map[string]string{}
	for _, name := range []string{"anthropic", "openai"} {
		if _, ok := answers[name]; !ok {
			continue
		}
		env := strings.ToUpper(name) + "_API_KEY"
		specs = append(specs, config.ProviderConfig{Name: name, Kind: config.KindOpenAI, Model: "m", CredentialEnv: env})
		secrets[env] = "secret"
	}
	return completion.NewChain(specs, config.StaticCredentials(secrets), completion.WithFactory(
		func(_ context.Context, spec config.ProviderConfig, _ string) (gollem.LLMClient, error) {
			text := answers[spec.Name]
			return &mock.LLMClientMock{
				NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
					return &mock.SessionMock{
						GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
							return &gollem.Response{Texts: []string{text}}, nil
						},
					}, nil
				},
			}, nil
		}))
}

func TestAIStrategy_WritesAcceptedAnswer(t *testing.T) {
	withoutColor(t)
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"ios/Podfile": "platform :ios, '12.4'\n"})
	scratch := filepath.Join(root, ".upgrade-templates")

	var confirms []string
	ui := &prompt.MockUI{ConfirmFunc: func(title string, value *bool) error {
		confirms = append(confirms, title)
		assert.False(t, *value, "AI rewrites default to no")
		*value = len(confirms) == 2
		return nil
	}}
	out := &bytes.Buffer{}
	s := &AIStrategy{
		Completer:  mockChain(t, map[string]string{"anthropic": "rejected\n", "openai": "```ruby\nplatform :ios, '13.4'\n```"}),
		UI:         ui,
		Out:        out,
		ScratchDir: scratch,
	}

	outcome, err := s.Attempt(context.Background(), newAttempt(t, root, "ios/Podfile", "--- a/ios/Podfile\n+++ b/ios/Podfile\n@@ -1 +1 @@\n-platform :ios, '12.4'\n+platform :ios, '13.4'\n"))
	require.NoError(t, err)
	assert.Equal(t, AppliedAI, outcome)
	assert.Len(t, confirms, 2)

	data, err := os.ReadFile(filepath.Join(root, "ios", "Podfile"))
	require.NoError(t, err)
	assert.Equal(t, "platform :ios, '13.4'\n", string(data))
	assert.FileExists(t, filepath.Join(scratch, "updated_Podfile"))
	assert.Contains(t, out.String(), "+platform :ios, '13.4'")
}

func TestAIStrategy_DeclinesWhenExhaustedOrUnconfigured(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"App.tsx": "old\n"})
	ui := &prompt.MockUI{}

	s := &AIStrategy{Completer: mockChain(t, map[string]string{"openai": "new\n"}), UI: ui, Out: &bytes.Buffer{}, ScratchDir: t.TempDir()}
	outcome, err := s.Attempt(context.Background(), newAttempt(t, root, "App.tsx", "@@ -1 +1 @@\n-old\n+new\n"))
	assert.Equal(t, Aborted, outcome)
	assert.ErrorIs(t, err, ErrStrategyDeclined)
	assert.ErrorIs(t, err, completion.ErrExhausted)

	s.Completer = mockChain(t, nil)
	_, err = s.Attempt(context.Background(), newAttempt(t, root, "App.tsx", "@@ -1 +1 @@\n-old\n+new\n"))
	assert.ErrorIs(t, err, ErrStrategyDeclined)
	assert.ErrorIs(t, err, completion.ErrNoProviders)

	data, err := os.ReadFile(filepath.Join(root, "App.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))
}

func TestBuildCompletionPrompt(t *testing.T) {
	p := BuildCompletionPrompt("ios/Podfile", "ORIGINAL", "PATCH")
	assert.Contains(t, p, "ios/Podfile")
	assert.Less(t, strings.Index(p, "ORIGINAL"), strings.Index(p, "PATCH"))
}

type fakeEditor struct {
	err   error
	paths []string
}

func (f *fakeEditor) Edit(_ context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.err
}

func TestManualStrategy(t *testing.T) {
	root := t.TempDir()
	var noted string
	answer := true
	ui := &prompt.MockUI{
		NoteFunc: func(title string, body string) error {
			noted = body
			return nil
		},
		ConfirmFunc: func(title string, value *bool) error {
			assert.False(t, *value)
			*value = answer
			return nil
		},
	}
	ed := &fakeEditor{}
	s := &ManualStrategy{Editor: ed, UI: ui}
	patch := "--- a/App.tsx\n+++ b/App.tsx\n@@ -1 +1 @@\n-a\n+b\n"

	outcome, err := s.Attempt(context.Background(), newAttempt(t, root, "App.tsx", patch))
	require.NoError(t, err)
	assert.Equal(t, ManuallyEdited, outcome)
	assert.Equal(t, patch, noted)
	assert.Equal(t, []string{filepath.Join(root, "App.tsx")}, ed.paths)

	answer = false
	outcome, err = s.Attempt(context.Background(), newAttempt(t, root, "App.tsx", patch))
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
	assert.Len(t, ed.paths, 1)

	answer = true
	ed.err = errors.New("editor exited with status 1")
	outcome, err = s.Attempt(context.Background(), newAttempt(t, root, "App.tsx", patch))
	assert.Equal(t, Aborted, outcome)
	assert.EqualError(t, err, "editor exited with status 1")
	assert.NotErrorIs(t, err, ErrStrategyDeclined)
}
