package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/deps"
	"github.com/valen-cli/valen/internal/lock"
	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
)

// DefaultMaxAttempts bounds pipeline retries.
const DefaultMaxAttempts = 3

// Fetcher downloads the release diff and the gradle wrapper jar.
type Fetcher interface {
	FetchDiff(ctx context.Context, from string, to string) (string, error)
	AssetFetcher
}

// Git is the version-control surface the upgrade needs.
type Git interface {
	Patcher
	IsRepository(ctx context.Context) bool
	BranchExists(ctx context.Context, name string) (bool, error)
	Checkout(ctx context.Context, name string) error
	CreateBranch(ctx context.Context, name string) error
	IsDirty(ctx context.Context, exclude ...string) (bool, error)
	Stash(ctx context.Context, message string, exclude ...string) error
}

// Browser opens a URL for the operator.
type Browser interface {
	Open(ctx context.Context, url string) error
}

// DepsAligner rewrites package.json for a release.
type DepsAligner interface {
	Align(ctx context.Context, targetVersion string) (deps.Report, error)
}

// Orchestrator runs the upgrade pipeline for one project.
type Orchestrator struct {
	Root         string
	PatchesDir   string
	TemplatesDir string
	LockPath     string
	LockWait     time.Duration
	// HelperURL is the upgrade-helper base URL. Empty hides the helper option.
	HelperURL    string
	CreateBranch bool
	PreviewLines int
	MaxAttempts  int

	Fetcher   Fetcher
	Git       Git
	Completer Completer
	Editor    Editor
	Browser   Browser
	// Aligner is optional. Nil skips dependency alignment.
	Aligner DepsAligner

	UI     prompt.UI
	Out    io.Writer
	Logger *slog.Logger
}

type runState struct {
	aligned  bool
	attempts int
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Run upgrades the project at Root as described by req. Empty request
// fields are filled from the detected project. ErrUpgradeAborted is
// returned when the operator aborts.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Summary, error) {
	lk, err := lock.Acquire(o.LockPath, o.LockWait)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return Summary{}, fmt.Errorf("%w: %w", ErrProjectLocked, err)
		}
		return Summary{}, err
	}
	defer func() {
		if err := lk.Release(); err != nil {
			o.logger().Warn("release project lock", "path", o.LockPath, "error", err)
		}
	}()

	project, err := DetectProject(o.Root)
	if err != nil {
		return Summary{}, err
	}
	if len(project.Scaffold) == 0 {
		o.logger().Info("no scaffold files found", "root", o.Root)
	}
	req = project.Defaults(req)
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}
	o.logger().Info("upgrade starting", "from", req.CurrentVersion, "to", req.TargetVersion, "app", req.AppName)

	branch, err := o.prepareBranch(ctx, req)
	if err != nil {
		return Summary{}, err
	}

	maxAttempts := o.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	state := &runState{}
	for {
		state.attempts++
		summary, err := o.pipeline(ctx, req, state)
		summary.Branch = branch
		if err == nil {
			_ = summary.Render(o.Out)
			return summary, nil
		}
		if errors.Is(err, ErrUpgradeAborted) || ctx.Err() != nil {
			_ = summary.Render(o.Out)
			return summary, err
		}
		_, _ = color.New(color.FgRed).Fprintf(o.Out, messages.UpgradePipelineFailedFmt, err)
		if state.attempts >= maxAttempts {
			return summary, fmt.Errorf("%w: "+messages.UpgradeAttemptsExhaustedFmt+": %w", ErrUpgradeAborted, state.attempts, err)
		}

		options := []string{messages.UpgradeOptionRetry}
		if o.helperAvailable() {
			options = append(options, messages.UpgradeOptionHelper)
		}
		options = append(options, messages.UpgradeOptionAbort)
		choice, cerr := prompt.Choose(o.UI, messages.UpgradeRecoveryTitle, options)
		if cerr != nil {
			return summary, fmt.Errorf("%w: %w", ErrUpgradeAborted, cerr)
		}
		switch choice {
		case messages.UpgradeOptionRetry:
			o.logger().Info("retrying upgrade", "attempt", state.attempts+1)
			continue
		case messages.UpgradeOptionHelper:
			if herr := o.OpenHelper(ctx, req); herr != nil {
				return summary, herr
			}
			return summary, nil
		default:
			return summary, fmt.Errorf("%w: %w", ErrUpgradeAborted, err)
		}
	}
}

func (o *Orchestrator) pipeline(ctx context.Context, req Request, state *runState) (Summary, error) {
	var summary Summary

	if o.Aligner != nil && !state.aligned {
		state.aligned = true
		if err := o.alignDeps(ctx, req); err != nil {
			return summary, err
		}
	}

	_, _ = fmt.Fprintf(o.Out, messages.UpgradeFetchingFmt, req.CurrentVersion, req.TargetVersion)
	doc, err := o.Fetcher.FetchDiff(ctx, req.CurrentVersion, req.TargetVersion)
	if err != nil {
		return summary, err
	}
	changes, err := Split(doc, req.Substituter())
	if err != nil {
		return summary, err
	}
	if len(changes) == 0 {
		_, _ = fmt.Fprintln(o.Out, messages.UpgradeNothingToDo)
		return summary, nil
	}

	if err := RenderPlan(o.Out, changes, req.AppName, false); err != nil {
		return summary, err
	}
	ok, err := prompt.Ask(o.UI, fmt.Sprintf(messages.UpgradeConfirmPlanFmt, len(changes)), true)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrUpgradeAborted, err)
	}
	if !ok {
		_, _ = fmt.Fprintln(o.Out, messages.UpgradePlanDeclined)
		return summary, nil
	}

	patches, err := Materialize(o.PatchesDir, changes, req.AppName)
	if err != nil {
		return summary, err
	}
	o.logger().Debug("patches written", "dir", o.PatchesDir, "count", len(patches))

	app := o.applicator(req)
	for _, pf := range patches {
		ok, err := prompt.Ask(o.UI, fmt.Sprintf(messages.UpgradeConfirmFileFmt, pf.TargetPath), true)
		if errors.Is(err, prompt.ErrBack) {
			ok, err = false, nil
		}
		if err != nil {
			return summary, fmt.Errorf("%w: %w", ErrUpgradeAborted, err)
		}
		if !ok {
			summary.Record(pf.TargetPath, Skipped)
			continue
		}
		outcome, err := app.Apply(ctx, pf)
		for err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			if errors.Is(err, prompt.ErrCancelled) {
				summary.Record(pf.TargetPath, Aborted)
				return summary, fmt.Errorf("%w: %w", ErrUpgradeAborted, err)
			}
			_, _ = color.New(color.FgRed).Fprintf(o.Out, messages.UpgradeFileFailedFmt, pf.TargetPath, err)
			choice, cerr := prompt.Choose(o.UI, fmt.Sprintf(messages.UpgradeFileRecoveryTitleFmt, pf.TargetPath), []string{
				messages.UpgradeOptionSkipChange,
				messages.UpgradeOptionManualEdit,
				messages.UpgradeOptionAbort,
			})
			if cerr != nil {
				summary.Record(pf.TargetPath, Aborted)
				return summary, fmt.Errorf("%w: %w", ErrUpgradeAborted, cerr)
			}
			switch choice {
			case messages.UpgradeOptionSkipChange:
				outcome, err = Skipped, nil
			case messages.UpgradeOptionManualEdit:
				outcome, err = app.ManualEdit(ctx, pf)
			default:
				summary.Record(pf.TargetPath, Aborted)
				return summary, ErrUpgradeAborted
			}
		}
		summary.Record(pf.TargetPath, outcome)
	}
	return summary, nil
}

func (o *Orchestrator) applicator(req Request) *Applicator {
	var strategies []Strategy
	if o.Git != nil {
		strategies = append(strategies, &ToolStrategy{Git: o.Git, Dir: o.PatchesDir})
	}
	if o.Completer != nil {
		strategies = append(strategies, &AIStrategy{
			Completer:       o.Completer,
			UI:              o.UI,
			Out:             o.Out,
			ScratchDir:      o.TemplatesDir,
			MaxPreviewLines: o.PreviewLines,
		})
	}
	if o.Editor != nil {
		strategies = append(strategies, &ManualStrategy{Editor: o.Editor, UI: o.UI})
	}
	return &Applicator{
		Root:          o.Root,
		TargetVersion: req.TargetVersion,
		Assets:        o.Fetcher,
		Resolver:      &Resolver{Root: o.Root, UI: o.UI, Out: o.Out, Exclude: []string{o.PatchesDir, o.TemplatesDir}},
		UI:            o.UI,
		Out:           o.Out,
		Strategies:    strategies,
		Logger:        o.Logger,
	}
}

// alignDeps failures are reported and the upgrade carries on.
func (o *Orchestrator) alignDeps(ctx context.Context, req Request) error {
	ok, err := prompt.Ask(o.UI, fmt.Sprintf(messages.UpgradeConfirmAlignFmt, req.TargetVersion), true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpgradeAborted, err)
	}
	if !ok {
		return nil
	}
	report, err := o.Aligner.Align(ctx, req.TargetVersion)
	if err != nil {
		o.logger().Warn("align-deps failed", "error", err)
		_, _ = color.New(color.FgYellow).Fprintf(o.Out, messages.UpgradeAlignFailedFmt, err)
		return nil
	}
	return report.Render(o.Out)
}

func (o *Orchestrator) prepareBranch(ctx context.Context, req Request) (string, error) {
	if !o.CreateBranch || o.Git == nil {
		return "", nil
	}
	if !o.Git.IsRepository(ctx) {
		_, _ = color.New(color.FgYellow).Fprintln(o.Out, messages.UpgradeNotGitRepository)
		return "", nil
	}
	exclude := o.scratchPaths()
	dirty, err := o.Git.IsDirty(ctx, exclude...)
	if err != nil {
		return "", err
	}
	if dirty {
		stash, err := prompt.Ask(o.UI, messages.UpgradeConfirmStash, true)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUpgradeAborted, err)
		}
		if stash {
			if err := o.Git.Stash(ctx, fmt.Sprintf(messages.UpgradeStashMessageFmt, req.CurrentVersion, req.TargetVersion), exclude...); err != nil {
				return "", err
			}
		} else {
			_, _ = color.New(color.FgYellow).Fprintln(o.Out, messages.UpgradeDirtyContinue)
		}
	}

	name := req.BranchName()
	exists, err := o.Git.BranchExists(ctx, name)
	if err != nil {
		return "", err
	}
	if exists {
		err = o.Git.Checkout(ctx, name)
	} else {
		err = o.Git.CreateBranch(ctx, name)
	}
	if err != nil {
		return "", err
	}
	_, _ = fmt.Fprintf(o.Out, messages.UpgradeOnBranchFmt, name)
	return name, nil
}

// scratchPaths lists project-relative paths Valen writes during a run.
func (o *Orchestrator) scratchPaths() []string {
	var out []string
	for _, p := range []string{filepath.Dir(o.LockPath), o.PatchesDir, o.TemplatesDir} {
		if p == "" || p == "." {
			continue
		}
		rel, err := filepath.Rel(o.Root, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func (o *Orchestrator) helperAvailable() bool {
	return o.Browser != nil && o.HelperURL != ""
}

// OpenHelper opens the upgrade helper for req in the browser.
func (o *Orchestrator) OpenHelper(ctx context.Context, req Request) error {
	link := HelperURL(o.HelperURL, req)
	_, _ = fmt.Fprintf(o.Out, messages.UpgradeOpeningHelperFmt, link)
	if o.Browser == nil {
		return nil
	}
	return o.Browser.Open(ctx, link)
}

// HelperURL appends the from, to, name and package parameters to base.
func HelperURL(base string, req Request) string {
	params := []string{
		"from=" + url.QueryEscape(req.CurrentVersion),
		"to=" + url.QueryEscape(req.TargetVersion),
		"name=" + url.QueryEscape(req.AppName),
		"package=" + url.QueryEscape(req.AppPackage),
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(params, "&")
}
