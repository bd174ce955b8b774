package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/valen-cli/valen/internal/browser"
	"github.com/valen-cli/valen/internal/completion"
	"github.com/valen-cli/valen/internal/deps"
	"github.com/valen-cli/valen/internal/editor"
	"github.com/valen-cli/valen/internal/gitx"
	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
	"github.com/valen-cli/valen/internal/rndiff"
	"github.com/valen-cli/valen/internal/upgrade"
)

const (
	modeAuto = "auto"
	modeWeb  = "web"
)

var (
	newBrowser    = func() upgrade.Browser { return browser.System{} }
	latestVersion = func(ctx context.Context, client *rndiff.Client) (string, error) {
		return client.LatestVersion(ctx)
	}
)

func newUpgradeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       messages.UpgradeUse,
		Short:     messages.UpgradeShort,
		Long:      messages.UpgradeLong,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{modeAuto, modeWeb},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := ""
			if len(args) == 1 {
				mode = args[0]
			}
			return runUpgrade(cmd, opts, mode)
		},
	}
}

func runUpgrade(cmd *cobra.Command, opts *rootOptions, mode string) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	if mode == "" {
		mode, err = chooseMode(s.ui)
		if err != nil {
			return err
		}
		if mode == "" {
			_, _ = fmt.Fprintln(s.out, messages.UpgradeCancelled)
			return nil
		}
	}
	if mode != modeAuto && mode != modeWeb {
		return fmt.Errorf(messages.UpgradeUnknownModeFmt, mode)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	fetcher := rndiff.New(s.cfg.Upgrade.DiffURL, s.cfg.Upgrade.AssetURL, s.cfg.Timeouts.Fetch.Duration)
	req, err := s.buildRequest(ctx, opts, fetcher)
	if err != nil {
		return err
	}
	orch := s.orchestrator(cmd, fetcher)

	if mode == modeWeb {
		if err := req.Validate(); err != nil {
			return err
		}
		return orch.OpenHelper(ctx, req)
	}

	_, err = orch.Run(ctx, req)
	if errors.Is(err, upgrade.ErrUpgradeAborted) {
		_, _ = color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), messages.UpgradeAbortedExitFmt, err)
		return &SilentExitError{Code: 1}
	}
	return err
}

// chooseMode returns an empty mode when the operator cancels.
func chooseMode(ui prompt.UI) (string, error) {
	choice, err := prompt.Choose(ui, messages.UpgradeModeTitle, []string{
		messages.UpgradeModeAuto,
		messages.UpgradeModeWeb,
		messages.UpgradeModeCancel,
	})
	if errors.Is(err, prompt.ErrBack) || errors.Is(err, prompt.ErrCancelled) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	switch choice {
	case messages.UpgradeModeAuto:
		return modeAuto, nil
	case messages.UpgradeModeWeb:
		return modeWeb, nil
	default:
		return "", nil
	}
}

// buildRequest merges flags with the detected project and asks for what is still missing.
// The target version prompt is seeded with the latest published release.
func (s *session) buildRequest(ctx context.Context, opts *rootOptions, fetcher *rndiff.Client) (upgrade.Request, error) {
	req := upgrade.Request{
		AppName:        opts.appName,
		AppPackage:     opts.appPackage,
		CurrentVersion: upgrade.NormalizeVersion(opts.currentVersion),
		TargetVersion:  upgrade.NormalizeVersion(opts.targetVersion),
	}
	project, err := upgrade.DetectProject(s.root)
	if err != nil {
		return req, err
	}
	req = project.Defaults(req)

	inputs := []struct {
		title string
		value *string
	}{
		{messages.UpgradeInputAppName, &req.AppName},
		{messages.UpgradeInputAppPackage, &req.AppPackage},
		{messages.UpgradeInputCurrentVersion, &req.CurrentVersion},
	}
	for _, in := range inputs {
		if *in.value != "" {
			continue
		}
		if err := s.ui.Input(in.title, in.value); err != nil {
			return req, err
		}
	}
	if req.TargetVersion == "" {
		latest, err := latestVersion(ctx, fetcher)
		if err != nil {
			s.logger.Warn("latest react-native version unavailable", "error", err)
		}
		req.TargetVersion = latest
		if err := s.ui.Input(messages.UpgradeInputTargetVersion, &req.TargetVersion); err != nil {
			return req, err
		}
	}
	req.CurrentVersion = upgrade.NormalizeVersion(req.CurrentVersion)
	req.TargetVersion = upgrade.NormalizeVersion(req.TargetVersion)
	return req, nil
}

func (s *session) orchestrator(cmd *cobra.Command, fetcher *rndiff.Client) *upgrade.Orchestrator {
	cfg := s.cfg
	chain := completion.NewChain(cfg.Providers, s.creds,
		completion.WithTimeout(cfg.Timeouts.Completion.Duration),
		completion.WithSystemPrompt(messages.CompletionSystemPrompt),
		completion.WithLogger(s.logger),
	)
	orch := &upgrade.Orchestrator{
		Root:         s.root,
		PatchesDir:   s.paths.PatchesPath(cfg),
		TemplatesDir: s.paths.TemplatesPath(cfg),
		LockPath:     s.paths.LockPath,
		LockWait:     cfg.Upgrade.LockWait.Duration,
		HelperURL:    cfg.Upgrade.HelperURL,
		CreateBranch: cfg.CreateBranchEnabled(),
		Fetcher:      fetcher,
		Git:          gitx.New(s.root, cfg.Timeouts.Git.Duration),
		Completer:    chain,
		Browser:      newBrowser(),
		UI:           s.ui,
		Out:          s.out,
		Logger:       s.logger,
	}

	command, err := editor.Resolve(cfg.Editor.Command, cfg.Editor.Args, os.Getenv)
	if err != nil {
		s.logger.Warn("manual edit unavailable", "error", err)
	} else {
		orch.Editor = &editor.Launcher{
			Command: command,
			Timeout: cfg.Timeouts.Editor.Duration,
			Stdin:   cmd.InOrStdin(),
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
		}
	}

	if cfg.AlignDepsEnabled() {
		orch.Aligner = &deps.Aligner{
			Runner:  deps.ExecRunner{Stdout: cmd.ErrOrStderr(), Stderr: cmd.ErrOrStderr()},
			Dir:     s.root,
			Timeout: cfg.Timeouts.Deps.Duration,
		}
	}
	return orch
}
