package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/logging"
	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	upgradeMode    string
	appName        string
	appPackage     string
	currentVersion string
	targetVersion  string
	yes            bool
	logLevel       string
}

var newUI = prompt.New

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.upgradeMode == "" {
				return cmd.Help()
			}
			return runUpgrade(cmd, opts, opts.upgradeMode)
		},
	}
	cmd.Flags().StringVar(&opts.upgradeMode, "upgrade", "", messages.FlagUpgrade)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.appName, "app-name", "", messages.FlagAppName)
	flags.StringVar(&opts.appPackage, "app-package", "", messages.FlagAppPackage)
	flags.StringVar(&opts.currentVersion, "current-version", "", messages.FlagCurrentVersion)
	flags.StringVar(&opts.targetVersion, "target-version", "", messages.FlagTargetVersion)
	flags.BoolVarP(&opts.yes, "yes", "y", false, messages.FlagYes)
	flags.StringVar(&opts.logLevel, "log-level", "", messages.FlagLogLevel)

	cmd.AddCommand(
		newUpgradeCmd(opts),
		newDoctorCmd(),
		newCleanCmd(),
		newVersionCmd(),
		newConfigCmd(),
		newKeysCmd(opts),
	)
	return cmd
}

// session is the per-invocation state every project command starts from.
type session struct {
	root   string
	paths  config.Paths
	cfg    *config.Config
	creds  config.Credentials
	logger *slog.Logger
	ui     prompt.UI
	out    io.Writer
}

func (o *rootOptions) newSession(cmd *cobra.Command) (*session, error) {
	logger, err := logging.New(logging.Options{
		Level:  o.logLevel,
		Writer: cmd.ErrOrStderr(),
		Color:  !color.NoColor,
	})
	if err != nil {
		return nil, err
	}
	root, paths, cfg, err := loadProjectConfig()
	if err != nil {
		return nil, err
	}
	creds, err := config.LoadCredentials(paths.EnvPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("session ready", "root", root, "config", paths.ProjectConfig, "user_config", paths.UserConfig)
	return &session{
		root:   root,
		paths:  paths,
		cfg:    cfg,
		creds:  creds,
		logger: logger,
		ui:     newUI(cmd.InOrStdin(), cmd.OutOrStdout(), o.yes),
		out:    cmd.OutOrStdout(),
	}, nil
}

// loadProjectConfig resolves the working directory and loads its merged config.
func loadProjectConfig() (string, config.Paths, *config.Config, error) {
	root, err := getwd()
	if err != nil {
		return "", config.Paths{}, nil, fmt.Errorf(messages.RootGetwdFmt, err)
	}
	paths, err := config.DefaultPaths(root)
	if err != nil {
		return "", config.Paths{}, nil, err
	}
	cfg, err := config.Load(paths)
	if err != nil {
		return "", config.Paths{}, nil, err
	}
	return root, paths, cfg, nil
}

