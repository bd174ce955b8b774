package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/valen-cli/valen/internal/config"
	"github.com/valen-cli/valen/internal/doctor"
	"github.com/valen-cli/valen/internal/messages"
)

var checkTools = doctor.CheckTools

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			root, err := getwd()
			if err != nil {
				return fmt.Errorf(messages.RootGetwdFmt, err)
			}
			paths, err := config.DefaultPaths(root)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, root)

			var allResults []doctor.Result
			allResults = append(allResults, doctor.CheckProject(root)...)

			configResults, cfg := doctor.CheckConfig(paths)
			allResults = append(allResults, configResults...)

			if cfg == nil {
				allResults = append(allResults, checkTools(ctx, true)...)
			} else {
				allResults = append(allResults, checkTools(ctx, cfg.AlignDepsEnabled())...)
				allResults = append(allResults, doctor.CheckEditor(cfg, os.Getenv))

				creds, err := config.LoadCredentials(paths.EnvPath)
				if err != nil {
					allResults = append(allResults, doctor.Result{
						Status:         doctor.StatusWarn,
						CheckName:      messages.DoctorCheckNameProviders,
						Message:        err.Error(),
						Recommendation: messages.DoctorCredentialsRecommend,
					})
				}
				allResults = append(allResults, doctor.CheckProviders(cfg, creds)...)
				allResults = append(allResults, doctor.CheckScratch(paths, cfg)...)
			}

			for _, r := range allResults {
				printResult(out, r)
			}
			if doctor.HasFailure(allResults) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	lines := strings.Split(recommendation, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}
