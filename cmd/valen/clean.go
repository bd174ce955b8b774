package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valen-cli/valen/internal/lock"
	"github.com/valen-cli/valen/internal/messages"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.CleanUse,
		Short: messages.CleanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root, paths, cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			// A running upgrade owns the scratch directories.
			lk, err := lock.Acquire(paths.LockPath, 0)
			if err != nil {
				return err
			}
			defer func() { _ = lk.Release() }()

			removed := 0
			for _, dir := range []string{paths.PatchesPath(cfg), paths.TemplatesPath(cfg)} {
				if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
					continue
				}
				if err := os.RemoveAll(dir); err != nil {
					return fmt.Errorf(messages.CleanRemoveFailedFmt, dir, err)
				}
				rel, err := filepath.Rel(root, dir)
				if err != nil {
					rel = dir
				}
				_, _ = fmt.Fprintf(out, messages.CleanRemovedFmt, rel)
				removed++
			}
			if removed == 0 {
				_, _ = fmt.Fprintln(out, messages.CleanNothing)
			}
			return nil
		},
	}
}
