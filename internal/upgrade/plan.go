package upgrade

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/messages"
)

// PlanStats counts line changes in a file change body.
type PlanStats struct {
	Added   int
	Removed int
}

// Stats counts added and removed lines, ignoring hunk headers.
func (c FileChange) Stats() PlanStats {
	var s PlanStats
	for _, line := range splitDiffLines(c.Body) {
		switch {
		case strings.HasPrefix(line, "@@"):
		case strings.HasPrefix(line, "+"):
			s.Added++
		case strings.HasPrefix(line, "-"):
			s.Removed++
		}
	}
	return s
}

// RenderPlan prints every change with a status marker and its colored body.
// When compact is true only the file list is printed.
func RenderPlan(w io.Writer, changes []FileChange, appName string, compact bool) error {
	if _, err := fmt.Fprintf(w, messages.UpgradePlanHeaderFmt, len(changes)); err != nil {
		return err
	}
	created := color.New(color.FgGreen, color.Bold)
	deleted := color.New(color.FgRed, color.Bold)
	modified := color.New(color.FgYellow, color.Bold)
	for _, c := range changes {
		target := NormalizePath(c.Path, appName)
		stats := c.Stats()
		var err error
		switch {
		case c.Created:
			_, err = created.Fprintf(w, messages.UpgradePlanCreatedFmt, target, stats.Added)
		case c.Deleted:
			_, err = deleted.Fprintf(w, messages.UpgradePlanDeletedFmt, target)
		case c.Binary:
			_, err = modified.Fprintf(w, messages.UpgradePlanBinaryFmt, target)
		default:
			_, err = modified.Fprintf(w, messages.UpgradePlanModifiedFmt, target, stats.Added, stats.Removed)
		}
		if err != nil {
			return err
		}
		if compact || c.Deleted || c.Body == "" {
			continue
		}
		if err := WriteColorDiff(w, c.Body); err != nil {
			return err
		}
	}
	return nil
}
