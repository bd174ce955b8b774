package upgrade

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/messages"
)

// Outcome is the terminal state of one change.
type Outcome int

const (
	// Aborted is the zero value so an unset outcome never reads as success.
	Aborted Outcome = iota
	Applied
	AppliedAI
	ManuallyEdited
	Removed
	Skipped
)

var outcomeNames = map[Outcome]string{
	Aborted:        "aborted",
	Applied:        "applied",
	AppliedAI:      "applied with AI",
	ManuallyEdited: "edited manually",
	Removed:        "removed",
	Skipped:        "skipped",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

var summaryOrder = []Outcome{Applied, AppliedAI, ManuallyEdited, Removed, Skipped, Aborted}

// Summary records the outcome of each change in a run.
type Summary struct {
	Branch  string
	Results []Result
}

// Result pairs a target path with its outcome.
type Result struct {
	Path    string
	Outcome Outcome
}

// Record appends one result.
func (s *Summary) Record(path string, outcome Outcome) {
	s.Results = append(s.Results, Result{Path: path, Outcome: outcome})
}

// Counts tallies results per outcome.
func (s Summary) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, r := range s.Results {
		counts[r.Outcome]++
	}
	return counts
}

// Render prints per-outcome totals.
func (s Summary) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, messages.UpgradeSummaryHeaderFmt, len(s.Results)); err != nil {
		return err
	}
	counts := s.Counts()
	for _, o := range summaryOrder {
		if counts[o] == 0 {
			continue
		}
		c := color.New(outcomeColor(o))
		if _, err := c.Fprintf(w, messages.UpgradeSummaryLineFmt, o, counts[o]); err != nil {
			return err
		}
	}
	if s.Branch != "" {
		if _, err := fmt.Fprintf(w, messages.UpgradeSummaryBranchFmt, s.Branch); err != nil {
			return err
		}
	}
	return nil
}

func outcomeColor(o Outcome) color.Attribute {
	switch o {
	case Applied, AppliedAI, ManuallyEdited, Removed:
		return color.FgGreen
	case Skipped:
		return color.FgYellow
	default:
		return color.FgRed
	}
}
