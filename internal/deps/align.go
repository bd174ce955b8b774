// Package deps aligns package.json dependencies with a React Native release
// through @rnx-kit/align-deps and reports what changed.
package deps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/wI2L/jsondiff"

	"github.com/valen-cli/valen/internal/messages"
)

// Runner executes an external tool inside dir.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}

// ExecRunner runs tools with the process's standard streams.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args and waits for it to exit.
func (r ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf(messages.DepsToolFailedFmt, name, err)
	}
	return nil
}

// Aligner runs align-deps against one project directory.
type Aligner struct {
	Runner  Runner
	Dir     string
	Timeout time.Duration
}

// Requirement returns the align-deps requirement for a release, using its minor line.
func Requirement(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) >= 2 {
		return "react-native@" + parts[0] + "." + parts[1]
	}
	return "react-native@" + version
}

// Align rewrites package.json for targetVersion and reports the dependency changes.
func (a *Aligner) Align(ctx context.Context, targetVersion string) (Report, error) {
	manifest := filepath.Join(a.Dir, "package.json")
	before, err := os.ReadFile(manifest)
	if err != nil {
		return Report{}, fmt.Errorf(messages.DepsReadManifestFmt, manifest, err)
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	if err := a.Runner.Run(ctx, a.Dir, "npx", "--yes", "@rnx-kit/align-deps", "--requirements", Requirement(targetVersion), "--write"); err != nil {
		return Report{}, err
	}
	after, err := os.ReadFile(manifest)
	if err != nil {
		return Report{}, fmt.Errorf(messages.DepsReadManifestFmt, manifest, err)
	}
	return Diff(before, after)
}

// Change is one dependency edit.
type Change struct {
	Op      string
	Section string
	Package string
	Old     string
	New     string
}

// Report lists dependency edits in stable order.
type Report struct {
	Changes []Change
}

var dependencySections = map[string]bool{
	"dependencies":         true,
	"devDependencies":      true,
	"peerDependencies":     true,
	"optionalDependencies": true,
}

// Diff compares two package.json documents and keeps dependency edits only.
func Diff(before []byte, after []byte) (Report, error) {
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return Report{}, fmt.Errorf(messages.DepsDiffManifestFmt, err)
	}
	var old map[string]map[string]any
	_ = json.Unmarshal(before, &old)

	var report Report
	for _, op := range patch {
		segments := splitPointer(fmt.Sprint(op.Path))
		switch {
		case len(segments) == 2 && dependencySections[segments[0]]:
			report.Changes = append(report.Changes, Change{
				Op:      op.Type,
				Section: segments[0],
				Package: segments[1],
				Old:     lookup(old, segments[0], segments[1]),
				New:     stringValue(op.Value),
			})
		case len(segments) == 1 && dependencySections[segments[0]]:
			report.Changes = append(report.Changes, sectionChanges(op.Type, segments[0], old[segments[0]], op.Value)...)
		}
	}
	sort.SliceStable(report.Changes, func(i, j int) bool {
		if report.Changes[i].Section != report.Changes[j].Section {
			return report.Changes[i].Section < report.Changes[j].Section
		}
		return report.Changes[i].Package < report.Changes[j].Package
	})
	return report, nil
}

// sectionChanges expands an add or remove of a whole section into per-package edits.
func sectionChanges(opType string, section string, before map[string]any, value any) []Change {
	var out []Change
	switch opType {
	case "add":
		entries, _ := value.(map[string]any)
		for name, v := range entries {
			out = append(out, Change{Op: "add", Section: section, Package: name, New: stringValue(v)})
		}
	case "remove":
		for name, v := range before {
			out = append(out, Change{Op: "remove", Section: section, Package: name, Old: stringValue(v)})
		}
	}
	return out
}

// splitPointer decodes a JSON pointer into its reference tokens.
func splitPointer(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
	}
	return parts
}

func lookup(doc map[string]map[string]any, section string, name string) string {
	if doc == nil || doc[section] == nil {
		return ""
	}
	return stringValue(doc[section][name])
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Empty reports whether nothing changed.
func (r Report) Empty() bool {
	return len(r.Changes) == 0
}

// Render writes a colored summary of the changes.
func (r Report) Render(w io.Writer) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, messages.DepsNoChanges)
		return err
	}
	if _, err := fmt.Fprintln(w, messages.DepsChangesHeader); err != nil {
		return err
	}
	add := color.New(color.FgGreen)
	remove := color.New(color.FgRed)
	replace := color.New(color.FgYellow)
	for _, c := range r.Changes {
		var err error
		switch c.Op {
		case "add":
			_, err = add.Fprintf(w, messages.DepsAddedFmt, c.Section, c.Package, c.New)
		case "remove":
			_, err = remove.Fprintf(w, messages.DepsRemovedFmt, c.Section, c.Package, c.Old)
		default:
			_, err = replace.Fprintf(w, messages.DepsChangedFmt, c.Section, c.Package, c.Old, c.New)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
