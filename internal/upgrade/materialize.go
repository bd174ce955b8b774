package upgrade

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

// PatchFile is a change written to disk.
type PatchFile struct {
	// Name is the patch file name, e.g. android_app_build.gradle.patch.
	Name string
	// Path is the patch file location.
	Path string
	// TargetPath is the normalized project-relative path the patch modifies.
	TargetPath string
	Change     FileChange
}

// NormalizePath strips a leading "{appName}/" segment and collapses the
// "/app/app/" artifact left by substitution.
func NormalizePath(p string, appName string) string {
	p = strings.TrimPrefix(p, "./")
	if appName != "" {
		p = strings.TrimPrefix(p, appName+"/")
	}
	for strings.Contains(p, "/app/app/") {
		p = strings.ReplaceAll(p, "/app/app/", "/app/")
	}
	return p
}

// PatchName derives the patch file name from a normalized path.
func PatchName(targetPath string) string {
	return strings.ReplaceAll(targetPath, "/", "_") + ".patch"
}

// PatchContent renders the on-disk patch for change against targetPath.
func PatchContent(change FileChange, targetPath string) string {
	from := "a/" + targetPath
	to := "b/" + targetPath
	if change.Created {
		from = devNull
	}
	if change.Deleted {
		to = devNull
	}
	return "--- " + from + "\n+++ " + to + "\n" + change.Body
}

func checkSafePath(p string) error {
	clean := path.Clean(p)
	if p == "" || path.IsAbs(p) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %s", ErrUnsafePath, p)
	}
	return nil
}

// Materialize writes one patch file per change into dir, creating dir when
// needed and overwriting earlier runs. Nothing is written when two changes
// collide on target path or patch name.
func Materialize(dir string, changes []FileChange, appName string) ([]PatchFile, error) {
	patches := make([]PatchFile, 0, len(changes))
	targets := make(map[string]string, len(changes))
	names := make(map[string]string, len(changes))
	for _, change := range changes {
		target := NormalizePath(change.Path, appName)
		if err := checkSafePath(target); err != nil {
			return nil, err
		}
		if prev, ok := targets[target]; ok {
			return nil, fmt.Errorf("%w: "+messages.UpgradeDuplicateTargetFmt, ErrDuplicatePatchPath, prev, change.Path, target)
		}
		targets[target] = change.Path
		name := PatchName(target)
		if prev, ok := names[name]; ok {
			return nil, fmt.Errorf("%w: "+messages.UpgradeDuplicateTargetFmt, ErrDuplicatePatchPath, prev, target, name)
		}
		names[name] = target
		patches = append(patches, PatchFile{
			Name:       name,
			Path:       filepath.Join(dir, name),
			TargetPath: target,
			Change:     change,
		})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf(messages.UpgradeCreatePatchDirFmt, dir, err)
	}
	for _, p := range patches {
		if err := os.WriteFile(p.Path, []byte(PatchContent(p.Change, p.TargetPath)), 0o644); err != nil {
			return nil, fmt.Errorf(messages.UpgradeWritePatchFmt, p.Path, err)
		}
	}
	return patches, nil
}
