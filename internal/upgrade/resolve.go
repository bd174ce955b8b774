package upgrade

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/valen-cli/valen/internal/messages"
	"github.com/valen-cli/valen/internal/prompt"
)

// DefaultSearchExcludes are directory names never searched for candidates.
var DefaultSearchExcludes = []string{"node_modules", ".git", "Pods", "build", ".gradle", ".valen", ".upgrade-patches", ".upgrade-templates"}

// Resolution is the outcome of locating a change's target file.
type Resolution struct {
	// Path is project-relative with forward slashes.
	Path string
	// Skip is set when the operator chose not to handle the change.
	Skip bool
	// Created is set when an empty file was created for the change.
	Created bool
}

// Resolver finds the file a patch should modify, asking the operator when
// the expected path does not exist.
type Resolver struct {
	Root    string
	UI      prompt.UI
	Out     io.Writer
	Exclude []string
}

// Resolve returns the target for pf. Existing files and changes that
// create their file resolve without prompting.
func (r *Resolver) Resolve(pf PatchFile) (Resolution, error) {
	rel := pf.TargetPath
	if fileExists(r.abs(rel)) || pf.Change.Created {
		return Resolution{Path: rel}, nil
	}
	_, _ = color.New(color.FgYellow).Fprintf(r.Out, messages.ResolveMissingTargetFmt, rel)

	for {
		choice, err := prompt.Choose(r.UI, fmt.Sprintf(messages.ResolveMenuTitleFmt, rel), []string{
			messages.ResolveOptionSearch,
			messages.ResolveOptionSpecify,
			messages.ResolveOptionCreate,
			messages.ResolveOptionSkip,
		})
		if errors.Is(err, prompt.ErrBack) {
			return Resolution{Skip: true}, nil
		}
		if err != nil {
			return Resolution{}, err
		}
		switch choice {
		case messages.ResolveOptionSearch:
			res, done, err := r.searchFlow(rel)
			if err != nil || done {
				return res, err
			}
		case messages.ResolveOptionSpecify:
			res, done, err := r.specifyFlow(rel)
			if err != nil || done {
				return res, err
			}
		case messages.ResolveOptionCreate:
			return r.create(rel)
		default:
			return Resolution{Skip: true}, nil
		}
	}
}

// searchFlow offers same-basename candidates. done is false when the
// operator goes back to the main menu.
func (r *Resolver) searchFlow(rel string) (Resolution, bool, error) {
	candidates, err := r.Search(filepath.Base(rel))
	if err != nil {
		return Resolution{}, false, err
	}
	if len(candidates) == 0 {
		_, _ = fmt.Fprintf(r.Out, messages.ResolveNoCandidatesFmt, filepath.Base(rel))
	}
	options := append(append([]string(nil), candidates...), messages.ResolveOptionCreate, messages.ResolveOptionBack)
	choice, err := prompt.Choose(r.UI, fmt.Sprintf(messages.ResolveSearchTitleFmt, filepath.Base(rel)), options)
	if errors.Is(err, prompt.ErrBack) {
		return Resolution{}, false, nil
	}
	if err != nil {
		return Resolution{}, false, err
	}
	switch choice {
	case messages.ResolveOptionBack:
		return Resolution{}, false, nil
	case messages.ResolveOptionCreate:
		res, err := r.create(rel)
		return res, true, err
	}
	return Resolution{Path: choice}, true, nil
}

func (r *Resolver) specifyFlow(rel string) (Resolution, bool, error) {
	value := ""
	err := r.UI.Input(messages.ResolveSpecifyTitle, &value)
	if errors.Is(err, prompt.ErrBack) {
		return Resolution{}, false, nil
	}
	if err != nil {
		return Resolution{}, false, err
	}
	value = filepath.ToSlash(strings.TrimSpace(value))
	if value == "" {
		return Resolution{}, false, nil
	}
	if filepath.IsAbs(value) {
		if relValue, relErr := filepath.Rel(r.Root, value); relErr == nil {
			value = filepath.ToSlash(relValue)
		}
	}
	if err := checkSafePath(value); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(r.Out, err.Error())
		return Resolution{}, false, nil
	}
	if !fileExists(r.abs(value)) {
		_, _ = color.New(color.FgRed).Fprintf(r.Out, messages.ResolvePathNotFoundFmt, value)
		return Resolution{}, false, nil
	}
	return Resolution{Path: value}, true, nil
}

func (r *Resolver) create(rel string) (Resolution, error) {
	abs := r.abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Resolution{}, fmt.Errorf(messages.ResolveCreateFileFmt, rel, err)
	}
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Resolution{}, fmt.Errorf(messages.ResolveCreateFileFmt, rel, err)
	}
	if err := f.Close(); err != nil {
		return Resolution{}, fmt.Errorf(messages.ResolveCreateFileFmt, rel, err)
	}
	_, _ = color.New(color.FgGreen).Fprintf(r.Out, messages.ResolveCreatedFmt, rel)
	return Resolution{Path: rel, Created: true}, nil
}

// Search returns project-relative paths of files named base, sorted.
func (r *Resolver) Search(base string) ([]string, error) {
	exclude := make(map[string]struct{}, len(r.Exclude)+len(DefaultSearchExcludes))
	for _, name := range DefaultSearchExcludes {
		exclude[name] = struct{}{}
	}
	for _, name := range r.Exclude {
		exclude[filepath.Base(name)] = struct{}{}
	}
	var found []string
	err := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if _, skip := exclude[d.Name()]; skip && path != r.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != base {
			return nil
		}
		rel, relErr := filepath.Rel(r.Root, path)
		if relErr != nil {
			return nil
		}
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(messages.ResolveSearchFailedFmt, base, err)
	}
	sort.Strings(found)
	return found, nil
}

func (r *Resolver) abs(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
