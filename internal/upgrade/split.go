package upgrade

import (
	"fmt"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

const devNull = "/dev/null"

// FileChange is the part of a diff that touches one file.
type FileChange struct {
	// Path is the substituted b/ side path, before normalization.
	Path string
	// Body holds hunk headers and hunk lines, newline terminated.
	Body    string
	Created bool
	Deleted bool
	Binary  bool
}

// HasHunks reports whether the body carries at least one hunk.
func (c FileChange) HasHunks() bool {
	return strings.HasPrefix(c.Body, "@@") || strings.Contains(c.Body, "\n@@")
}

// Split parses a multi-file unified diff into ordered per-file changes.
// Hunk headers are kept verbatim so every hunk keeps its line numbers.
// Paths and bodies pass through sub.
func Split(doc string, sub Substituter) ([]FileChange, error) {
	var (
		changes []FileChange
		current *FileChange
		body    []string
		inHunk  bool
	)
	flush := func() {
		if current == nil {
			return
		}
		if len(body) > 0 {
			current.Body = strings.Join(body, "\n") + "\n"
		}
		changes = append(changes, *current)
		current = nil
		body = nil
	}

	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "diff --git ") {
			flush()
			path, err := headerPath(line)
			if err != nil {
				return nil, fmt.Errorf(messages.UpgradeSplitLineFmt, i+1, err)
			}
			current = &FileChange{Path: sub.Apply(path)}
			inHunk = false
			continue
		}
		if current == nil {
			continue
		}
		if !inHunk {
			switch {
			case strings.HasPrefix(line, "new file mode"):
				current.Created = true
				continue
			case strings.HasPrefix(line, "deleted file mode"):
				current.Deleted = true
				continue
			case strings.HasPrefix(line, "--- "):
				if strings.TrimSpace(strings.TrimPrefix(line, "--- ")) == devNull {
					current.Created = true
				}
				continue
			case strings.HasPrefix(line, "+++ "):
				if strings.TrimSpace(strings.TrimPrefix(line, "+++ ")) == devNull {
					current.Deleted = true
				}
				continue
			case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
				current.Binary = true
				continue
			}
		}
		switch {
		case strings.HasPrefix(line, "@@"):
			inHunk = true
			body = append(body, sub.Apply(line))
		case !inHunk:
			// index, mode and similarity lines carry no content.
		case line == "":
			body = append(body, " ")
		case line[0] == '+' || line[0] == '-' || line[0] == ' ' || line[0] == '\\':
			body = append(body, sub.Apply(line))
		}
	}
	flush()
	return changes, nil
}

// headerPath extracts the b/ side path from a `diff --git a/X b/Y` line.
func headerPath(line string) (string, error) {
	rest := strings.TrimPrefix(line, "diff --git ")
	idx := strings.LastIndex(rest, " b/")
	if !strings.HasPrefix(rest, "a/") || idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrMalformedDiff, line)
	}
	path := strings.TrimSpace(rest[idx+len(" b/"):])
	if path == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedDiff, line)
	}
	return path, nil
}
