package uploader

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/kballard/go-shellquote"

	"github.com/jask/imgdrop/internal/upload"
)

var errEmptyDrop = errors.New("nothing was dropped")

// missingFileError is returned when a dropped path does not name a file.
type missingFileError struct {
	path       string
	suggestion string
	err        error
}

func (e *missingFileError) Error() string {
	msg := fmt.Sprintf("no such file: %s", e.path)
	if e.suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.suggestion)
	}
	return msg
}

func (e *missingFileError) Unwrap() error { return e.err }

// pastedPaths splits what a terminal pastes when files are dragged onto it:
// shell-quoted paths separated by spaces, or file:// URIs one per line.
func pastedPaths(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	words, err := shellquote.Split(text)
	if err != nil {
		// unbalanced quote, most likely a single path with an apostrophe
		words = []string{text}
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.HasPrefix(w, "file://") {
			if u, err := url.Parse(w); err == nil {
				w = u.Path
			}
		}
		if strings.HasPrefix(w, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				w = filepath.Join(home, w[2:])
			}
		}
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// filesFromPaste resolves a paste into a drop payload. The first path has
// to be a regular file; later paths that do not resolve are left out.
func filesFromPaste(text string) ([]upload.File, error) {
	paths := pastedPaths(text)
	if len(paths) == 0 {
		return nil, errEmptyDrop
	}
	files := make([]upload.File, 0, len(paths))
	for i, p := range paths {
		f, err := upload.Open(p)
		if err != nil {
			if i > 0 {
				continue
			}
			if errors.Is(err, os.ErrNotExist) {
				return nil, &missingFileError{path: p, suggestion: closestSibling(p), err: err}
			}
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// closestSibling looks for a file next to path whose name is a small edit
// away, e.g. a typo or a lost escape in the pasted name.
func closestSibling(path string) string {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(e.Name()))
		if d < bestDist {
			best, bestDist = e.Name(), d
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}
