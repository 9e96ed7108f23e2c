// Package locate finds the physical image file backing a reference target,
// searching the whole vault and tolerating missing or wrong extensions.
package locate

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// Locator searches a vault tree for image files by reference target.
type Locator struct {
	root       string
	extensions []string
}

// New creates a Locator for the given vault root and extension search order.
// Extension order is significant: candidates are tried per extension in the
// order given, and the first filesystem match wins.
func New(root string, extensions []string) *Locator {
	return &Locator{root: root, extensions: extensions}
}

// Find returns the path of an existing regular file that plausibly backs the
// reference target. For each configured extension, the candidates tried are
// the target as written, the target with the extension appended, and the
// target's stem with the extension. Returns ok=false when nothing matches.
func (l *Locator) Find(target string) (string, bool) {
	target = filepath.ToSlash(strings.TrimSpace(target))
	if target == "" {
		return "", false
	}
	stem := strings.TrimSuffix(target, filepath.Ext(target))

	for _, ext := range l.extensions {
		for _, candidate := range []string{target, target + ext, stem + ext} {
			if path, ok := l.findByName(candidate); ok {
				return path, true
			}
		}
	}
	return "", false
}

// findByName searches the tree for a regular file whose name (or, when the
// candidate contains a slash, whose vault-relative path suffix) matches.
func (l *Locator) findByName(candidate string) (string, bool) {
	var found string

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Best-effort: unreadable entries don't abort the search.
			return nil //nolint:nilerr
		}
		if d.IsDir() {
			// Skip hidden directories (.obsidian, .obsorg, .trash, ...).
			if path != l.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if matchCandidate(path, candidate) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return "", false
	}
	return found, found != ""
}

func matchCandidate(path, candidate string) bool {
	if !strings.Contains(candidate, "/") {
		return filepath.Base(path) == candidate
	}
	return strings.HasSuffix(filepath.ToSlash(path), "/"+candidate)
}
