// Package vault handles traversal and snapshotting of the Obsidian vault tree.
package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/flyswxf/obsidian-ai-organizer/internal/paths"
)

// StateDir is the vault-local directory obsorg uses for its own files
// (audit log, run history). It is never scanned.
const StateDir = ".obsorg"

// WalkResult contains one markdown file visited during a walk.
type WalkResult struct {
	Path         string
	RelativePath string
	Content      string
	Error        error
}

// WalkOptions controls which files a walk visits.
type WalkOptions struct {
	// IgnoreGlobs are doublestar patterns (vault-relative) to skip.
	IgnoreGlobs []string
}

// WalkMarkdownFiles walks all markdown files in a vault and calls the handler
// for each, in lexical walk order. It automatically:
// - skips hidden directories and the obsorg state directory
// - skips paths matching the configured ignore globs
// - only visits .md files
// - verifies files are within the vault (security check)
func WalkMarkdownFiles(vaultPath string, opts *WalkOptions, handler func(result WalkResult) error) error {
	var ignore []string
	if opts != nil {
		ignore = opts.IgnoreGlobs
	}

	return filepath.WalkDir(vaultPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			relativePath, _ := filepath.Rel(vaultPath, path)
			return handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
		}

		relativePath, _ := filepath.Rel(vaultPath, path)
		relativePath = filepath.ToSlash(relativePath)

		if d.IsDir() {
			if path == vaultPath {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || d.Name() == StateDir {
				return filepath.SkipDir
			}
			if matchesAny(ignore, relativePath) || matchesAny(ignore, relativePath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".md") {
			return nil
		}
		if matchesAny(ignore, relativePath) {
			return nil
		}

		if err := paths.ValidateWithinVault(vaultPath, path); err != nil {
			if errors.Is(err, paths.ErrPathOutsideVault) {
				return nil
			}
			return handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
		}

		return handler(WalkResult{
			Path:         path,
			RelativePath: relativePath,
			Content:      string(content),
		})
	})
}

// CollectMarkdownFiles walks the vault and returns all readable markdown
// files plus any files that had errors.
func CollectMarkdownFiles(vaultPath string, opts *WalkOptions) ([]WalkResult, []WalkResult, error) {
	var docs []WalkResult
	var failed []WalkResult

	err := WalkMarkdownFiles(vaultPath, opts, func(result WalkResult) error {
		if result.Error != nil {
			failed = append(failed, result)
		} else {
			docs = append(docs, result)
		}
		return nil
	})

	return docs, failed, err
}

func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}
