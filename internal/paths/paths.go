// Package paths provides canonical path helpers shared by the scanner,
// locator, and reorganizer: vault-relative normalization, stem/extension
// splitting, and the within-vault security check applied before any move
// or rewrite.
package paths

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathOutsideVault indicates a path that escapes the vault root.
var ErrPathOutsideVault = errors.New("path is outside vault")

// NormalizeRelPath normalizes a vault-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// Stem returns the final path component without its extension.
func Stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ValidateWithinVault checks that targetPath resolves inside vaultPath.
// The target may not exist yet; its parent directory is checked instead.
func ValidateWithinVault(vaultPath, targetPath string) error {
	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return err
	}

	// Resolve symlinks for security; fall back to the lexical path when the
	// file does not exist yet.
	realVault, err := filepath.EvalSymlinks(absVault)
	if err != nil {
		realVault = absVault
	}
	targetDir := filepath.Dir(absTarget)
	realTargetDir, err := filepath.EvalSymlinks(targetDir)
	if err != nil {
		realTargetDir = targetDir
	}

	sep := string(filepath.Separator)
	if realTargetDir != realVault &&
		!strings.HasPrefix(realTargetDir+sep, realVault+sep) {
		return ErrPathOutsideVault
	}
	return nil
}
