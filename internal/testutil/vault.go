// Package testutil provides reusable test utilities for integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault represents a temporary vault for testing.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithConfig sets the obsorg.yaml content for the vault.
func (v *TestVault) WithConfig(yaml string) *TestVault {
	v.files["obsorg.yaml"] = yaml
	return v
}

// Build creates the vault directory and all configured files. The vault is
// created as a subdirectory of the temp dir so sibling backup directories
// stay inside the test sandbox.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = filepath.Join(v.t.TempDir(), "vault")
	if err := os.MkdirAll(v.Path, 0755); err != nil {
		v.t.Fatalf("failed to create vault directory: %v", err)
	}

	for path, content := range v.files {
		v.writeFile(path, content)
	}

	return v
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the vault.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	content, err := os.ReadFile(filepath.Join(v.Path, relPath))
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	v.t.Helper()
	_, err := os.Stat(filepath.Join(v.Path, relPath))
	return err == nil
}

// BackupPath returns the sibling backup directory for the given suffix.
func (v *TestVault) BackupPath(suffix string) string {
	return v.Path + suffix
}
