package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./a/b.png", "a/b.png"},
		{"/a/b.png", "a/b.png"},
		{"a//b.png", "a/b.png"},
		{"a/b.png", "a/b.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeRelPath(tt.in); got != tt.want {
			t.Errorf("NormalizeRelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes/shot1.png", "shot1"},
		{"shot1", "shot1"},
		{"a/b/状态机.jpeg", "状态机"},
		{"archive.tar.gz", "archive.tar"},
	}
	for _, tt := range tests {
		if got := Stem(tt.in); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateWithinVault(t *testing.T) {
	vault := t.TempDir()
	sub := filepath.Join(vault, "notes")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	if err := ValidateWithinVault(vault, filepath.Join(sub, "img.png")); err != nil {
		t.Errorf("path inside vault rejected: %v", err)
	}
	if err := ValidateWithinVault(vault, filepath.Join(vault, "img.png")); err != nil {
		t.Errorf("path at vault root rejected: %v", err)
	}

	outside := filepath.Join(filepath.Dir(vault), "elsewhere", "img.png")
	err := ValidateWithinVault(vault, outside)
	if !errors.Is(err, ErrPathOutsideVault) {
		t.Errorf("expected ErrPathOutsideVault, got %v", err)
	}
}
