package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// VaultConfigFile is the per-vault config file name.
const VaultConfigFile = "obsorg.yaml"

// Fallback naming strategies accepted in config.
const (
	FallbackContextKeywords = "context_keywords"
	FallbackFileName        = "file_name"
	FallbackDocument        = "document"
	FallbackTimestamp       = "timestamp"
)

// DefaultImageExtensions is the extension search order used when the vault
// does not configure one. Order matters: the locator tries extensions in
// this exact order, so reruns stay reproducible.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg", ".webp"}

// VaultConfig represents vault-level configuration from obsorg.yaml.
type VaultConfig struct {
	// Image configures which files count as images.
	Image ImageConfig `yaml:"image,omitempty"`

	// Naming configures how new image names are chosen.
	Naming NamingConfig `yaml:"naming,omitempty"`

	// Organization configures backup and move behavior.
	Organization OrganizationConfig `yaml:"organization,omitempty"`

	// Ignore lists doublestar glob patterns (vault-relative) excluded from
	// scanning, e.g. "templates/**".
	Ignore []string `yaml:"ignore,omitempty"`
}

// ImageConfig configures image discovery.
type ImageConfig struct {
	// SupportedFormats is the ordered extension list (with leading dots).
	SupportedFormats []string `yaml:"supported_formats,omitempty"`
}

// NamingConfig configures name generation.
type NamingConfig struct {
	// UseAI enables the naming oracle (default: true).
	UseAI *bool `yaml:"use_ai,omitempty"`

	// FallbackStrategy is used when the oracle is unavailable or declines:
	// context_keywords, file_name, document, or timestamp.
	FallbackStrategy string `yaml:"fallback_strategy,omitempty"`

	// MaxLength truncates generated stems (default 14, hard-capped at 14).
	MaxLength int `yaml:"max_length,omitempty"`

	// ReplaceSpaces substitutes spaces in oracle output (default: removed).
	ReplaceSpaces string `yaml:"replace_spaces,omitempty"`
}

// OrganizationConfig configures the reorganize run.
type OrganizationConfig struct {
	// CreateBackup snapshots the vault before the first mutation (default: true).
	CreateBackup *bool `yaml:"create_backup,omitempty"`

	// BackupSuffix names the backup directory: <vault><suffix> (default "_backup").
	BackupSuffix string `yaml:"backup_suffix,omitempty"`
}

// LoadVaultConfig loads obsorg.yaml from the vault root.
// Returns an empty config if the file doesn't exist.
func LoadVaultConfig(vaultPath string) (*VaultConfig, error) {
	configPath := filepath.Join(vaultPath, VaultConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &VaultConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", VaultConfigFile, err)
	}

	var cfg VaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", VaultConfigFile, err)
	}
	return &cfg, nil
}

// ImageExtensions returns the configured extension search order.
func (vc *VaultConfig) ImageExtensions() []string {
	if len(vc.Image.SupportedFormats) > 0 {
		return vc.Image.SupportedFormats
	}
	return DefaultImageExtensions
}

// IsAIEnabled reports whether oracle naming is enabled.
func (vc *VaultConfig) IsAIEnabled() bool {
	if vc.Naming.UseAI == nil {
		return true
	}
	return *vc.Naming.UseAI
}

// GetFallbackStrategy returns the configured fallback strategy.
func (vc *VaultConfig) GetFallbackStrategy() string {
	if vc.Naming.FallbackStrategy == "" {
		return FallbackContextKeywords
	}
	return vc.Naming.FallbackStrategy
}

// NameMaxLength returns the stem length cap. The cap never exceeds 14 so
// oracle output stays a short noun phrase.
func (vc *VaultConfig) NameMaxLength() int {
	n := vc.Naming.MaxLength
	if n <= 0 || n > 14 {
		return 14
	}
	return n
}

// IsBackupEnabled reports whether a pre-run backup snapshot is taken.
func (vc *VaultConfig) IsBackupEnabled() bool {
	if vc.Organization.CreateBackup == nil {
		return true
	}
	return *vc.Organization.CreateBackup
}

// GetBackupSuffix returns the backup directory suffix.
func (vc *VaultConfig) GetBackupSuffix() string {
	if vc.Organization.BackupSuffix == "" {
		return "_backup"
	}
	return vc.Organization.BackupSuffix
}
