// Package config handles global obsorg configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// AI provider names accepted in config.
const (
	ProviderOpenAI = "openai"
	ProviderECNU   = "ecnu"
	ProviderLocal  = "local"
)

// ECNU defaults applied when provider = "ecnu" and no explicit override is set.
const (
	ecnuBaseURL      = "https://chat.ecnu.edu.cn/open/api/v1"
	ecnuVisionModel  = "ecnu-vl"
	openAIBaseURL    = "https://api.openai.com/v1"
	openAIVisionModel = "gpt-4-vision-preview"
)

// Config represents the global obsorg configuration.
type Config struct {
	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults"`

	// DefaultVault is the name of the default vault (from Vaults).
	DefaultVault string `toml:"default_vault"`

	// AI configures the naming oracle.
	AI AIConfig `toml:"ai"`
}

// AIConfig configures the naming oracle backend.
type AIConfig struct {
	// Provider selects the oracle backend: openai, ecnu, or local.
	Provider string `toml:"provider"`

	// APIKey is the API key. Environment variables take priority (see ResolveAPIKey).
	APIKey string `toml:"api_key"`

	// Model is the model name; defaults depend on the provider.
	Model string `toml:"model"`

	// BaseURL overrides the API base URL.
	BaseURL string `toml:"base_url"`

	// KeyFile is an optional path to a file holding the API key (ECNU style).
	KeyFile string `toml:"key_file"`

	// MaxTokens caps the completion length (default 150).
	MaxTokens int `toml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `toml:"temperature"`
}

// GetVaultPath returns the path for a named vault.
// If name is empty, returns the default vault path.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}
	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}
	if c.Vaults != nil {
		if path, ok := c.Vaults[name]; ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// ResolveAPIKey returns the oracle API key, trying in order: the
// OPENAI_API_KEY and ECNU_API_KEY environment variables, the configured
// api_key, then the configured key file. Returns "" when none is set.
func (c *Config) ResolveAPIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	if key := os.Getenv("ECNU_API_KEY"); key != "" {
		return key
	}
	if c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	if c.AI.KeyFile != "" {
		if data, err := os.ReadFile(c.AI.KeyFile); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}

// ResolveModel returns the model name, falling back to the provider default.
func (c *Config) ResolveModel() string {
	if m := os.Getenv("AI_MODEL"); m != "" {
		return m
	}
	if c.AI.Model != "" {
		// ECNU does not serve OpenAI model names; fall through to the default.
		if c.AI.Provider != ProviderECNU || !strings.HasPrefix(c.AI.Model, "gpt-") {
			return c.AI.Model
		}
	}
	if c.AI.Provider == ProviderECNU {
		return ecnuVisionModel
	}
	return openAIVisionModel
}

// ResolveBaseURL returns the API base URL, falling back to the provider default.
func (c *Config) ResolveBaseURL() string {
	if u := os.Getenv("AI_BASE_URL"); u != "" {
		return u
	}
	if c.AI.BaseURL != "" {
		return c.AI.BaseURL
	}
	if c.AI.Provider == ProviderECNU {
		return ecnuBaseURL
	}
	return openAIBaseURL
}

// MaxTokensOrDefault returns the configured token cap, defaulting to 150.
func (c *Config) MaxTokensOrDefault() int {
	if c.AI.MaxTokens > 0 {
		return c.AI.MaxTokens
	}
	return 150
}

// TemperatureOrDefault returns the sampling temperature, defaulting to 0.3.
func (c *Config) TemperatureOrDefault() float64 {
	if c.AI.Temperature > 0 {
		return c.AI.Temperature
	}
	return 0.3
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/obsorg/config.toml first (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "obsorg", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "obsorg", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# obsorg configuration

# Named vaults
# [vaults]
# notes = "/path/to/your/obsidian/vault"

# default_vault = "notes"

[ai]
# Oracle backend: openai, ecnu, or local (disables AI naming)
provider = "openai"

# API key; OPENAI_API_KEY / ECNU_API_KEY environment variables take priority.
# api_key = ""

# key_file = "/path/to/api-key.txt"

# model = "gpt-4-vision-preview"
# base_url = ""
max_tokens = 150
temperature = 0.3
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
