package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
default_vault = "notes"

[vaults]
notes = "/home/user/notes"
work = "/home/user/work"

[ai]
provider = "ecnu"
api_key = "sk-test"
max_tokens = 200
temperature = 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "notes", cfg.DefaultVault)
	assert.Equal(t, "ecnu", cfg.AI.Provider)
	assert.Equal(t, 200, cfg.MaxTokensOrDefault())
	assert.Equal(t, 0.5, cfg.TemperatureOrDefault())

	path2, err := cfg.GetVaultPath("work")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/work", path2)

	def, err := cfg.GetVaultPath("")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/notes", def)

	_, err = cfg.GetVaultPath("missing")
	assert.Error(t, err)
}

func TestLoadFromInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ai\nbroken"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestResolveAPIKeyPriority(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ECNU_API_KEY", "")

	keyFile := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(keyFile, []byte("file-key\n"), 0600))

	cfg := &Config{AI: AIConfig{KeyFile: keyFile}}
	assert.Equal(t, "file-key", cfg.ResolveAPIKey(), "key file is the last resort")

	cfg.AI.APIKey = "config-key"
	assert.Equal(t, "config-key", cfg.ResolveAPIKey(), "config beats key file")

	t.Setenv("ECNU_API_KEY", "ecnu-env")
	assert.Equal(t, "ecnu-env", cfg.ResolveAPIKey(), "env beats config")

	t.Setenv("OPENAI_API_KEY", "openai-env")
	assert.Equal(t, "openai-env", cfg.ResolveAPIKey(), "OPENAI_API_KEY wins")
}

func TestResolveModelAndBaseURL(t *testing.T) {
	t.Setenv("AI_MODEL", "")
	t.Setenv("AI_BASE_URL", "")

	tests := []struct {
		name     string
		cfg      Config
		wantModel string
		wantURL   string
	}{
		{
			name:      "openai defaults",
			cfg:       Config{},
			wantModel: "gpt-4-vision-preview",
			wantURL:   "https://api.openai.com/v1",
		},
		{
			name:      "ecnu defaults",
			cfg:       Config{AI: AIConfig{Provider: ProviderECNU}},
			wantModel: "ecnu-vl",
			wantURL:   "https://chat.ecnu.edu.cn/open/api/v1",
		},
		{
			name:      "ecnu rejects gpt model names",
			cfg:       Config{AI: AIConfig{Provider: ProviderECNU, Model: "gpt-4o"}},
			wantModel: "ecnu-vl",
			wantURL:   "https://chat.ecnu.edu.cn/open/api/v1",
		},
		{
			name:      "explicit overrides",
			cfg:       Config{AI: AIConfig{Model: "gpt-4o", BaseURL: "https://proxy.local/v1"}},
			wantModel: "gpt-4o",
			wantURL:   "https://proxy.local/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantModel, tt.cfg.ResolveModel())
			assert.Equal(t, tt.wantURL, tt.cfg.ResolveBaseURL())
		})
	}
}
