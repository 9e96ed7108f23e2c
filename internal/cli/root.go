// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
)

var (
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path
	configPath    string

	// Resolved values
	resolvedVaultPath string
	cfg               *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "obsorg",
	Short: "Obsorg - organize and rename images referenced in Obsidian vaults",
	Long: `Obsorg scans an Obsidian vault for image embeds, moves each referenced
image next to the note that embeds it, gives it a descriptive name (AI-chosen
or derived from the surrounding text), and rewrites the embed to match.

Missing references can be audited separately without touching the vault.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need a vault
		switch cmd.Name() {
		case "init", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Resolve vault path: explicit path > named vault > config default.
		// A positional path argument on the command still overrides this.
		if vaultPathFlag != "" {
			resolvedVaultPath = vaultPathFlag
		} else if vaultName != "" {
			resolvedVaultPath, err = cfg.GetVaultPath(vaultName)
			if err != nil {
				return fmt.Errorf("vault '%s' not found\n\nAdd it to the [vaults] table in %s", vaultName, config.DefaultPath())
			}
		} else if p, err := cfg.GetVaultPath(""); err == nil {
			resolvedVaultPath = p
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// requireVault resolves the vault path for a command, preferring a positional
// argument, and verifies the directory exists.
func requireVault(args []string) (string, error) {
	path := resolvedVaultPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return "", fmt.Errorf(`no vault specified

Either:
  1. Pass the vault path as an argument
  2. Use --vault <name> (from config)
  3. Use --vault-path /path/to/vault
  4. Set default_vault in %s`, config.DefaultPath())
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("vault not found: %s", path)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("vault path is not a directory: %s", path)
	}
	return path, nil
}

func loadGlobalConfig() (*config.Config, error) {
	if strings.TrimSpace(configPath) != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}
