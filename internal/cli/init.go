package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
	"github.com/flyswxf/obsidian-ai-organizer/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the global config file",
	Long: `Create the global configuration file with commented defaults if it does
not exist yet. Vault-level options live in obsorg.yaml inside each vault.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault()
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"config_path": path}, nil)
			return nil
		}
		fmt.Println(ui.Successf("config at %s", ui.FilePath(path)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
