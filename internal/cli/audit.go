package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flyswxf/obsidian-ai-organizer/internal/audit"
	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
	"github.com/flyswxf/obsidian-ai-organizer/internal/ui"
)

var auditNoLog bool

var auditCmd = &cobra.Command{
	Use:   "audit [vault-path]",
	Short: "Report image references whose file cannot be found",
	Long: `Walk every note in the vault and list image references that no longer
resolve to a file. The vault is never modified; findings are appended to the
audit log unless --no-log is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().BoolVar(&auditNoLog, "no-log", false, "Do not append findings to the audit log")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	vaultPath, err := requireVault(args)
	if err != nil {
		return handleError(ErrVaultNotSpecified, err, "")
	}

	vc, err := config.LoadVaultConfig(vaultPath)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check obsorg.yaml in the vault root")
	}

	findings, err := audit.NewScanner(vaultPath, vc).Scan()
	if err != nil {
		return handleError(ErrAuditFailed, err, "")
	}

	reporter := audit.NewReporter(vaultPath)
	logPath := ""
	if !auditNoLog {
		if err := reporter.Write(vaultPath, findings); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		logPath = reporter.Path()
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"missing":  findings,
			"log_path": logPath,
		}, &Meta{Count: len(findings)})
		return nil
	}

	if len(findings) == 0 {
		fmt.Println(ui.Success("no missing references"))
	} else {
		fmt.Println(ui.Header(fmt.Sprintf("缺失引用 %s", ui.Count(len(findings), "reference", "references"))))
		for _, m := range findings {
			fmt.Printf("%s '%s' %s\n", ui.SymbolWarning, m.Target,
				ui.Hint(fmt.Sprintf("来源: %s 行: %d", m.Document, m.Line)))
		}
	}
	if logPath != "" {
		fmt.Println(ui.Hint("log: " + logPath))
	}
	return nil
}
