package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyswxf/obsidian-ai-organizer/internal/history"
	"github.com/flyswxf/obsidian-ai-organizer/internal/ui"
)

var lastCmd = &cobra.Command{
	Use:   "last [vault-path]",
	Short: "Show the most recent reorganization run",
	Long: `Show the outcome of the most recent reorganization run recorded for
this vault: every reference processed, where it moved, and any failures.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLast,
}

func init() {
	rootCmd.AddCommand(lastCmd)
}

func runLast(cmd *cobra.Command, args []string) error {
	vaultPath, err := requireVault(args)
	if err != nil {
		return handleError(ErrVaultNotSpecified, err, "")
	}

	st, err := history.Open(vaultPath)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer st.Close()

	run, err := st.Last()
	if err != nil {
		if errors.Is(err, history.ErrNoRuns) {
			return handleErrorMsg(ErrNoRuns, "no recorded runs for this vault",
				"Run 'obsorg reorganize' first")
		}
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(run, &Meta{Count: len(run.Entries)})
		return nil
	}

	header := fmt.Sprintf("run #%d at %s", run.ID, run.StartedAt.Local().Format(time.DateTime))
	if run.DryRun {
		header += " (dry run)"
	}
	fmt.Println(ui.Header(header))
	if run.BackupPath != "" {
		fmt.Println(ui.Hint("backup: " + run.BackupPath))
	}

	tbl := ui.NewTable(3)
	for _, e := range run.Entries {
		switch {
		case e.Error != "":
			tbl.AddRow(ui.SymbolError, e.OldPath, e.Error)
		case e.Compliant:
			tbl.AddRow("=", e.OldPath, "已就位")
		default:
			tbl.AddRow(ui.SymbolSuccess, e.OldPath, e.NewPath)
		}
	}
	fmt.Print(tbl.String())

	fmt.Printf("\nmoved %d, in place %d, failed %d\n", run.Moved, run.Compliant, run.Failed)
	return nil
}
