package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
	"github.com/flyswxf/obsidian-ai-organizer/internal/history"
	"github.com/flyswxf/obsidian-ai-organizer/internal/naming"
	"github.com/flyswxf/obsidian-ai-organizer/internal/reorg"
	"github.com/flyswxf/obsidian-ai-organizer/internal/ui"
)

var (
	reorgDryRun   bool
	reorgNoAI     bool
	reorgNoBackup bool
	reorgPretty   bool
)

var reorganizeCmd = &cobra.Command{
	Use:     "reorganize [vault-path]",
	Aliases: []string{"reorg"},
	Short:   "Move and rename referenced images next to their notes",
	Long: `Scan the vault for image embeds, move each referenced image into the
directory of the note that embeds it, choose a new descriptive name, and
rewrite the embed to match.

A backup snapshot of the vault is taken before the first change unless
disabled. Use --dry-run to preview every planned move without touching
anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReorganize,
}

func init() {
	reorganizeCmd.Flags().BoolVarP(&reorgDryRun, "dry-run", "n", false, "Preview moves without changing anything")
	reorganizeCmd.Flags().BoolVar(&reorgNoAI, "no-ai", false, "Skip the naming oracle, use local naming only")
	reorganizeCmd.Flags().BoolVar(&reorgNoBackup, "no-backup", false, "Skip the pre-run vault snapshot")
	reorganizeCmd.Flags().BoolVar(&reorgPretty, "pretty", false, "Render the result as markdown")
	rootCmd.AddCommand(reorganizeCmd)
}

func runReorganize(cmd *cobra.Command, args []string) error {
	vaultPath, err := requireVault(args)
	if err != nil {
		return handleError(ErrVaultNotSpecified, err, "")
	}

	vc, err := config.LoadVaultConfig(vaultPath)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check obsorg.yaml in the vault root")
	}
	if reorgNoAI {
		off := false
		vc.Naming.UseAI = &off
	}
	if reorgNoBackup {
		off := false
		vc.Organization.CreateBackup = &off
	}

	warnf := func(format string, a ...any) {
		fmt.Fprintln(os.Stderr, ui.Warningf(format, a...))
	}

	oracle := naming.NewOracle(getConfig())
	resolver := naming.NewResolver(oracle, vc, warnf)
	organizer := reorg.New(vaultPath, vc, resolver, warnf)

	var spinner *ui.Spinner
	if !isJSONOutput() {
		msg := "Reorganizing images"
		if reorgDryRun {
			msg = "Planning reorganization"
		}
		spinner = ui.NewSpinner(msg)
		spinner.Start()
	}

	res, err := organizer.Run(cmd.Context(), reorgDryRun)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return handleError(ErrScanFailed, err, "")
	}

	warnings := recordRun(vaultPath, res)

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"dry_run":     res.DryRun,
			"backup_path": res.BackupPath,
			"moved":       res.Moved(),
			"in_place":    res.Compliant(),
			"failed":      res.Failed(),
			"results":     res.Map(),
		}, warnings, &Meta{Count: len(res.Entries)})
	} else if reorgPretty {
		if err := printPretty(res, vaultPath); err != nil {
			return handleError(ErrInternal, err, "")
		}
	} else {
		if res.BackupPath != "" {
			fmt.Println(ui.Infof("backup: %s", ui.FilePath(res.BackupPath)))
		}
		fmt.Print(ui.RenderRunListing(res, vaultPath))
	}

	if failed := res.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d references failed", failed, len(res.Entries))
	}
	return nil
}

// recordRun stores the run in the vault history database. Failures are
// reported as warnings, never fatal.
func recordRun(vaultPath string, res *reorg.Result) []Warning {
	st, err := history.Open(vaultPath)
	if err == nil {
		_, err = st.Record(res)
		st.Close()
	}
	if err == nil {
		return nil
	}
	if !isJSONOutput() {
		fmt.Fprintln(os.Stderr, ui.Warningf("could not record run history: %v", err))
		return nil
	}
	return []Warning{{Code: WarnHistoryFailed, Message: err.Error()}}
}

// printPretty renders the run as markdown through the terminal renderer.
func printPretty(res *reorg.Result, vaultPath string) error {
	var b strings.Builder
	if res.DryRun {
		b.WriteString("# 整理计划\n\n")
	} else {
		b.WriteString("# 整理结果\n\n")
	}
	if res.BackupPath != "" {
		fmt.Fprintf(&b, "备份: `%s`\n\n", res.BackupPath)
	}

	for _, e := range res.Entries {
		old := relOrAbs(vaultPath, e.OldPath)
		switch {
		case e.Err != nil:
			fmt.Fprintf(&b, "- **失败** `%s`: %v\n", old, e.Err)
		case e.AlreadyCompliant:
			fmt.Fprintf(&b, "- `%s` 已就位\n", old)
		default:
			fmt.Fprintf(&b, "- `%s` → `%s`\n", old, relOrAbs(vaultPath, e.NewPath))
		}
	}
	fmt.Fprintf(&b, "\n共 %d 项，移动 %d，失败 %d\n", len(res.Entries), res.Moved(), res.Failed())

	dc := ui.NewDisplayContext()
	rendered, err := ui.RenderMarkdown(b.String(), dc.TermWidth)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func relOrAbs(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
