package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flyswxf/obsidian-ai-organizer/internal/reorg"
)

// RenderRunListing formats a run's per-reference outcomes for the terminal,
// one line per reference, paths shown relative to the vault where possible.
func RenderRunListing(res *reorg.Result, vaultPath string) string {
	var sb strings.Builder

	for _, e := range res.Entries {
		old := relToVault(vaultPath, e.OldPath)
		switch {
		case e.Err != nil:
			sb.WriteString(Errorf("%s: %v", old, e.Err))
		case e.AlreadyCompliant:
			sb.WriteString(fmt.Sprintf("%s %s", Muted.Render("="), Hint(old+" 已就位")))
		default:
			arrow := "→"
			if res.DryRun {
				arrow = "⇢"
			}
			sb.WriteString(fmt.Sprintf("%s %s %s %s", SymbolSuccess, old, arrow, FilePath(relToVault(vaultPath, e.NewPath))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(RenderRunSummary(res))
	return sb.String()
}

// RenderRunSummary returns the one-line success/failure summary for a run.
func RenderRunSummary(res *reorg.Result) string {
	verb := "moved"
	if res.DryRun {
		verb = "would move"
	}
	line := fmt.Sprintf("%s %d, in place %d", verb, res.Moved(), res.Compliant())
	if failed := res.Failed(); failed > 0 {
		return Warningf("%s %s", line, Count(failed, "error", "errors"))
	}
	return Success(line)
}

func relToVault(vaultPath, path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(vaultPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
