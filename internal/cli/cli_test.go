package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flyswxf/obsidian-ai-organizer/internal/history"
	"github.com/flyswxf/obsidian-ai-organizer/internal/testutil"
)

// localConfig disables the oracle and backups for deterministic runs.
const localConfig = `naming:
  use_ai: false
  fallback_strategy: file_name
organization:
  create_backup: false
`

func resetFlags() {
	// Tests invoke RunE functions directly, bypassing Execute, which is
	// what normally seeds the command context.
	reorganizeCmd.SetContext(context.Background())
	vaultName = ""
	vaultPathFlag = ""
	configPath = ""
	resolvedVaultPath = ""
	jsonOutput = false
	reorgDryRun = false
	reorgNoAI = false
	reorgNoBackup = false
	reorgPretty = false
	auditNoLog = false
}

func TestRequireVaultPositionalWins(t *testing.T) {
	resetFlags()
	v := testutil.NewTestVault(t).Build()
	resolvedVaultPath = "/does/not/matter"

	got, err := requireVault([]string{v.Path})
	if err != nil {
		t.Fatal(err)
	}
	if got != v.Path {
		t.Errorf("got %q, want positional path", got)
	}
}

func TestRequireVaultMissing(t *testing.T) {
	resetFlags()
	if _, err := requireVault(nil); err == nil {
		t.Error("expected error with no vault configured")
	}
}

func TestRequireVaultNotADirectory(t *testing.T) {
	resetFlags()
	v := testutil.NewTestVault(t).WithFile("f.txt", "x").Build()
	if _, err := requireVault([]string{filepath.Join(v.Path, "f.txt")}); err == nil {
		t.Error("expected error for non-directory vault path")
	}
}

func TestReorganizeEndToEnd(t *testing.T) {
	resetFlags()
	v := testutil.NewTestVault(t).
		WithConfig(localConfig).
		WithFile("笔记.md", "# 笔记\n\n![[shot.png]]\n").
		WithFile("img/shot.png", "png-bytes").
		Build()

	if err := runReorganize(reorganizeCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}

	v.AssertFileExists("笔记_image.png")
	v.AssertFileNotExists("img/shot.png")
	v.AssertFileContains("笔记.md", "![[笔记_image.png]]")
	v.AssertFileNotContains("笔记.md", "shot.png")

	// the run is recorded for `obsorg last`
	st, err := history.Open(v.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	run, err := st.Last()
	if err != nil {
		t.Fatal(err)
	}
	if run.Moved != 1 || run.Failed != 0 {
		t.Errorf("recorded run: %+v", run)
	}
}

func TestReorganizeDryRunTouchesNothing(t *testing.T) {
	resetFlags()
	reorgDryRun = true
	v := testutil.NewTestVault(t).
		WithConfig(localConfig).
		WithFile("note.md", "![[shot.png]]\n").
		WithFile("img/shot.png", "png-bytes").
		Build()

	if err := runReorganize(reorganizeCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}

	v.AssertFileExists("img/shot.png")
	v.AssertFileContains("note.md", "![[shot.png]]")
	v.AssertFileNotExists("note_image.png")
}

func TestReorganizeNoBackupFlag(t *testing.T) {
	resetFlags()
	reorgNoBackup = true
	v := testutil.NewTestVault(t).
		WithConfig("naming:\n  use_ai: false\n  fallback_strategy: file_name\n").
		WithFile("note.md", "![[shot.png]]\n").
		WithFile("shot.png", "png-bytes").
		Build()

	if err := runReorganize(reorganizeCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}

	if dirExists(v.BackupPath("_backup")) {
		t.Error("backup created despite --no-backup")
	}
	v.AssertFileExists("note_image.png")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func TestAuditWritesLog(t *testing.T) {
	resetFlags()
	v := testutil.NewTestVault(t).
		WithFile("笔记.md", "![[gone.png]]\n").
		Build()

	if err := runAudit(auditCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}

	v.AssertFileContains(filepath.Join(".obsorg", "audit.log"),
		"- 缺失引用: 'gone.png' | 来源: 笔记.md | 行: 1")
}

func TestAuditNoLogFlag(t *testing.T) {
	resetFlags()
	auditNoLog = true
	v := testutil.NewTestVault(t).
		WithFile("a.md", "![[gone.png]]\n").
		Build()

	if err := runAudit(auditCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}
	v.AssertFileNotExists(filepath.Join(".obsorg", "audit.log"))
}

func TestLastWithoutRuns(t *testing.T) {
	resetFlags()
	v := testutil.NewTestVault(t).Build()

	err := runLast(lastCmd, []string{v.Path})
	if err == nil || !strings.Contains(err.Error(), "no recorded runs") {
		t.Errorf("err = %v", err)
	}
}

func TestLastAfterRun(t *testing.T) {
	resetFlags()
	v := testutil.NewTestVault(t).
		WithConfig(localConfig).
		WithFile("note.md", "![[shot.png]]\n").
		WithFile("shot.png", "png-bytes").
		Build()

	if err := runReorganize(reorganizeCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}
	if err := runLast(lastCmd, []string{v.Path}); err != nil {
		t.Fatal(err)
	}
}
