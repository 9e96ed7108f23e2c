// Package reorg sequences a full reorganization run: scan documents, extract
// image references, back up the vault, then move, rename and rewrite each
// reference in order.
package reorg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flyswxf/obsidian-ai-organizer/internal/atomicfile"
	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
	"github.com/flyswxf/obsidian-ai-organizer/internal/conflict"
	"github.com/flyswxf/obsidian-ai-organizer/internal/extract"
	"github.com/flyswxf/obsidian-ai-organizer/internal/imgref"
	"github.com/flyswxf/obsidian-ai-organizer/internal/locate"
	"github.com/flyswxf/obsidian-ai-organizer/internal/vault"
)

// Reorganizer drives one run over a single vault. Runs against the same
// vault must not overlap; callers serialize.
type Reorganizer struct {
	vaultPath string
	cfg       *config.VaultConfig
	namer     conflict.Namer
	warnf     func(format string, args ...any)
}

// New wires a reorganizer. warnf may be nil.
func New(vaultPath string, cfg *config.VaultConfig, namer conflict.Namer, warnf func(string, ...any)) *Reorganizer {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Reorganizer{
		vaultPath: vaultPath,
		cfg:       cfg,
		namer:     namer,
		warnf:     warnf,
	}
}

// Run executes the reorganization. In dry-run mode every destination is
// computed exactly as a real run would, but no file moves, no document is
// rewritten, and no backup is taken. Cancellation stops further references;
// already-committed moves stay committed.
func (r *Reorganizer) Run(ctx context.Context, dryRun bool) (*Result, error) {
	result := &Result{DryRun: dryRun}

	docs, failed, err := vault.CollectMarkdownFiles(r.vaultPath, &vault.WalkOptions{
		IgnoreGlobs: r.cfg.Ignore,
	})
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}
	for _, f := range failed {
		r.warnf("skipping unreadable document %s: %v", f.RelativePath, f.Error)
		result.DocErrors = append(result.DocErrors, fmt.Errorf("%s: %w", f.RelativePath, f.Error))
	}

	locator := locate.New(r.vaultPath, r.cfg.ImageExtensions())
	extractor := extract.New(locator)

	var refs []extract.ImageReference
	for _, doc := range docs {
		refs = append(refs, extractor.Extract(doc.Path, doc.Content)...)
	}
	if len(refs) == 0 {
		return result, nil
	}

	if !dryRun && r.cfg.IsBackupEnabled() {
		backupPath, err := vault.Backup(r.vaultPath, r.cfg.GetBackupSuffix())
		switch {
		case errors.Is(err, vault.ErrBackupExists):
			r.warnf("backup directory %s already exists, skipping snapshot", backupPath)
		case err != nil:
			return nil, fmt.Errorf("backup vault: %w", err)
		default:
			result.BackupPath = backupPath
		}
	}

	resolver := conflict.NewResolver(r.namer)
	for _, ref := range refs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Entries = append(result.Entries, r.processRef(ctx, resolver, ref, dryRun))
	}
	return result, nil
}

// processRef handles one reference end to end. Failures are returned in the
// entry, never propagated.
func (r *Reorganizer) processRef(ctx context.Context, resolver *conflict.Resolver, ref extract.ImageReference, dryRun bool) RefResult {
	entry := RefResult{Document: ref.MarkdownFile, OldPath: ref.ImagePath}

	targetDir := filepath.Dir(ref.MarkdownFile)
	ext := filepath.Ext(ref.ImagePath)

	stem := r.namer.NewName(ctx, ref, "")
	res, err := resolver.Resolve(ctx, targetDir, stem, ext, ref)
	if err != nil {
		entry.Err = fmt.Errorf("resolve name for %s: %w", ref.ImageName, err)
		return entry
	}

	entry.Retries = res.Retries
	entry.Suffixed = res.Suffixed

	if res.AlreadyCompliant {
		entry.AlreadyCompliant = true
		entry.NewPath = ref.ImagePath
		return entry
	}

	dest := filepath.Join(targetDir, res.FinalStem+ext)
	resolver.Reserve(dest)
	entry.NewPath = dest

	if dryRun {
		return entry
	}

	if err := moveFile(ref.ImagePath, dest); err != nil {
		entry.Err = fmt.Errorf("move %s: %w", ref.ImageName, err)
		entry.NewPath = ""
		return entry
	}
	if err := r.rewriteReference(ref, res.FinalStem+ext); err != nil {
		entry.Err = fmt.Errorf("rewrite %s: %w", filepath.Base(ref.MarkdownFile), err)
		entry.NewPath = ""
		return entry
	}
	return entry
}

// rewriteReference re-reads the document so earlier rewrites to the same
// file are not clobbered, substitutes the reference, and writes atomically.
func (r *Reorganizer) rewriteReference(ref extract.ImageReference, newName string) error {
	data, err := os.ReadFile(ref.MarkdownFile)
	if err != nil {
		return err
	}
	updated := imgref.RewriteContent(string(data), ref.ImageName, newName)
	if updated == string(data) {
		return nil
	}
	return atomicfile.WriteFile(ref.MarkdownFile, []byte(updated), 0o644)
}

// moveFile renames, falling back to copy-then-delete across volumes.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
