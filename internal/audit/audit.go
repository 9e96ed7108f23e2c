// Package audit finds image references whose backing file no longer exists
// and records findings in an append-only report log.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
	"github.com/flyswxf/obsidian-ai-organizer/internal/extract"
	"github.com/flyswxf/obsidian-ai-organizer/internal/locate"
	"github.com/flyswxf/obsidian-ai-organizer/internal/vault"
)

// Missing is one reference with no backing file.
type Missing struct {
	// Document is the vault-relative path of the owning markdown file.
	Document string `json:"document"`

	// Target is the raw reference target exactly as written.
	Target string `json:"target"`

	// Line is the 1-based line number of the reference.
	Line int `json:"line"`
}

// Scanner walks the vault read-only; it never mutates documents or files.
type Scanner struct {
	vaultPath string
	cfg       *config.VaultConfig
}

func NewScanner(vaultPath string, cfg *config.VaultConfig) *Scanner {
	return &Scanner{vaultPath: vaultPath, cfg: cfg}
}

// Scan extracts every reference target from every document, resolution or
// not, and reports the ones the locator cannot back with a file. Findings
// come out in document-scan order, line order within a document.
func (s *Scanner) Scan() ([]Missing, error) {
	locator := locate.New(s.vaultPath, s.cfg.ImageExtensions())

	var findings []Missing
	err := vault.WalkMarkdownFiles(s.vaultPath, &vault.WalkOptions{IgnoreGlobs: s.cfg.Ignore}, func(res vault.WalkResult) error {
		if res.Error != nil {
			return nil
		}
		for _, raw := range extract.ExtractRaw(res.Content) {
			if _, found := locator.Find(raw.Target); found {
				continue
			}
			findings = append(findings, Missing{
				Document: res.RelativePath,
				Target:   raw.Target,
				Line:     raw.LineNumber,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}
	return findings, nil
}

// Reporter appends timestamped scan reports to the audit log under the
// vault state directory.
type Reporter struct {
	path string
	mu   sync.Mutex
}

func NewReporter(vaultPath string) *Reporter {
	return &Reporter{path: filepath.Join(vaultPath, vault.StateDir, "audit.log")}
}

// Path returns the log file location.
func (r *Reporter) Path() string { return r.path }

// Write appends one report block. The per-finding line format is stable;
// downstream log consumers parse it.
func (r *Reporter) Write(vaultPath string, findings []Missing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "=== 引用审计 %s ===\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "仓库: %s\n", vaultPath)
	fmt.Fprintf(&b, "缺失引用总数: %d\n", len(findings))
	for _, m := range findings {
		fmt.Fprintf(&b, "- 缺失引用: '%s' | 来源: %s | 行: %d\n", m.Target, m.Document, m.Line)
	}
	b.WriteString("\n")

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write audit report: %w", err)
	}
	return nil
}
