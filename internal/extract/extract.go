// Package extract walks a markdown document and produces image reference
// records with the positional context the naming oracle consumes.
package extract

import (
	"fmt"
	"strings"

	"github.com/flyswxf/obsidian-ai-organizer/internal/imgref"
	"github.com/flyswxf/obsidian-ai-organizer/internal/locate"
)

// ImageReference is a detected image reference whose backing file exists.
type ImageReference struct {
	MarkdownFile string // owning document (absolute path)
	ImagePath    string // resolved physical image path
	ImageName    string // raw target exactly as written between the delimiters
	Context      string // full document text plus a position annotation
	LineNumber   int    // 1-based
}

// RawRef is a reference target as written, without resolution. Used by the
// audit scanner, which reports targets whose backing file is missing.
type RawRef struct {
	Target     string
	LineNumber int
}

// Extractor pairs the pattern matcher with a file locator.
type Extractor struct {
	locator *locate.Locator
}

// New creates an Extractor backed by the given locator.
func New(locator *locate.Locator) *Extractor {
	return &Extractor{locator: locator}
}

// Extract returns the ordered list of resolved image references in a
// document. References whose backing file cannot be located are silently
// dropped here; they surface through the audit scanner instead.
func (e *Extractor) Extract(docPath, content string) []ImageReference {
	var refs []ImageReference

	outline := OutlineBlock(content)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNum := i + 1
		for _, m := range imgref.FindAllInLine(line) {
			imagePath, ok := e.locator.Find(m.Target)
			if !ok {
				continue
			}
			refs = append(refs, ImageReference{
				MarkdownFile: docPath,
				ImagePath:    imagePath,
				ImageName:    m.Target,
				Context:      buildContext(content, outline, lineNum, line),
				LineNumber:   lineNum,
			})
		}
	}
	return refs
}

// ExtractRaw returns every reference target in the content regardless of
// whether the backing file exists. No context, no lookups.
func ExtractRaw(content string) []RawRef {
	var refs []RawRef

	for i, line := range strings.Split(content, "\n") {
		for _, m := range imgref.FindAllInLine(line) {
			refs = append(refs, RawRef{Target: m.Target, LineNumber: i + 1})
		}
	}
	return refs
}

// buildContext assembles the oracle context: the full document, the heading
// outline, and an annotation naming the reference's line.
func buildContext(content, outline string, lineNum int, line string) string {
	var b strings.Builder
	b.WriteString(content)
	if outline != "" {
		b.WriteString("\n\n")
		b.WriteString(outline)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "【图片位置】第 %d 行: %s", lineNum, strings.TrimSpace(line))
	return b.String()
}
