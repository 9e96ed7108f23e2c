package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flyswxf/obsidian-ai-organizer/internal/locate"
)

var extOrder = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg", ".webp"}

func newTestExtractor(t *testing.T) (root string, e *Extractor) {
	t.Helper()
	root = t.TempDir()
	for _, rel := range []string{"attachments/shot1.png", "attachments/flow.jpg"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root, New(locate.New(root, extOrder))
}

func TestExtract(t *testing.T) {
	root, e := newTestExtractor(t)
	docPath := filepath.Join(root, "note.md")
	content := "# Title\n\nsome text\n\n![[shot1.png]]\n\nand ![flow](flow.jpg)\n"

	refs := e.Extract(docPath, content)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}

	first := refs[0]
	if first.ImageName != "shot1.png" {
		t.Errorf("ImageName = %q, want shot1.png", first.ImageName)
	}
	if first.LineNumber != 5 {
		t.Errorf("LineNumber = %d, want 5", first.LineNumber)
	}
	if first.ImagePath != filepath.Join(root, "attachments/shot1.png") {
		t.Errorf("ImagePath = %q", first.ImagePath)
	}
	if first.MarkdownFile != docPath {
		t.Errorf("MarkdownFile = %q", first.MarkdownFile)
	}

	if refs[1].ImageName != "flow.jpg" || refs[1].LineNumber != 7 {
		t.Errorf("second ref = %+v", refs[1])
	}
}

func TestExtractContext(t *testing.T) {
	root, e := newTestExtractor(t)
	content := "# 系统设计\n\n![[shot1.png]]\n"

	refs := e.Extract(filepath.Join(root, "note.md"), content)
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(refs))
	}

	ctx := refs[0].Context
	if !strings.HasPrefix(ctx, content) {
		t.Error("context must start with the full document text")
	}
	if !strings.Contains(ctx, "【图片位置】第 3 行: ![[shot1.png]]") {
		t.Errorf("context missing position annotation:\n%s", ctx)
	}
	if !strings.Contains(ctx, "【文档大纲】") || !strings.Contains(ctx, "- 系统设计") {
		t.Errorf("context missing heading outline:\n%s", ctx)
	}
}

func TestExtractDropsUnresolved(t *testing.T) {
	root, e := newTestExtractor(t)
	content := "![[shot1.png]]\n![[missing.png]]\n"

	refs := e.Extract(filepath.Join(root, "note.md"), content)
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1 (unresolved dropped)", len(refs))
	}
	if refs[0].ImageName != "shot1.png" {
		t.Errorf("ImageName = %q", refs[0].ImageName)
	}
}

func TestExtractRaw(t *testing.T) {
	content := "![[a.png]]\ntext\n![x](missing.png)\n"

	refs := ExtractRaw(content)
	if len(refs) != 2 {
		t.Fatalf("got %d raw refs, want 2", len(refs))
	}
	if refs[0].Target != "a.png" || refs[0].LineNumber != 1 {
		t.Errorf("raw[0] = %+v", refs[0])
	}
	if refs[1].Target != "missing.png" || refs[1].LineNumber != 3 {
		t.Errorf("raw[1] = %+v", refs[1])
	}
}

func TestOutline(t *testing.T) {
	content := "# Top\n\n## Sub one\n\ntext\n\n## Sub two\n"

	got := Outline(content)
	want := []Heading{{1, "Top"}, {2, "Sub one"}, {2, "Sub two"}}
	if len(got) != len(want) {
		t.Fatalf("got %d headings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if OutlineBlock("no headings here") != "" {
		t.Error("OutlineBlock must be empty without headings")
	}
}
