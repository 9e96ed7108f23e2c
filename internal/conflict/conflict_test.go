package conflict

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flyswxf/obsidian-ai-organizer/internal/extract"
)

// scriptedNamer returns its names in order, then repeats the last one.
type scriptedNamer struct {
	names []string
	calls int
	hints []string
}

func (s *scriptedNamer) NewName(_ context.Context, _ extract.ImageReference, hint string) string {
	s.hints = append(s.hints, hint)
	i := s.calls
	s.calls++
	if i >= len(s.names) {
		i = len(s.names) - 1
	}
	if i < 0 {
		return ""
	}
	return s.names[i]
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func imageRef(imagePath string) extract.ImageReference {
	return extract.ImageReference{
		MarkdownFile: "/vault/doc.md",
		ImagePath:    imagePath,
		ImageName:    filepath.Base(imagePath),
	}
}

func TestResolveFreeDestination(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(&scriptedNamer{})

	res, err := r.Resolve(context.Background(), dir, "架构图", ".png", imageRef("/elsewhere/a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalStem != "架构图" || res.Retries != 0 || res.Suffixed || res.AlreadyCompliant {
		t.Errorf("unexpected resolution: %+v", res)
	}
}

func TestResolveAlreadyCompliant(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "架构图.png")
	touch(t, img)

	r := NewResolver(&scriptedNamer{})
	res, err := r.Resolve(context.Background(), dir, "架构图", ".png", imageRef(img))
	if err != nil {
		t.Fatal(err)
	}
	if !res.AlreadyCompliant || res.FinalStem != "架构图" || res.Retries != 0 {
		t.Errorf("expected compliant fast path, got %+v", res)
	}
}

func TestResolveRetrySucceeds(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "示意图.png"))
	elsewhere := filepath.Join(t.TempDir(), "orig.png")
	touch(t, elsewhere)

	namer := &scriptedNamer{names: []string{"结构示意图"}}
	r := NewResolver(namer)
	res, err := r.Resolve(context.Background(), dir, "示意图", ".png", imageRef(elsewhere))
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalStem != "结构示意图" || res.Retries != 1 || res.Suffixed {
		t.Errorf("got %+v", res)
	}
	if len(namer.hints) != 1 || !strings.Contains(namer.hints[0], "示意图") {
		t.Errorf("hint should name the rejected stem: %v", namer.hints)
	}
}

func TestResolveHintListsSiblings(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "示意图.png"))
	touch(t, filepath.Join(dir, "流程图.png"))
	touch(t, filepath.Join(dir, "notes.md"))
	elsewhere := filepath.Join(t.TempDir(), "orig.png")
	touch(t, elsewhere)

	namer := &scriptedNamer{names: []string{"新示意图"}}
	r := NewResolver(namer)
	if _, err := r.Resolve(context.Background(), dir, "示意图", ".png", imageRef(elsewhere)); err != nil {
		t.Fatal(err)
	}

	hint := namer.hints[0]
	if !strings.Contains(hint, "流程图") {
		t.Errorf("hint missing sibling stem: %q", hint)
	}
	if strings.Contains(hint, "notes") {
		t.Errorf("hint lists a stem with a different extension: %q", hint)
	}
}

func TestResolveSuffixAfterRetryBudget(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "示意图.png"))
	elsewhere := filepath.Join(t.TempDir(), "orig.png")
	touch(t, elsewhere)

	// namer keeps proposing the occupied stem
	namer := &scriptedNamer{names: []string{"示意图"}}
	r := NewResolver(namer)
	res, err := r.Resolve(context.Background(), dir, "示意图", ".png", imageRef(elsewhere))
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalStem != "示意图_1" || !res.Suffixed || res.Retries != maxRetries {
		t.Errorf("got %+v", res)
	}
}

func TestResolveSuffixIncrements(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "示意图.png"))
	touch(t, filepath.Join(dir, "示意图_1.png"))
	touch(t, filepath.Join(dir, "示意图_2.png"))
	elsewhere := filepath.Join(t.TempDir(), "orig.png")
	touch(t, elsewhere)

	r := NewResolver(&scriptedNamer{})
	res, err := r.Resolve(context.Background(), dir, "示意图", ".png", imageRef(elsewhere))
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalStem != "示意图_3" || !res.Suffixed {
		t.Errorf("got %+v", res)
	}
}

func TestResolveRespectsReservations(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(&scriptedNamer{})
	r.Reserve(filepath.Join(dir, "示意图.png"))

	res, err := r.Resolve(context.Background(), dir, "示意图", ".png", imageRef("/elsewhere/a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalStem == "示意图" {
		t.Error("reserved destination must not be reused")
	}
	if res.FinalStem != "示意图_1" {
		t.Errorf("got %q", res.FinalStem)
	}
}

func TestResolveContextCancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "示意图.png"))
	elsewhere := filepath.Join(t.TempDir(), "orig.png")
	touch(t, elsewhere)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(&scriptedNamer{names: []string{"别名"}})
	if _, err := r.Resolve(ctx, dir, "示意图", ".png", imageRef(elsewhere)); err == nil {
		t.Error("expected context error")
	}
}
