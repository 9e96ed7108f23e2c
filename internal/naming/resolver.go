package naming

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/flyswxf/obsidian-ai-organizer/internal/config"
	"github.com/flyswxf/obsidian-ai-organizer/internal/extract"
)

// tokenRe splits context text into CJK runs and Latin words.
var tokenRe = regexp.MustCompile(`[\p{Han}]+|[a-zA-Z]+`)

// stopWords are dropped from keyword extraction.
var stopWords = map[string]struct{}{
	"的": {}, "是": {}, "在": {}, "有": {}, "和": {}, "与": {}, "或": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
}

// Resolver produces a new stem for an image reference, preferring the oracle
// and falling back to a deterministic local strategy when the oracle is
// unavailable or fails.
type Resolver struct {
	oracle   Oracle
	useAI    bool
	strategy string
	maxLen   int
	spaceSub string

	// warnf receives oracle failure notices; nil discards them.
	warnf func(format string, args ...any)

	// now is swappable for timestamp-strategy tests.
	now func() time.Time
}

// NewResolver wires a resolver from the vault naming configuration. warnf may
// be nil.
func NewResolver(oracle Oracle, vc *config.VaultConfig, warnf func(string, ...any)) *Resolver {
	return &Resolver{
		oracle:   oracle,
		useAI:    vc.IsAIEnabled(),
		strategy: vc.GetFallbackStrategy(),
		maxLen:   vc.NameMaxLength(),
		spaceSub: vc.Naming.ReplaceSpaces,
		warnf:    warnf,
		now:      time.Now,
	}
}

// NewName returns a proposed stem (no extension) for ref. hint carries
// collision feedback for oracle retries and is ignored by the fallbacks.
// The returned stem is never empty.
func (r *Resolver) NewName(ctx context.Context, ref extract.ImageReference, hint string) string {
	if r.useAI && r.oracle != nil && r.oracle.Available() {
		name, err := r.oracle.GenerateName(ctx, ref.ImagePath, ref.Context, hint)
		switch {
		case err != nil:
			if r.warnf != nil {
				r.warnf("naming oracle failed for %s: %v", ref.ImageName, err)
			}
		case name != "":
			return Sanitize(name, r.maxLen, r.spaceSub)
		}
	}
	return r.fallbackName(ref)
}

func (r *Resolver) fallbackName(ref extract.ImageReference) string {
	switch r.strategy {
	case FallbackFromFileName:
		return docStem(ref) + "_image"
	case FallbackFromDocument:
		return docStem(ref)
	case FallbackFromTimestamp:
		return fmt.Sprintf("image_%d", r.now().Unix())
	default:
		return r.keywordName(ref)
	}
}

// Strategy names re-exported so callers need not import config for them.
const (
	FallbackFromKeywords  = config.FallbackContextKeywords
	FallbackFromFileName  = config.FallbackFileName
	FallbackFromDocument  = config.FallbackDocument
	FallbackFromTimestamp = config.FallbackTimestamp
)

// keywordName joins the first three significant context tokens with
// underscores. Latin tokens are slug-normalized to lowercase; CJK tokens
// pass through. No usable tokens falls back to the document stem.
func (r *Resolver) keywordName(ref extract.ImageReference) string {
	tokens := tokenRe.FindAllString(ref.Context, -1)

	var keywords []string
	for _, tok := range tokens {
		if _, stop := stopWords[strings.ToLower(tok)]; stop {
			continue
		}
		if len([]rune(tok)) <= 1 {
			continue
		}
		if isLatin(tok) {
			tok = slug.Make(tok)
		}
		keywords = append(keywords, tok)
		if len(keywords) == 3 {
			break
		}
	}

	if len(keywords) == 0 {
		return docStem(ref) + "_image"
	}
	return strings.Join(keywords, "_")
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > 'z' {
			return false
		}
	}
	return true
}

func docStem(ref extract.ImageReference) string {
	base := filepath.Base(ref.MarkdownFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
