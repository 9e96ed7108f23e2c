package naming

import (
	"regexp"
	"strings"
)

// DefaultName is used when sanitization strips a proposed name to nothing.
const DefaultName = "未命名图片"

var (
	extWordRe   = regexp.MustCompile(`(?i)\b(png|jpg|jpeg|gif|bmp|svg|webp)\b`)
	pastedRe    = regexp.MustCompile(`(?i)pasted[_\- ]?image`)
	latinRe     = regexp.MustCompile(`[A-Za-z0-9]+`)
	unsafeRe    = regexp.MustCompile(`[<>:"/\\|?*]`)
	separatorRe = regexp.MustCompile(`[_\-#]+`)
)

// Sanitize normalizes an oracle-proposed name into a short Chinese noun
// phrase safe for use as a file stem. Format words, pasted-image prefixes,
// Latin runs, filesystem-unsafe characters and separator runs are removed,
// spaces become spaceRepl, and the result is capped at maxLen runes. An
// empty result falls back to DefaultName.
func Sanitize(name string, maxLen int, spaceRepl string) string {
	name = extWordRe.ReplaceAllString(name, "")
	name = pastedRe.ReplaceAllString(name, "")
	name = latinRe.ReplaceAllString(name, "")
	name = unsafeRe.ReplaceAllString(name, "")
	name = separatorRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", spaceRepl)

	if runes := []rune(name); maxLen > 0 && len(runes) > maxLen {
		name = string(runes[:maxLen])
	}

	name = strings.Trim(name, " ._-")
	if name == "" {
		return DefaultName
	}
	return name
}
