// Package imgref provides canonical parsing/scanning of inline image references.
//
// Reference grammar:
//
//	![[target]]
//	![alt](target)
//	![](target)
//
// Notes:
// - Targets are returned verbatim, exactly as written between the delimiters.
// - Alt text is captured but ignored for matching purposes.
// - Rewriting is a literal substitution per pattern variant, not a re-parse;
//   occurrences of the same string outside a reference position are untouched.
package imgref

import (
	"regexp"
	"strings"
)

// Syntax identifies which reference form a match used.
type Syntax int

const (
	// SyntaxEmbed is the bracket-embed form ![[target]].
	SyntaxEmbed Syntax = iota
	// SyntaxLink is the standard link form ![alt](target).
	SyntaxLink
)

// Match represents an image reference found in a string (typically a single line).
type Match struct {
	Target  string
	Alt     string
	Syntax  Syntax
	Start   int
	End     int
	Literal string
}

// re matches ![[target]] or ![alt](target).
// The embed target cannot contain ] and the link target cannot contain ).
var re = regexp.MustCompile(`!\[\[([^\]]+)\]\]|!\[([^\]]*)\]\(([^\)]+)\)`)

// FindAllInLine finds image references in a single line, in left-to-right order.
func FindAllInLine(line string) []Match {
	var out []Match

	matches := re.FindAllStringSubmatchIndex(line, -1)
	for _, m := range matches {
		start, end := m[0], m[1]

		// Embed form: group 1.
		if m[2] >= 0 {
			target := line[m[2]:m[3]]
			if target == "" {
				continue
			}
			out = append(out, Match{
				Target:  target,
				Syntax:  SyntaxEmbed,
				Start:   start,
				End:     end,
				Literal: line[start:end],
			})
			continue
		}

		// Link form: alt is group 2 (may be empty), target is group 3.
		if m[6] >= 0 {
			target := line[m[6]:m[7]]
			if target == "" {
				continue
			}
			var alt string
			if m[4] >= 0 {
				alt = line[m[4]:m[5]]
			}
			out = append(out, Match{
				Target:  target,
				Alt:     alt,
				Syntax:  SyntaxLink,
				Start:   start,
				End:     end,
				Literal: line[start:end],
			})
		}
	}

	return out
}

// RewriteContent rewrites every reference to oldTarget so it points at newTarget,
// preserving all other content byte-for-byte.
//
// Three variants are substituted: the bracket-embed form, the link form where
// alt text and path were identical to the target, and the empty-alt link form.
func RewriteContent(content, oldTarget, newTarget string) string {
	if oldTarget == "" || oldTarget == newTarget {
		return content
	}

	replacements := [][2]string{
		{"![[" + oldTarget + "]]", "![[" + newTarget + "]]"},
		{"![" + oldTarget + "](" + oldTarget + ")", "![" + newTarget + "](" + newTarget + ")"},
		{"![](" + oldTarget + ")", "![](" + newTarget + ")"},
	}

	for _, r := range replacements {
		content = strings.ReplaceAll(content, r[0], r[1])
	}
	return content
}
