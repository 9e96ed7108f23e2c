package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document's heading outline.
type Heading struct {
	Level int
	Text  string
}

var md = goldmark.New()

// Outline parses the document and returns its headings in order.
func Outline(content string) []Heading {
	source := []byte(content)
	doc := md.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			txt := string(h.Text(source))
			if txt != "" {
				headings = append(headings, Heading{Level: h.Level, Text: txt})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// OutlineBlock renders the heading outline as an indented annotation block
// for the oracle context. Returns "" for documents without headings.
func OutlineBlock(content string) string {
	headings := Outline(content)
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("【文档大纲】")
	for _, h := range headings {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("  ", h.Level-1))
		b.WriteString("- ")
		b.WriteString(h.Text)
	}
	return b.String()
}
