package imgref

import (
	"testing"
)

func TestFindAllInLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Match
	}{
		{
			name: "embed form",
			line: "before ![[shot1.png]] after",
			want: []Match{{Target: "shot1.png", Syntax: SyntaxEmbed}},
		},
		{
			name: "link form with alt",
			line: "see ![diagram](assets/flow.png)",
			want: []Match{{Target: "assets/flow.png", Alt: "diagram", Syntax: SyntaxLink}},
		},
		{
			name: "link form with empty alt",
			line: "![](pasted.png)",
			want: []Match{{Target: "pasted.png", Syntax: SyntaxLink}},
		},
		{
			name: "multiple matches left to right",
			line: "![[a.png]] then ![x](b.png) then ![[c.png]]",
			want: []Match{
				{Target: "a.png", Syntax: SyntaxEmbed},
				{Target: "b.png", Alt: "x", Syntax: SyntaxLink},
				{Target: "c.png", Syntax: SyntaxEmbed},
			},
		},
		{
			name: "chinese target verbatim",
			line: "![[状态机示意图.png]]",
			want: []Match{{Target: "状态机示意图.png", Syntax: SyntaxEmbed}},
		},
		{
			name: "plain wikilink is not an image reference",
			line: "[[not-an-image]]",
			want: nil,
		},
		{
			name: "empty target skipped",
			line: "![[]] and ![alt]()",
			want: nil,
		},
		{
			name: "no matches",
			line: "just text",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAllInLine(tt.line)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d matches, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Target != w.Target {
					t.Errorf("match[%d].Target = %q, want %q", i, got[i].Target, w.Target)
				}
				if got[i].Alt != w.Alt {
					t.Errorf("match[%d].Alt = %q, want %q", i, got[i].Alt, w.Alt)
				}
				if got[i].Syntax != w.Syntax {
					t.Errorf("match[%d].Syntax = %v, want %v", i, got[i].Syntax, w.Syntax)
				}
			}
		})
	}
}

func TestFindAllInLinePositions(t *testing.T) {
	line := "x ![[a.png]] y"
	got := FindAllInLine(line)
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].Start != 2 || got[0].End != 12 {
		t.Errorf("positions = (%d, %d), want (2, 12)", got[0].Start, got[0].End)
	}
	if got[0].Literal != "![[a.png]]" {
		t.Errorf("Literal = %q", got[0].Literal)
	}
}

func TestRewriteContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		old     string
		new     string
		want    string
	}{
		{
			name:    "embed form",
			content: "a\n![[shot1.png]]\nb",
			old:     "shot1.png",
			new:     "新名称.png",
			want:    "a\n![[新名称.png]]\nb",
		},
		{
			name:    "link form with identical alt and path",
			content: "![shot1.png](shot1.png)",
			old:     "shot1.png",
			new:     "done.png",
			want:    "![done.png](done.png)",
		},
		{
			name:    "empty alt variant",
			content: "![](shot1.png)",
			old:     "shot1.png",
			new:     "done.png",
			want:    "![](done.png)",
		},
		{
			name:    "bare mention outside a reference is untouched",
			content: "the file shot1.png is embedded as ![[shot1.png]]",
			old:     "shot1.png",
			new:     "done.png",
			want:    "the file shot1.png is embedded as ![[done.png]]",
		},
		{
			name:    "link form with differing alt is untouched",
			content: "![diagram](shot1.png)",
			old:     "shot1.png",
			new:     "done.png",
			want:    "![diagram](shot1.png)",
		},
		{
			name:    "same target is a no-op",
			content: "![[shot1.png]]",
			old:     "shot1.png",
			new:     "shot1.png",
			want:    "![[shot1.png]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteContent(tt.content, tt.old, tt.new)
			if got != tt.want {
				t.Errorf("RewriteContent() = %q, want %q", got, tt.want)
			}
		})
	}
}
