// Package markup converts milestone descriptions, which may be written in
// Markdown, into the plain text shown in chart tooltips.
package markup

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// PlainText parses md as Markdown and returns its text content on a single
// line. Emphasis, links, images and code spans are reduced to their text;
// raw HTML is dropped.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	src := []byte(s)
	root := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		switch node := n.(type) {
		case *gmast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *gmast.String:
			if entering {
				b.Write(node.Value)
			}
		case *gmast.AutoLink:
			if entering {
				b.Write(node.Label(src))
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
			}
			return gmast.WalkSkipChildren, nil
		default:
			if !entering && n.Type() == gmast.TypeBlock {
				b.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " ")
}
