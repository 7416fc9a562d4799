package quotecard

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown converts Markdown into the same Document ParseMarkup
// produces: every block of inline content (paragraph, heading, list item
// text, code block) becomes a line, strong emphasis becomes bold, hard
// line breaks become <br> and soft line breaks collapse to a space.
// Markdown never fails to parse.
func ParseMarkdown(md []byte) *Document {
	p := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := p.Parser().Parse(text.NewReader(md))
	doc := &Document{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch nd := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			var c inlineCollector
			c.collect(nd, md, false)
			doc.Lines = append(doc.Lines, c.line)
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			var c inlineCollector
			var buf strings.Builder
			lines := nd.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(md))
			}
			code := strings.TrimRight(buf.String(), "\n")
			for i, part := range strings.Split(code, "\n") {
				if i > 0 {
					c.addBreak()
				}
				c.addText(part, false)
			}
			doc.Lines = append(doc.Lines, c.line)
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			doc.Lines = append(doc.Lines, LineNode{})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return doc
}

// ParseMarkdownLines parses Markdown straight into its line sequence.
func ParseMarkdownLines(md []byte) []Line {
	return ParseMarkdown(md).Runs()
}

type inlineCollector struct {
	line LineNode
}

func (c *inlineCollector) addText(s string, bold bool) {
	if s == "" {
		return
	}
	if n := len(c.line.Children); n > 0 {
		switch last := c.line.Children[n-1].(type) {
		case TextNode:
			if !bold {
				c.line.Children[n-1] = TextNode{Text: last.Text + s}
				return
			}
		case BoldNode:
			if bold {
				c.line.Children[n-1] = BoldNode{Text: last.Text + s}
				return
			}
		}
	}
	if bold {
		c.line.Children = append(c.line.Children, BoldNode{Text: s})
	} else {
		c.line.Children = append(c.line.Children, TextNode{Text: s})
	}
}

func (c *inlineCollector) addBreak() {
	c.line.Children = append(c.line.Children, BreakNode{})
}

func (c *inlineCollector) collect(node ast.Node, md []byte, bold bool) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			c.addText(string(n.Segment.Value(md)), bold)
			switch {
			case n.HardLineBreak():
				c.addBreak()
			case n.SoftLineBreak():
				c.addText(" ", bold)
			}
		case *ast.String:
			c.addText(string(n.Value), bold)
		case *ast.Emphasis:
			c.collect(n, md, bold || n.Level >= 2)
		case *ast.AutoLink:
			label := string(n.Label(md))
			if label == "" {
				label = string(n.URL(md))
			}
			c.addText(label, bold)
		case *ast.RawHTML:
			// inline HTML carries no text of its own
		default:
			if child.HasChildren() {
				c.collect(child, md, bold)
			}
		}
	}
}
