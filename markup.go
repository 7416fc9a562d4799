package quotecard

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ---- Markup AST ----

// Node is a child of a LineNode: one of TextNode, BoldNode or BreakNode.
type Node interface {
	markupNode()
}

// TextNode is plain text inside a line. Elements other than <bold> and
// <br> are flattened into a TextNode carrying their text content.
type TextNode struct {
	Text string
}

// BoldNode is a <bold> element with its flattened text content.
type BoldNode struct {
	Text string
}

// BreakNode is a <br> element.
type BreakNode struct{}

func (TextNode) markupNode()  {}
func (BoldNode) markupNode()  {}
func (BreakNode) markupNode() {}

// LineNode is one <line> element.
type LineNode struct {
	Children []Node
}

// Document is the ordered sequence of lines in a piece of content.
type Document struct {
	Lines []LineNode
}

const (
	tagLine  = "line"
	tagBold  = "bold"
	tagBreak = "br"
)

// rawTextTags switch the tokenizer into raw text mode, so their content
// could never hold markup.
var rawTextTags = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "textarea": true,
	"title": true, "xmp": true,
}

// ParseMarkup parses content markup into a Document. The markup is a
// sequence of <line> elements holding text, <bold> and <br>. Tags must be
// balanced (<br> may be written as a void element) and lines may not nest.
func ParseMarkup(src string) (*Document, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	p := &markupParser{doc: &Document{}}
	offset := 0
	for {
		tt := z.Next()
		n := len(z.Raw())
		var err error
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return p.finish(offset)
			}
			return nil, &MarkupParseError{Offset: offset, Msg: z.Err().Error()}
		case html.TextToken:
			p.text(string(z.Text()))
		case html.StartTagToken:
			name, _ := z.TagName()
			err = p.open(string(name), offset, false)
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			err = p.open(string(name), offset, true)
		case html.EndTagToken:
			name, _ := z.TagName()
			err = p.close(string(name), offset)
		}
		if err != nil {
			return nil, err
		}
		offset += n
	}
}

type openTag struct {
	name   string
	offset int
}

type markupParser struct {
	doc   *Document
	stack []openTag
	// lineDepth is the stack index of the open <line>, or -1.
	lineDepth int
	line      *LineNode
	// child collects the text of the element directly below the line.
	child      strings.Builder
	lastDirect bool
}

func (p *markupParser) inLine() bool {
	return p.line != nil
}

// directlyInLine reports whether the innermost open element is the line.
func (p *markupParser) directlyInLine() bool {
	return p.inLine() && len(p.stack) == p.lineDepth+1
}

func (p *markupParser) text(s string) {
	switch {
	case !p.inLine():
		// text between lines is layout whitespace
	case p.directlyInLine():
		if s == "" {
			return
		}
		if p.lastDirect {
			last := &p.line.Children[len(p.line.Children)-1]
			*last = TextNode{Text: (*last).(TextNode).Text + s}
			return
		}
		p.line.Children = append(p.line.Children, TextNode{Text: s})
		p.lastDirect = true
	default:
		p.child.WriteString(s)
	}
}

func (p *markupParser) open(name string, offset int, void bool) error {
	switch {
	case rawTextTags[name]:
		return &MarkupParseError{Offset: offset, Msg: fmt.Sprintf("<%s> is not allowed", name)}
	case name == tagLine && p.inLine():
		return &MarkupParseError{Offset: offset, Msg: "nested <line>"}
	case name == tagLine:
		if void {
			p.doc.Lines = append(p.doc.Lines, LineNode{})
			return nil
		}
		p.stack = append(p.stack, openTag{name: name, offset: offset})
		p.lineDepth = len(p.stack) - 1
		p.line = &LineNode{}
		p.lastDirect = false
		return nil
	case name == tagBreak:
		if p.directlyInLine() {
			p.line.Children = append(p.line.Children, BreakNode{})
			p.lastDirect = false
		}
		return nil
	case void:
		return nil
	}
	if p.directlyInLine() {
		p.child.Reset()
		p.lastDirect = false
	}
	p.stack = append(p.stack, openTag{name: name, offset: offset})
	return nil
}

func (p *markupParser) close(name string, offset int) error {
	if name == tagBreak {
		return nil
	}
	if len(p.stack) == 0 {
		return &MarkupParseError{Offset: offset, Msg: fmt.Sprintf("unexpected </%s>", name)}
	}
	top := p.stack[len(p.stack)-1]
	if top.name != name {
		return &MarkupParseError{Offset: offset, Msg: fmt.Sprintf("</%s> does not close <%s> at offset %d", name, top.name, top.offset)}
	}
	p.stack = p.stack[:len(p.stack)-1]
	switch {
	case !p.inLine():
	case len(p.stack) == p.lineDepth:
		p.doc.Lines = append(p.doc.Lines, *p.line)
		p.line = nil
		p.lineDepth = -1
	case p.directlyInLine():
		text := p.child.String()
		p.child.Reset()
		if name == tagBold {
			p.line.Children = append(p.line.Children, BoldNode{Text: text})
		} else {
			p.line.Children = append(p.line.Children, TextNode{Text: text})
		}
	}
	return nil
}

func (p *markupParser) finish(offset int) (*Document, error) {
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return nil, &MarkupParseError{Offset: offset, Msg: fmt.Sprintf("unclosed <%s> at offset %d", top.name, top.offset)}
	}
	return p.doc, nil
}
