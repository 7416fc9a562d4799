package quotecard

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg/text/emoji"
)

// StyledRun is a maximal piece of a line sharing one bold/emoji
// classification. Break runs carry "\n" and have IsBreak set.
type StyledRun struct {
	Text    string
	IsEmoji bool
	IsBold  bool
	IsBreak bool
}

func (r StyledRun) String() string {
	var flags []string
	if r.IsBold {
		flags = append(flags, "bold")
	}
	if r.IsEmoji {
		flags = append(flags, "emoji")
	}
	if r.IsBreak {
		flags = append(flags, "break")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%q", r.Text)
	}
	return fmt.Sprintf("%q (%s)", r.Text, strings.Join(flags, ","))
}

// Line is the run sequence of one <line>. An empty Line still occupies a
// slot in the paragraph.
type Line []StyledRun

// ParseLines parses content markup straight into its line sequence.
func ParseLines(src string) ([]Line, error) {
	doc, err := ParseMarkup(src)
	if err != nil {
		return nil, err
	}
	return doc.Runs(), nil
}

// Runs flattens the document into one Line per <line>.
func (d *Document) Runs() []Line {
	lines := make([]Line, 0, len(d.Lines))
	for _, ln := range d.Lines {
		lines = append(lines, ln.Runs())
	}
	return lines
}

// Runs converts the line's children into styled runs.
func (l LineNode) Runs() Line {
	out := Line{}
	for _, child := range l.Children {
		switch n := child.(type) {
		case BreakNode:
			out = append(out, StyledRun{Text: "\n", IsBreak: true})
		case BoldNode:
			out = appendSegments(out, n.Text, true)
		case TextNode:
			out = appendSegments(out, n.Text, false)
		default:
			panic(fmt.Sprintf("quotecard: unexpected markup node %T", child))
		}
	}
	return out
}

// appendSegments splits text into alternating emoji and non-emoji runs,
// extending the previous run when it has the same classification.
func appendSegments(out Line, text string, bold bool) Line {
	for _, seg := range emoji.Segment(text) {
		if seg.Text == "" {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if !last.IsBreak && last.IsEmoji == seg.IsEmoji && last.IsBold == bold {
				last.Text += seg.Text
				continue
			}
		}
		out = append(out, StyledRun{Text: seg.Text, IsEmoji: seg.IsEmoji, IsBold: bold})
	}
	return out
}
