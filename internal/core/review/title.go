package review

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultTitle is used when a document has no usable first line.
const DefaultTitle = "Review"

// DocumentTitle derives a title for a markdown document: the text of the
// first heading, else the first non-empty line with leading '#' removed,
// else DefaultTitle.
func DocumentTitle(doc string) string {
	src := []byte(doc)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(headingText(heading, src))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkStop, nil
	})
	if title != "" {
		return title
	}

	for line := range strings.SplitSeq(doc, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return DefaultTitle
}

func headingText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
