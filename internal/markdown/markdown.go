// Package markdown wraps the goldmark parser for the few document-level
// questions doctags asks of a Markdown body.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Untitled is the title given to documents with neither a title field nor a heading.
const Untitled = "Untitled"

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// ParseBody parses a Markdown body (front-matter already removed) into a goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return newMarkdown().Parser().Parse(text.NewReader(body))
}

// FirstHeading returns the plain text of the first heading in body, or "" when
// the body has none. ATX and setext headings of any level count.
func FirstHeading(body []byte) string {
	root := ParseBody(body)

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			title = strings.TrimSpace(inlineText(h, body))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

// Title returns the first heading of body, or Untitled.
func Title(body []byte) string {
	if t := FirstHeading(body); t != "" {
		return t
	}
	return Untitled
}

// RenderHTML converts a Markdown body to an HTML fragment.
func RenderHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		default:
			b.WriteString(inlineText(node, source))
		}
	}
	return b.String()
}
