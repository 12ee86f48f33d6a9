// Package render turns section content and outlines into HTML.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdfoutline/model"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// MarkdownToHTML converts rendered section text to HTML
func MarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// OutlineHTML renders a tree as a nested list of links to section ids
func OutlineHTML(tree *model.DocumentTree) (string, error) {
	nav := element(atom.Nav, html.Attribute{Key: "class", Val: "outline"})
	h1 := element(atom.H1)
	h1.AppendChild(textNode(tree.Title))
	nav.AppendChild(h1)

	if len(tree.Sections) > 0 {
		nav.AppendChild(sectionList(tree.Sections))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, nav); err != nil {
		return "", fmt.Errorf("render outline: %w", err)
	}
	return buf.String(), nil
}

func sectionList(sections []model.Section) *html.Node {
	ul := element(atom.Ul)
	for _, s := range sections {
		li := element(atom.Li, html.Attribute{Key: "id", Val: s.ID.String()})

		a := element(atom.A, html.Attribute{Key: "href", Val: "#" + s.ID.String()})
		a.AppendChild(textNode(s.Title))
		li.AppendChild(a)

		span := element(atom.Span, html.Attribute{Key: "class", Val: "pages"})
		span.AppendChild(textNode(pages(s.PageRange)))
		li.AppendChild(textNode(" "))
		li.AppendChild(span)

		if len(s.Children) > 0 {
			li.AppendChild(sectionList(s.Children))
		}
		ul.AppendChild(li)
	}
	return ul
}

func pages(r model.PageRange) string {
	if r.First == r.Last {
		return fmt.Sprintf("p. %d", r.First)
	}
	return fmt.Sprintf("pp. %d–%d", r.First, r.Last)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
