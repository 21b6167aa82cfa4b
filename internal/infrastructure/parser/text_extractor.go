package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"PageIngest/internal/domain"
	"PageIngest/internal/extract"
)

// invisibleSelector lists elements whose content never reaches the reader.
const invisibleSelector = "head, script, style, noscript, template, svg, iframe, object, embed"

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"summary": true, "table": true, "tr": true, "ul": true, "caption": true,
}

// TextExtractor renders visible page text, one block element per line.
type TextExtractor struct{}

var _ extract.Extractor = TextExtractor{}

// NewTextExtractor returns the default plain-text strategy.
func NewTextExtractor() TextExtractor {
	return TextExtractor{}
}

// Format identifies the strategy inside the registry.
func (TextExtractor) Format() domain.Format {
	return domain.FormatText
}

// Extract strips markup and collapses whitespace.
func (TextExtractor) Extract(body []byte, _ string) (extract.Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return extract.Result{}, fmt.Errorf("parse document: %w", err)
	}

	title := pageTitle(doc)
	doc.Find(invisibleSelector).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b textBuilder
	for _, n := range root.Nodes {
		b.walk(n)
	}
	b.flush()

	return extract.Result{
		Title: title,
		Text:  strings.Join(b.lines, "\n"),
	}, nil
}

func pageTitle(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

type textBuilder struct {
	lines []string
	line  strings.Builder
}

func (b *textBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.line.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch {
		case n.Data == "br":
			b.flush()
			return
		case n.Data == "td" || n.Data == "th":
			b.line.WriteByte(' ')
		case blockElements[n.Data]:
			b.flush()
			defer b.flush()
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *textBuilder) flush() {
	line := strings.Join(strings.Fields(b.line.String()), " ")
	b.line.Reset()
	if line != "" {
		b.lines = append(b.lines, line)
	}
}
