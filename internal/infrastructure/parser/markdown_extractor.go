package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"

	"PageIngest/internal/domain"
	"PageIngest/internal/extract"
)

// MarkdownExtractor converts the page body to CommonMark.
type MarkdownExtractor struct {
	conv *converter.Converter
}

var _ extract.Extractor = (*MarkdownExtractor)(nil)

// NewMarkdownExtractor wires a converter with base, commonmark and table plugins.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Format identifies the strategy inside the registry.
func (m *MarkdownExtractor) Format() domain.Format {
	return domain.FormatMarkdown
}

// Extract renders the visible body as markdown; relative links resolve against pageURL.
func (m *MarkdownExtractor) Extract(body []byte, pageURL string) (extract.Result, error) {
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
	inner, err := root.Html()
	if err != nil {
		return extract.Result{}, fmt.Errorf("render body: %w", err)
	}

	markdown, err := m.conv.ConvertString(inner, converter.WithDomain(pageURL))
	if err != nil {
		return extract.Result{}, fmt.Errorf("convert markdown: %w", err)
	}

	return extract.Result{
		Title: title,
		Text:  strings.TrimSpace(markdown),
	}, nil
}
