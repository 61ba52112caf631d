package ui

import (
	"bytes"
	"html"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// RenderMarkdown converts dedented Markdown text to HTML
func RenderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Dedent(text)), &buf); err != nil {
		return "<pre>" + html.EscapeString(text) + "</pre>"
	}
	return buf.String()
}

// Dedent removes the whitespace prefix common to all non-blank lines and
// trims leading and trailing blank lines. Whitespace-only lines become empty.
func Dedent(text string) string {
	return strings.Trim(dedent.Dedent(text), "\n")
}
