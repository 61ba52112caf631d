package ui

import (
	"bytes"
	"html"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeStyle is the chroma style used for code blocks
var CodeStyle = "github"

// Code adds a syntax highlighted, read-only code block. The block carries
// no copy button.
func (p *Page) Code(code, language string) *Element {
	return p.Add("div").Classes("code").
		Prop("data-language", language).
		SetContent(Highlight(code, language))
}

// Highlight renders code as highlighted HTML. Unknown languages fall back
// to plain text.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainCode(code)
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.TabWidth(4))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return plainCode(code)
	}
	return buf.String()
}

func plainCode(code string) string {
	return "<pre>" + html.EscapeString(code) + "</pre>"
}
