// Package demo shows a UI snippet's code next to its live result
package demo

import (
	"fmt"

	"slidedeck/internal/ui"
)

// Title is the tab label of the browser mockup
var Title = "slidedeck"

// Show renders the source of fn beside the result of running it. It panics
// with ErrNoSource if the source of fn cannot be read, so a deck using it
// fails when it is built.
func Show(p *ui.Page, fn func(ui *ui.Page)) *ui.Element {
	code, err := Source(fn)
	if err != nil {
		panic(fmt.Errorf("Demo(): %w", err))
	}
	return Pair(p, code, fn)
}

// Pair renders explicit code text beside the result of running fn
func Pair(p *ui.Page, code string, fn func(ui *ui.Page)) *ui.Element {
	return p.Row(func() {
		Code(p, code)
		Result(p, fn)
	}).Classes("demo")
}

// FromText renders a paired snippet whose code is given as text, normalised
// like introspected source
func FromText(p *ui.Page, code string, fn func(ui *ui.Page)) *ui.Element {
	return Pair(p, Normalize(code), fn)
}

// Code adds a read-only Go code block
func Code(p *ui.Page, code string) *ui.Element {
	return CodeIn(p, code, "go")
}

// CodeIn adds a read-only code block highlighted as language
func CodeIn(p *ui.Page, code, language string) *ui.Element {
	return p.Code(ui.Dedent(code), language).Classes("demo-code")
}

// Result runs fn inside a browser window mockup: a title bar with three
// status dots and a tab, above a rounded, shadowed viewport
func Result(p *ui.Page, fn func(ui *ui.Page)) *ui.Element {
	return p.Card(func() {
		p.Row(func() {
			p.Row(func() {
				p.Icon("circle").Classes("status red")
				p.Icon("circle").Classes("status yellow")
				p.Icon("circle").Classes("status green")
			}).Classes("status-dots")
			p.Row(func() {
				p.Label(Title).Classes("tab")
			}).Classes("tabs")
		}).Classes("title-bar")
		p.Column(func() {
			fn(p)
		}).Classes("viewport")
	}).Classes("browser").
		Style("border-radius", "12px").
		Style("box-shadow", "0 1px 2px rgba(0, 0, 0, 0.1)")
}
