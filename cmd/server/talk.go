package main

import (
	"time"

	"slidedeck/internal/deck"
	"slidedeck/internal/demo"
	"slidedeck/internal/ui"
)

// slide adds the grey wedge every slide of this talk carries at its bottom
func slide(d *deck.Deck, p *ui.Page, fn func()) {
	d.Slide(func() {
		p.Label("").Classes("wedge")
		fn()
	})
}

// Talk declares the example talk
func Talk(title string, timeLimit time.Duration) deck.Definition {
	return deck.Definition{
		Title:     title,
		TimeLimit: timeLimit,
		Slides: func(d *deck.Deck, p *ui.Page) {
			slide(d, p, func() {
				deck.CenterColumn(p, func() {
					p.Markdown("*slidedeck*").Classes("title")
					p.Label("Live slides from plain Go").Classes("subtitle")
				})
				d.Note(`
					- Who am I?
					- Why slides in Go at all?
				`)
			})

			slide(d, p, func() {
				deck.Heading(p, "Background")
				d.Note(`
					- Presenting live UI code is awkward with static slides
					- Screenshots drift away from the code they show
				`)
			})

			slide(d, p, func() {
				deck.CenterHeading(p, "A Server-Driven Deck")
			})

			slide(d, p, func() {
				deck.Heading(p, "How It Works")
				deck.CenterColumn(p, func() {
					d.Step(func() { p.Label("1. The server builds the page") })
					d.Step(func() { p.Label("2. The browser sends key presses") })
					d.Step(func() { p.Label("3. The server pushes changed elements") })
				})
				d.Note(`
					Each arrow key reveals one more line before moving on.
				`)
			})

			slide(d, p, func() {
				deck.Heading(p, "Three-line Hello World")
				deck.CenterRow(p, func() {
					demo.Show(p, func(ui *ui.Page) {
						ui.Label("Hello world!")
					})
				})
				d.Note(`
					- no build step for the audience to follow
					- the code shown is the code that runs
				`)
			})

			slide(d, p, func() {
				deck.Heading(p, "Hierarchical Layout")
				deck.CenterRow(p, func() {
					demo.Show(p, func(ui *ui.Page) {
						ui.Card(func() {
							ui.Row(func() {
								ui.Label("Hello")
								ui.Label("world!")
							})
						})
					})
				})
				d.Note("Nesting follows the closures.")
			})

			slide(d, p, func() {
				deck.Heading(p, "Hierarchical Layout: Compared")
				deck.CenterRow(p, func() {
					d.Step(func() {
						p.Label("HTML").Classes("caption")
						demo.CodeIn(p, `
							<div id="container">
								<div id="box">
									<p>Hello world!</p>
								</div>
							</div>
						`, "html")
					}, deck.Min(0))
					d.Step(func() {
						p.Label("slidedeck").Classes("caption")
						demo.Code(p, `
							ui.Card(func() {
								ui.Row(func() {
									ui.Label("Hello world!")
								})
							})
						`)
					})
				})
			})

			slide(d, p, func() {
				deck.Heading(p, "Event Handling")
				deck.CenterRow(p, func() {
					demo.Show(p, func(ui *ui.Page) {
						ui.Card(func() {
							ui.Button("Spawn", func() { ui.Label("I'm here!") })
						})
					})
				})
				d.Note(`
					Handlers run next to the element that raised the event,
					so new elements appear in the same card.
				`)
			})

			slide(d, p, func() {
				deck.Heading(p, "Builder Pattern")
				deck.CenterRow(p, func() {
					demo.Show(p, func(ui *ui.Page) {
						ui.Button("Nice!", nil).
							Classes("outline").
							Style("box-shadow", "0 0 1rem 0 rgba(0, 127, 255, 0.25)")
					})
				})
			})

			slide(d, p, func() {
				deck.Heading(p, "Markdown and HTML")
				deck.CenterRow(p, func() {
					demo.Show(p, func(ui *ui.Page) {
						ui.Markdown(`
							This is **Markdown**.
						`)
						ui.HTML(`<p>This is <strong>HTML</strong>.</p>`)
					})
				})
			})

			slide(d, p, func() {
				deck.CenterColumn(p, func() {
					p.Markdown("### Thanks")
					d.Step(func() { p.Label("Questions?") }, deck.Max(1))
					d.Step(func() { p.Label("github.com/slidedeck") }, deck.Min(2))
				})
				d.Note("Leave the final slide up during questions.")
			})
		},
	}
}
