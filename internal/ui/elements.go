package ui

import "strconv"

// Label adds a text label
func (p *Page) Label(text string) *Element {
	return p.Add("div").Classes("label").SetText(text)
}

// HTML adds a raw HTML fragment
func (p *Page) HTML(content string) *Element {
	return p.Add("div").Classes("html").SetContent(content)
}

// Markdown adds text rendered from Markdown. Common indentation is removed
// first so the text can be written as an indented Go raw string.
func (p *Page) Markdown(text string) *Element {
	return p.Add("div").Classes("markdown").SetContent(RenderMarkdown(text))
}

// Icon adds a Material icon by ligature name
func (p *Page) Icon(name string) *Element {
	return p.Add("span").Classes("material-icons icon").SetText(name)
}

// Image adds an image
func (p *Page) Image(src string) *Element {
	return p.Add("img").Classes("image").Prop("src", src)
}

// Button adds a button calling onClick when pressed
func (p *Page) Button(text string, onClick func()) *Element {
	return p.Add("button").Classes("button").SetText(text).OnClick(onClick)
}

// Element adds a generic container and builds fn inside it
func (p *Page) Element(tag string, fn func()) *Element {
	return p.Within(p.Add(tag), fn)
}

// Row adds a horizontal flex container
func (p *Page) Row(fn func()) *Element {
	return p.Within(p.Add("div").Classes("row"), fn)
}

// Column adds a vertical flex container
func (p *Page) Column(fn func()) *Element {
	return p.Within(p.Add("div").Classes("column"), fn)
}

// Card adds a raised container
func (p *Page) Card(fn func()) *Element {
	return p.Within(p.Add("div").Classes("card"), fn)
}

// Slider adds a range input calling onChange with the new integer value
func (p *Page) Slider(min, max, value int, onChange func(int)) *Element {
	e := p.Add("input").Classes("slider").
		Prop("type", "range").
		Prop("min", strconv.Itoa(min)).
		Prop("max", strconv.Itoa(max)).
		Prop("value", strconv.Itoa(value))
	return e.OnChange(func(v string) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return
		}
		e.props["value"] = v
		onChange(n)
	})
}
