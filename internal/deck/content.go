package deck

import "slidedeck/internal/ui"

// Heading adds a slide title in the top left corner
func Heading(p *ui.Page, text string) *ui.Element {
	return p.Label(text).Classes("heading")
}

// CenterHeading adds a title centered on the slide
func CenterHeading(p *ui.Page, text string) *ui.Element {
	return p.Label(text).Classes("heading center-heading")
}

// CenterRow adds a row filling the slide with its items centered
func CenterRow(p *ui.Page, fn func()) *ui.Element {
	return p.Within(p.Add("div").Classes("row center"), fn)
}

// CenterColumn adds a column filling the slide with its items centered
func CenterColumn(p *ui.Page, fn func()) *ui.Element {
	return p.Within(p.Add("div").Classes("column center"), fn)
}
