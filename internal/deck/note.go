package deck

import "fmt"

// Note is Markdown speaker text attached to a slide
type Note struct {
	text string
}

// Text returns the Markdown source of the note
func (n *Note) Text() string {
	return n.text
}

// Note attaches Markdown speaker text to the slide under construction.
// It panics outside a slide.
func (d *Deck) Note(text string) *Note {
	s := d.building
	if s == nil {
		panic(fmt.Errorf("Note(): %w", ErrOutsideSlide))
	}
	n := &Note{text: text}
	s.notes = append(s.notes, n)
	return n
}
