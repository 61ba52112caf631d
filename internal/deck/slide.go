package deck

import "slidedeck/internal/ui"

// Slide is one screen of a deck. It owns a reveal step counter, the gates
// that react to it and the speaker notes declared inside it.
type Slide struct {
	index   int
	element *ui.Element
	step    int
	steps   int
	gates   []*Gate
	notes   []*Note
}

func newSlide(index int, element *ui.Element) *Slide {
	return &Slide{
		index:   index,
		element: element,
		steps:   1,
	}
}

// Index returns the 0-based position of the slide in its deck
func (s *Slide) Index() int {
	return s.index
}

// Element returns the slide's container
func (s *Slide) Element() *ui.Element {
	return s.element
}

// Step returns the current reveal step
func (s *Slide) Step() int {
	return s.step
}

// Steps returns the number of reveal steps, at least 1
func (s *Slide) Steps() int {
	return s.steps
}

// LastStep returns the highest reachable step
func (s *Slide) LastStep() int {
	return s.steps - 1
}

// Notes returns the speaker notes in declaration order
func (s *Slide) Notes() []*Note {
	return s.notes
}

// Gates returns the step gates in declaration order
func (s *Slide) Gates() []*Gate {
	return s.gates
}

// SetStep moves the slide to step, clamped to [0, Steps()-1], and updates
// every gate of the slide
func (s *Slide) SetStep(step int) {
	if step < 0 {
		step = 0
	}
	if step > s.LastStep() {
		step = s.LastStep()
	}
	s.step = step
	for _, g := range s.gates {
		g.update()
	}
}
