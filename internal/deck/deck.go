// Package deck builds slide decks on top of the ui page model: slides with
// stepwise reveal, speaker notes, keyboard navigation and a companion notes
// view with a countdown timer.
package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"slidedeck/internal/models"
	"slidedeck/internal/ui"
)

// Session storage keys shared by the deck and notes views
const (
	SlideKey    = "slide_name"
	DeadlineKey = "timer_deadline"
)

// Page roles
const (
	RoleDeck  = "deck"
	RoleNotes = "notes"
)

var (
	ErrOutsideSlide  = errors.New("must be used inside a slide")
	ErrNestedSlide   = errors.New("slides cannot be nested")
	ErrInvalidBounds = errors.New("invalid step bounds")
	ErrNoSlides      = errors.New("deck has no slides")
)

// Definition describes a deck. Slides is called once per page to declare
// the slides; ui is the page being built.
type Definition struct {
	Title     string
	TimeLimit time.Duration
	Slides    func(d *Deck, ui *ui.Page)

	// Clock overrides time.Now for the countdown timer
	Clock func() time.Time
}

// Deck is the ordered slide sequence of one page and its navigation state
type Deck struct {
	def      Definition
	page     *ui.Page
	element  *ui.Element
	slides   []*Slide
	current  int
	building *Slide
	dots     []*ui.Element
}

// build declares the deck's slides in the page's current container.
// Usage errors raised while declaring are returned as errors.
func build(p *ui.Page, def Definition) (d *Deck, err error) {
	if def.Slides == nil {
		return nil, ErrNoSlides
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("failed to build deck: %w", e)
			} else {
				err = fmt.Errorf("failed to build deck: %v", r)
			}
			d = nil
		}
	}()

	d = &Deck{def: def, page: p}
	d.element = p.Add("div").Classes("deck")
	p.Within(d.element, func() {
		def.Slides(d, p)
	})
	if len(d.slides) == 0 {
		return nil, ErrNoSlides
	}
	return d, nil
}

// Mount builds the main deck view on p: the slides, the navigation dots and
// the arrow key bindings. The current slide is restored from and kept in
// session storage.
func Mount(p *ui.Page, def Definition) (*Deck, error) {
	d, err := build(p, def)
	if err != nil {
		return nil, err
	}
	p.Title = def.Title
	p.Role = RoleDeck

	p.Within(d.element, func() {
		p.Row(func() {
			for i := range d.slides {
				index := i
				dot := p.Button("", func() { d.Goto(index) }).Classes("dot")
				dot.Prop("aria-label", "Slide "+strconv.Itoa(i+1))
				d.dots = append(d.dots, dot)
			}
		}).Classes("navigation")
	})

	p.OnKey(d.handleKey)

	// Watch before reading so a write landing in between is not lost
	storage := p.Storage()
	storage.Watch(SlideKey, func(string) {
		// Read back the latest value; notifications can trail later writes.
		if value, ok := storage.Get(SlideKey); ok {
			index, _ := ParseSlideName(value, len(d.slides))
			d.show(index)
		}
	})
	if value, ok := storage.Get(SlideKey); ok {
		index, _ := ParseSlideName(value, len(d.slides))
		d.show(index)
	} else {
		d.Goto(0)
	}
	return d, nil
}

// Slide declares a slide and builds fn inside it. While fn runs the slide
// is the target of Step and Note; the scope ends even if fn panics. A gate
// whose minimum lies past the slide's last step panics with
// ErrInvalidBounds.
func (d *Deck) Slide(fn func()) *Slide {
	if d.building != nil {
		panic(fmt.Errorf("Slide(): %w", ErrNestedSlide))
	}
	s := newSlide(len(d.slides), d.page.Add("section").Classes("slide"))
	d.slides = append(d.slides, s)

	d.building = s
	defer func() {
		d.building = nil
	}()
	d.page.Within(s.element, fn)
	for _, g := range s.gates {
		if g.min > s.LastStep() {
			panic(fmt.Errorf("Step(): %w: min %d beyond last step %d", ErrInvalidBounds, g.min, s.LastStep()))
		}
	}
	return s
}

// Page returns the page the deck is built on
func (d *Deck) Page() *ui.Page {
	return d.page
}

// Slides returns the slides in order
func (d *Deck) Slides() []*Slide {
	return d.slides
}

// Len returns the number of slides
func (d *Deck) Len() int {
	return len(d.slides)
}

// Index returns the 0-based index of the current slide
func (d *Deck) Index() int {
	return d.current
}

// Current returns the current slide
func (d *Deck) Current() *Slide {
	return d.slides[d.current]
}

// TimeLimit returns the configured talk duration, 0 if disabled
func (d *Deck) TimeLimit() time.Duration {
	return d.def.TimeLimit
}

// State returns the navigation state
func (d *Deck) State() models.DeckState {
	s := d.Current()
	return models.DeckState{
		Slide:  d.current,
		Step:   s.step,
		Slides: len(d.slides),
		Steps:  s.steps,
	}
}

// Advance reveals the next step of the current slide or, at its last step,
// moves to the first step of the next slide. It reports whether anything
// changed; at the end of the deck it does nothing.
func (d *Deck) Advance() bool {
	s := d.Current()
	if s.step < s.LastStep() {
		s.SetStep(s.step + 1)
		return true
	}
	if d.current < len(d.slides)-1 {
		d.slides[d.current+1].SetStep(0)
		d.Goto(d.current + 1)
		return true
	}
	return false
}

// Retreat hides the last revealed step of the current slide or, at step 0,
// moves to the last step of the previous slide. At the start of the deck
// it does nothing.
func (d *Deck) Retreat() bool {
	s := d.Current()
	if s.step > 0 {
		s.SetStep(s.step - 1)
		return true
	}
	if d.current > 0 {
		prev := d.slides[d.current-1]
		prev.SetStep(prev.LastStep())
		d.Goto(d.current - 1)
		return true
	}
	return false
}

// Goto shows the slide at index and records it in session storage so other
// views of the session follow
func (d *Deck) Goto(index int) {
	d.show(index)
	d.page.Storage().Set(SlideKey, SlideName(d.current))
}

func (d *Deck) show(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(d.slides) {
		index = len(d.slides) - 1
	}
	d.current = index
	for i, s := range d.slides {
		s.element.SetVisible(i == index)
	}
	for i, dot := range d.dots {
		if i == index {
			dot.Classes("active")
		} else {
			dot.RemoveClasses("active")
		}
	}
}

func (d *Deck) handleKey(k ui.KeyEvent) {
	if !k.Keydown() {
		return
	}
	switch k.Key {
	case "ArrowLeft", "PageUp":
		d.Retreat()
	case "ArrowRight", "PageDown":
		d.Advance()
	}
}

// SlideName returns the storage value for the slide at index
func SlideName(index int) string {
	return "slide_" + strconv.Itoa(index+1)
}

// ParseSlideName returns the 0-based slide index encoded in name. The
// position follows the last underscore and is 1-based. Values that are
// malformed or out of [0, count) yield 0 and false.
func ParseSlideName(name string, count int) (int, bool) {
	i := strings.LastIndex(name, "_")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}
