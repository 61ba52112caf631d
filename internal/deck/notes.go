package deck

import (
	"fmt"
	"log"
	"time"

	"slidedeck/internal/ui"
)

// Notes is the speaker view: the countdown timer and the notes of whichever
// slide the session's deck currently shows
type Notes struct {
	deck    *Deck
	page    *ui.Page
	timer   *Countdown
	current int

	clock *ui.Element
	start *ui.Element
	reset *ui.Element
	title *ui.Element
	list  *ui.Element
}

// MountNotes builds the notes view on p. The deck is declared off-screen to
// collect its notes; navigation is followed through session storage.
func MountNotes(p *ui.Page, def Definition) (*Notes, error) {
	var d *Deck
	var err error
	p.Detached(func() {
		d, err = build(p, def)
	})
	if err != nil {
		return nil, err
	}
	p.Title = def.Title + " (notes)"
	p.Role = RoleNotes

	n := &Notes{
		deck:  d,
		page:  p,
		timer: NewCountdown(def.TimeLimit, def.Clock),
	}
	p.Column(func() {
		if def.TimeLimit > 0 {
			p.Row(func() {
				n.clock = p.Label(n.timer.String()).Classes("timer")
				n.start = p.Button("Start", n.Start).Classes("start")
				n.reset = p.Button("Reset", n.Reset).Classes("reset")
			}).Classes("timer-bar")
		}
		n.title = p.Label("").Classes("notes-title")
		n.list = p.Column(nil).Classes("notes-list")
	}).Classes("notes")

	storage := p.Storage()
	storage.Watch(SlideKey, func(string) {
		if value, ok := storage.Get(SlideKey); ok {
			index, _ := ParseSlideName(value, d.Len())
			n.show(index)
		}
	})
	storage.Watch(DeadlineKey, func(string) {
		value, _ := storage.Get(DeadlineKey)
		n.adoptDeadline(value)
		n.refreshTimer()
	})

	if value, ok := storage.Get(DeadlineKey); ok {
		n.adoptDeadline(value)
	}
	index := 0
	if value, ok := storage.Get(SlideKey); ok {
		index, _ = ParseSlideName(value, d.Len())
	}
	n.show(index)
	n.refreshTimer()
	if def.TimeLimit > 0 {
		p.Every(time.Second, n.refreshTimer)
	}
	return n, nil
}

// Deck returns the off-screen deck the notes are read from
func (n *Notes) Deck() *Deck {
	return n.deck
}

// Timer returns the countdown
func (n *Notes) Timer() *Countdown {
	return n.timer
}

// Index returns the slide whose notes are shown
func (n *Notes) Index() int {
	return n.current
}

// ClockText returns the displayed timer text, empty without a time limit
func (n *Notes) ClockText() string {
	if n.clock == nil {
		return ""
	}
	return n.clock.Text()
}

// List returns the container holding the rendered notes
func (n *Notes) List() *ui.Element {
	return n.list
}

// Start starts the countdown and shares its deadline with the session
func (n *Notes) Start() {
	deadline := n.timer.Start()
	n.page.Storage().Set(DeadlineKey, deadline.Format(time.RFC3339Nano))
	n.refreshTimer()
}

// Reset stops the countdown for every view of the session
func (n *Notes) Reset() {
	n.timer.Reset()
	n.page.Storage().Set(DeadlineKey, "")
	n.refreshTimer()
}

func (n *Notes) adoptDeadline(value string) {
	if value == "" {
		n.timer.Reset()
		return
	}
	deadline, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		log.Printf("Ignoring malformed timer deadline %q: %v", value, err)
		return
	}
	n.timer.Resume(deadline)
}

func (n *Notes) refreshTimer() {
	if n.clock == nil {
		return
	}
	n.clock.SetText(n.timer.String())
	if n.timer.Remaining() < 0 {
		n.clock.Classes("overtime")
	} else {
		n.clock.RemoveClasses("overtime")
	}
	n.start.SetVisible(!n.timer.Running())
	n.reset.SetVisible(n.timer.Running())
}

func (n *Notes) show(index int) {
	n.current = index
	slide := n.deck.slides[index]
	n.title.SetText(fmt.Sprintf("Slide %d / %d", index+1, n.deck.Len()))
	n.list.Clear()
	n.page.Within(n.list, func() {
		for _, note := range slide.notes {
			n.page.Markdown(note.text).Classes("note")
		}
	})
}
