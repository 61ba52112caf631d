package deck

import (
	"fmt"
	"math"

	"slidedeck/internal/ui"
)

// Unbounded is the upper bound of a gate without an explicit maximum
const Unbounded = math.MaxInt

// Gate shows its content only while the owning slide's step lies within
// [Min, Max]
type Gate struct {
	slide   *Slide
	min     int
	max     int
	element *ui.Element
}

// StepOption configures the bounds of a step gate
type StepOption func(*bounds)

type bounds struct {
	min, max       int
	hasMin, hasMax bool
}

// Min sets the first step at which the gate is visible. A gate pinned to
// Min(0) is always counted as visible from the start and does not add a
// reveal step to the slide.
func Min(step int) StepOption {
	return func(b *bounds) {
		b.min, b.hasMin = step, true
	}
}

// Max sets the last step at which the gate is visible
func Max(step int) StepOption {
	return func(b *bounds) {
		b.max, b.hasMax = step, true
	}
}

// Step registers a reveal gate in the slide under construction and builds
// fn inside it. Without options the gate opens at the slide's next step and
// stays open. Step panics outside a slide.
func (d *Deck) Step(fn func(), opts ...StepOption) *Gate {
	s := d.building
	if s == nil {
		panic(fmt.Errorf("Step(): %w", ErrOutsideSlide))
	}

	var b bounds
	for _, opt := range opts {
		opt(&b)
	}
	if b.hasMin && b.min < 0 {
		panic(fmt.Errorf("Step(): %w: min %d", ErrInvalidBounds, b.min))
	}
	if !(b.hasMin && b.min == 0) {
		s.steps++
	}
	if !b.hasMin {
		b.min = s.steps - 1
	}
	if !b.hasMax {
		b.max = Unbounded
	}
	if b.max < b.min {
		panic(fmt.Errorf("Step(): %w: max %d below min %d", ErrInvalidBounds, b.max, b.min))
	}

	g := &Gate{
		slide:   s,
		min:     b.min,
		max:     b.max,
		element: d.page.Add("div").Classes("step"),
	}
	s.gates = append(s.gates, g)
	g.update()
	d.page.Within(g.element, fn)
	return g
}

// Min returns the first step at which the gate is visible
func (g *Gate) Min() int {
	return g.min
}

// Max returns the last step at which the gate is visible
func (g *Gate) Max() int {
	return g.max
}

// Element returns the gate's container
func (g *Gate) Element() *ui.Element {
	return g.element
}

// Open reports whether step lies within the gate's bounds
func (g *Gate) Open(step int) bool {
	return g.min <= step && step <= g.max
}

// Visible reports whether the gate is shown at the slide's current step
func (g *Gate) Visible() bool {
	return g.element.Visible()
}

func (g *Gate) update() {
	g.element.SetVisible(g.Open(g.slide.step))
}
