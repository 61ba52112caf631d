package ui

import (
	"sort"
	"strings"
)

// Element is one node of a page's component tree
type Element struct {
	id       int
	tag      string
	text     string
	content  string // raw HTML fragment rendered before children
	classes  []string
	style    map[string]string
	props    map[string]string
	children []*Element
	parent   *Element
	hidden   bool
	page     *Page

	onClick  func()
	onChange func(value string)
}

// ID returns the element id, unique within its page
func (e *Element) ID() int {
	return e.id
}

// Tag returns the HTML tag name
func (e *Element) Tag() string {
	return e.tag
}

// Text returns the element's own text
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the element's own text
func (e *Element) SetText(text string) *Element {
	if e.text != text {
		e.text = text
		e.markDirty()
	}
	return e
}

// Content returns the raw HTML fragment of the element
func (e *Element) Content() string {
	return e.content
}

// SetContent replaces the raw HTML fragment of the element
func (e *Element) SetContent(content string) *Element {
	if e.content != content {
		e.content = content
		e.markDirty()
	}
	return e
}

// Classes appends CSS classes, accepting space separated lists
func (e *Element) Classes(classes ...string) *Element {
	changed := false
	for _, list := range classes {
		for _, class := range strings.Fields(list) {
			if !e.HasClass(class) {
				e.classes = append(e.classes, class)
				changed = true
			}
		}
	}
	if changed {
		e.markDirty()
	}
	return e
}

// RemoveClasses drops CSS classes
func (e *Element) RemoveClasses(classes ...string) *Element {
	drop := make(map[string]bool)
	for _, list := range classes {
		for _, class := range strings.Fields(list) {
			drop[class] = true
		}
	}
	kept := e.classes[:0]
	for _, class := range e.classes {
		if !drop[class] {
			kept = append(kept, class)
		}
	}
	if len(kept) != len(e.classes) {
		e.markDirty()
	}
	e.classes = kept
	return e
}

// HasClass reports whether class is set on the element
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Style sets one inline style declaration; an empty value removes it
func (e *Element) Style(property, value string) *Element {
	if e.style == nil {
		e.style = make(map[string]string)
	}
	if value == "" {
		delete(e.style, property)
	} else {
		e.style[property] = value
	}
	e.markDirty()
	return e
}

// Prop sets one HTML attribute
func (e *Element) Prop(name, value string) *Element {
	if e.props == nil {
		e.props = make(map[string]string)
	}
	e.props[name] = value
	e.markDirty()
	return e
}

// Visible reports whether the element is shown
func (e *Element) Visible() bool {
	return !e.hidden
}

// SetVisible shows or hides the element. Hidden elements are rendered with
// display:none so they take no space and cannot receive focus.
func (e *Element) SetVisible(visible bool) *Element {
	if e.hidden == visible {
		e.hidden = !visible
		e.markDirty()
	}
	return e
}

// Children returns the element's children in order
func (e *Element) Children() []*Element {
	return e.children
}

// Parent returns the containing element, nil for roots
func (e *Element) Parent() *Element {
	return e.parent
}

// Clear removes all children
func (e *Element) Clear() *Element {
	for _, child := range e.children {
		child.detach()
	}
	e.children = nil
	e.markDirty()
	return e
}

// OnClick registers the click handler
func (e *Element) OnClick(fn func()) *Element {
	e.onClick = fn
	return e
}

// OnChange registers the value-change handler
func (e *Element) OnChange(fn func(value string)) *Element {
	e.onChange = fn
	return e
}

func (e *Element) detach() {
	if e.page != nil {
		delete(e.page.elements, e.id)
		delete(e.page.dirty, e.id)
	}
	for _, child := range e.children {
		child.detach()
	}
	e.parent = nil
}

func (e *Element) markDirty() {
	if e.page != nil {
		e.page.markDirty(e)
	}
}

func (e *Element) sortedStyle() []string {
	keys := make([]string, 0, len(e.style))
	for k := range e.style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	decls := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		decls = append(decls, k+": "+e.style[k])
	}
	if e.hidden {
		decls = append(decls, "display: none")
	}
	return decls
}
