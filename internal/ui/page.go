package ui

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"slidedeck/internal/models"
)

// ErrPageClosed is returned by Run once a page has been closed
var ErrPageClosed = errors.New("page closed")

// KeyEvent describes a key press in the browser
type KeyEvent struct {
	Key    string
	Action string
	Repeat bool
}

// Keydown reports whether the event is a key-down
func (k KeyEvent) Keydown() bool {
	return k.Action == models.KeyDown
}

type interval struct {
	every time.Duration
	fn    func()
}

// Page is the component tree and event loop of one browser connection.
// Construction happens on a single goroutine before Run; afterwards every
// mutation runs as a task on the Run loop.
type Page struct {
	ID        string
	SessionID string
	Title     string
	Role      string

	root     *Element
	stack    []*Element
	elements map[int]*Element
	nextID   int
	store    Store
	head     []string

	keyHandlers []func(KeyEvent)
	intervals   []interval
	cleanups    []func()
	dirty       map[int]*Element
	outbox      []models.ServerMessage

	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	closed bool
}

// NewPage creates an empty page for the given session
func NewPage(id, sessionID string, store Store) *Page {
	p := &Page{
		ID:        id,
		SessionID: sessionID,
		elements:  make(map[int]*Element),
		dirty:     make(map[int]*Element),
		store:     store,
		wake:      make(chan struct{}, 1),
	}
	p.root = p.newElement("div")
	p.root.classes = []string{"page"}
	p.stack = []*Element{p.root}
	return p
}

// Root returns the page's root element
func (p *Page) Root() *Element {
	return p.root
}

// Storage returns the session storage of the page
func (p *Page) Storage() SessionStorage {
	return SessionStorage{page: p}
}

// AddHead appends raw HTML to the document head
func (p *Page) AddHead(html string) {
	p.head = append(p.head, html)
}

// Head returns the raw HTML added to the document head
func (p *Page) Head() []string {
	return p.head
}

// Lookup returns the element with the given id
func (p *Page) Lookup(id int) (*Element, bool) {
	e, ok := p.elements[id]
	return e, ok
}

func (p *Page) newElement(tag string) *Element {
	p.nextID++
	e := &Element{id: p.nextID, tag: tag, page: p}
	p.elements[e.id] = e
	return e
}

// Current returns the container new elements are added to
func (p *Page) Current() *Element {
	return p.stack[len(p.stack)-1]
}

// Add creates an element with the given tag inside the current container
func (p *Page) Add(tag string) *Element {
	e := p.newElement(tag)
	parent := p.Current()
	e.parent = parent
	parent.children = append(parent.children, e)
	parent.markDirty()
	return e
}

// Within makes e the current container while fn runs. The previous
// container is restored even if fn panics.
func (p *Page) Within(e *Element, fn func()) *Element {
	if fn == nil {
		return e
	}
	p.stack = append(p.stack, e)
	defer func() {
		p.stack = p.stack[:len(p.stack)-1]
	}()
	fn()
	return e
}

// within runs an element's handler with the element's parent as current
// container, so elements created by the handler appear next to it
func (p *Page) within(parent *Element, fn func()) {
	if parent == nil {
		fn()
		return
	}
	p.Within(parent, fn)
}

// Detached builds a subtree that is not attached to the page root and is
// therefore never rendered
func (p *Page) Detached(fn func()) *Element {
	e := p.newElement("div")
	return p.Within(e, fn)
}

// OnKey registers a keyboard handler
func (p *Page) OnKey(fn func(KeyEvent)) {
	p.keyHandlers = append(p.keyHandlers, fn)
}

// Every calls fn on the event loop at a fixed cadence while the page runs
func (p *Page) Every(d time.Duration, fn func()) {
	p.intervals = append(p.intervals, interval{every: d, fn: fn})
}

// OnClose registers fn to run when the page closes
func (p *Page) OnClose(fn func()) {
	p.cleanups = append(p.cleanups, fn)
}

// Send queues a message to the browser
func (p *Page) Send(msg models.ServerMessage) {
	p.Post(func() {
		p.outbox = append(p.outbox, msg)
	})
}

// Post queues fn to run on the page's event loop. It never blocks.
func (p *Page) Post(fn func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.tasks = append(p.tasks, fn)
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Dispatch queues a browser event for the event loop
func (p *Page) Dispatch(ev models.ClientEvent) {
	p.Post(func() { p.Handle(ev) })
}

// Handle processes ev on the calling goroutine, which must own the page
func (p *Page) Handle(ev models.ClientEvent) {
	switch ev.Type {
	case models.EventKey:
		key := KeyEvent{Key: ev.Key, Action: ev.Action, Repeat: ev.Repeat}
		for _, fn := range p.keyHandlers {
			fn(key)
		}
	case models.EventClick:
		if e, ok := p.elements[ev.Target]; ok && e.onClick != nil {
			p.within(e.parent, e.onClick)
		}
	case models.EventChange:
		if e, ok := p.elements[ev.Target]; ok && e.onChange != nil {
			p.within(e.parent, func() { e.onChange(ev.Value) })
		}
	default:
		log.Printf("Page %s: unknown event type %q", p.ID, ev.Type)
	}
}

// RunPending runs queued tasks on the calling goroutine, which must own the
// page, and returns the messages they produced
func (p *Page) RunPending() []models.ServerMessage {
	for {
		tasks := p.drain()
		if len(tasks) == 0 {
			break
		}
		for _, task := range tasks {
			p.runTask(task)
		}
	}
	msgs := p.outbox
	p.outbox = nil
	if updates := p.Flush(); len(updates) > 0 {
		msgs = append(msgs, models.ServerMessage{Type: models.MessageUpdate, Updates: updates})
	}
	return msgs
}

// Run drives the page until ctx ends or send fails. Every message is
// delivered through send from this goroutine only.
func (p *Page) Run(ctx context.Context, send func(models.ServerMessage) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer p.Close()

	for _, iv := range p.intervals {
		go p.tick(ctx, iv)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.wake:
		}
		if p.isClosed() {
			return ErrPageClosed
		}
		for _, msg := range p.RunPending() {
			if err := send(msg); err != nil {
				return err
			}
		}
	}
}

func (p *Page) tick(ctx context.Context, iv interval) {
	ticker := time.NewTicker(iv.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Post(iv.fn)
		}
	}
}

func (p *Page) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Page %s: task panicked: %v", p.ID, r)
		}
	}()
	task()
}

func (p *Page) drain() []func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	tasks := p.tasks
	p.tasks = nil
	return tasks
}

func (p *Page) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close stops the page and runs its cleanups once
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.tasks = nil
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	for _, fn := range p.cleanups {
		fn()
	}
}

func (p *Page) markDirty(e *Element) {
	p.dirty[e.id] = e
}

// Flush returns the re-rendered HTML of every element changed since the
// last flush. Elements inside a changed ancestor are covered by it.
func (p *Page) Flush() []models.ElementUpdate {
	if len(p.dirty) == 0 {
		return nil
	}
	ids := make([]int, 0, len(p.dirty))
	for id, e := range p.dirty {
		if p.attached(e) && !p.ancestorDirty(e) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	updates := make([]models.ElementUpdate, 0, len(ids))
	for _, id := range ids {
		html, err := RenderHTML(p.dirty[id])
		if err != nil {
			log.Printf("Page %s: %v", p.ID, err)
			continue
		}
		updates = append(updates, models.ElementUpdate{ID: id, HTML: html})
	}
	p.dirty = make(map[int]*Element)
	return updates
}

func (p *Page) attached(e *Element) bool {
	for ; e != nil; e = e.parent {
		if e == p.root {
			return true
		}
	}
	return false
}

func (p *Page) ancestorDirty(e *Element) bool {
	for a := e.parent; a != nil; a = a.parent {
		if _, ok := p.dirty[a.id]; ok {
			return true
		}
	}
	return false
}

// Render renders the page root and resets pending changes
func (p *Page) Render() (string, error) {
	p.dirty = make(map[int]*Element)
	return RenderHTML(p.root)
}
