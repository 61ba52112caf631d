package ui

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOMID returns the id attribute used for element id in the browser
func DOMID(id int) string {
	return "e" + strconv.Itoa(id)
}

// RenderHTML renders the outer HTML of e and its subtree
func RenderHTML(e *Element) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node()); err != nil {
		return "", fmt.Errorf("failed to render element %d: %w", e.id, err)
	}
	return buf.String(), nil
}

func (e *Element) node() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: DOMID(e.id)})
	if len(e.classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(e.classes, " ")})
	}
	if decls := e.sortedStyle(); len(decls) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: strings.Join(decls, "; ")})
	}
	names := make([]string, 0, len(e.props))
	for name := range e.props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n.Attr = append(n.Attr, html.Attribute{Key: name, Val: e.props[name]})
	}
	if e.onClick != nil {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-click", Val: "1"})
	}
	if e.onChange != nil {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-change", Val: "1"})
	}
	if e.hidden {
		n.Attr = append(n.Attr, html.Attribute{Key: "aria-hidden", Val: "true"})
		n.Attr = append(n.Attr, html.Attribute{Key: "inert", Val: ""})
	}

	if isVoid(n.DataAtom) {
		return n
	}
	if e.text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.text})
	}
	if e.content != "" {
		for _, c := range parseFragment(e.content) {
			n.AppendChild(c)
		}
	}
	for _, child := range e.children {
		n.AppendChild(child.node())
	}
	return n
}

func parseFragment(content string) []*html.Node {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return []*html.Node{{Type: html.TextNode, Data: content}}
	}
	return nodes
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Img, atom.Br, atom.Hr, atom.Input, atom.Meta, atom.Link:
		return true
	}
	return false
}
