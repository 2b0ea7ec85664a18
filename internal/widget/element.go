package widget

import (
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pickup-calendar/internal/models"
)

// Element is a node of a rendered view.
type Element struct {
	Tag      string            `json:"tag"`
	Class    []string          `json:"class,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Slot     *models.SlotKey   `json:"slot,omitempty"`
	Children []*Element        `json:"children,omitempty"`
}

func el(tag string, class ...string) *Element {
	return &Element{Tag: tag, Class: class}
}

func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

func (e *Element) Set(key, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
	return e
}

func (e *Element) Attr(key string) string {
	return e.Attrs[key]
}

func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Class, class)
}

func (e *Element) AddClass(class string) {
	if !e.HasClass(class) {
		e.Class = append(e.Class, class)
	}
}

// Walk visits e and its descendants depth first, passing each node's parent.
// Returning false stops the descent below that node.
func (e *Element) Walk(fn func(node, parent *Element) bool) {
	e.walk(nil, fn)
}

func (e *Element) walk(parent *Element, fn func(node, parent *Element) bool) {
	if !fn(e, parent) {
		return
	}
	for _, child := range e.Children {
		child.walk(e, fn)
	}
}

// Find returns all nodes carrying class.
func (e *Element) Find(class string) []*Element {
	var found []*Element
	e.Walk(func(node, _ *Element) bool {
		if node.HasClass(class) {
			found = append(found, node)
		}
		return true
	})
	return found
}

func (e *Element) ByID(id string) *Element {
	var found *Element
	e.Walk(func(node, _ *Element) bool {
		if found != nil {
			return false
		}
		if node.Attr("id") == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// insertAfter places sibling directly after child among e's children.
func (e *Element) insertAfter(child, sibling *Element) {
	for i, c := range e.Children {
		if c == child {
			e.Children = slices.Insert(e.Children, i+1, sibling)
			return
		}
	}
	e.Children = append(e.Children, sibling)
}

func (e *Element) Node() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
	}

	if len(e.Class) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(e.Class, " ")})
	}

	for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: e.Attrs[k]})
	}

	if e.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	for _, child := range e.Children {
		n.AppendChild(child.Node())
	}

	return n
}

// RenderHTML writes the elements as HTML fragments.
func RenderHTML(w io.Writer, elements ...*Element) error {
	for _, e := range elements {
		if err := html.Render(w, e.Node()); err != nil {
			return err
		}
	}
	return nil
}
