package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed HTML tree and hands out stable element wrappers.
type Document struct {
	root     *html.Node
	elements map[*html.Node]*Element
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, errors.New("dom: reader is nil")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
	}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// HTML serialises the document back to markup, including any attribute
// mutations applied through element wrappers.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("dom: render document: %w", err)
	}
	return buf.String(), nil
}

// Forms returns every form element in document order.
func (d *Document) Forms() []*Element {
	return d.collect(func(n *html.Node) bool {
		return n.Data == "form"
	})
}

// Controls returns every input and textarea in the document, regardless of
// the form (if any) that contains it.
func (d *Document) Controls() []*Element {
	return d.collect(isControl)
}

// QueryAll returns every element with the given tag name in document order.
func (d *Document) QueryAll(tag string) []*Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	return d.collect(func(n *html.Node) bool {
		return n.Data == tag
	})
}

func (d *Document) collect(match func(*html.Node) bool) []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, d.element(n))
		}
	})
	return out
}

// element returns the stable wrapper for a node, creating it on first use.
func (d *Document) element(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func isControl(n *html.Node) bool {
	return n.Data == "input" || n.Data == "textarea"
}

// Element is a live wrapper around a single node in the document.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[EventKind][]Handler
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	for _, attr := range e.node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present, even when empty.
// Boolean attributes such as required are detected this way.
func (e *Element) HasAttr(name string) bool {
	for _, attr := range e.node.Attr {
		if attr.Key == name {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i, attr := range e.node.Attr {
		if attr.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes the named attribute when present.
func (e *Element) RemoveAttr(name string) {
	for i, attr := range e.node.Attr {
		if attr.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// Required reports whether the control carries the required attribute.
func (e *Element) Required() bool {
	return e.HasAttr("required")
}

// Name returns the control's name attribute.
func (e *Element) Name() string {
	return e.Attr("name")
}

// Value returns the control's current value: the value attribute for inputs,
// the text content for textareas.
func (e *Element) Value() string {
	if e.node.Data == "textarea" {
		var buf strings.Builder
		for child := e.node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				buf.WriteString(child.Data)
			}
		}
		return buf.String()
	}
	return e.Attr("value")
}

// SetValue replaces the control's value without firing events. Programmatic
// value changes (form reset and the like) do not notify input listeners.
func (e *Element) SetValue(value string) {
	if e.node.Data == "textarea" {
		for e.node.FirstChild != nil {
			e.node.RemoveChild(e.node.FirstChild)
		}
		if value != "" {
			e.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
		return
	}
	e.SetAttr("value", value)
}

// Input simulates a user edit: it sets the value and dispatches an input
// event to the control's listeners.
func (e *Element) Input(value string) {
	e.SetValue(value)
	e.Dispatch(EventInput)
}

// Controls returns the input and textarea elements nested under this element
// in document order.
func (e *Element) Controls() []*Element {
	var out []*Element
	walk(e.node, func(n *html.Node) {
		if n.Type == html.ElementNode && isControl(n) {
			out = append(out, e.doc.element(n))
		}
	})
	return out
}

// RequiredControls returns the subset of Controls carrying the required
// attribute.
func (e *Element) RequiredControls() []*Element {
	var out []*Element
	for _, control := range e.Controls() {
		if control.Required() {
			out = append(out, control)
		}
	}
	return out
}
