// Package domstub is a string-building stand-in for a real DOM, used by
// reconcile/htmlreconciler so the reconciler can be exercised and tested
// without a browser. It is adapted from the teacher's old/vdom/vdom.go
// ElementNode/TextNode render tree, stripped of the mutex (a domstub tree
// is only ever touched from the scheduler's single commit goroutine) and
// of the FindByID/PrintTree exploration methods the reconciler never uses.
package domstub

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	validTagName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)
	validAttrKey = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\-_]*$`)
)

// Node is anything that can render itself into the stub document.
type Node interface {
	Render(depth int) string
}

// Element is a tagged node with attributes and ordered children.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

// NewElement validates tag and returns an empty Element.
func NewElement(tag string) (*Element, error) {
	if !validTagName.MatchString(tag) {
		return nil, fmt.Errorf("domstub: invalid tag name %q", tag)
	}
	return &Element{Tag: tag, Attrs: make(map[string]string)}, nil
}

// SetAttr validates key and records it.
func (e *Element) SetAttr(key, value string) error {
	if !validAttrKey.MatchString(key) {
		return fmt.Errorf("domstub: invalid attribute key %q", key)
	}
	e.Attrs[key] = value
	return nil
}

// AppendChild appends child to the end of e's children. The reconciler
// that owns this tree does not track sibling insertion order precisely
// (see reconcile/htmlreconciler's package doc) so every placement lands
// at the end rather than at its exact logical index.
func (e *Element) AppendChild(child Node) {
	e.Children = append(e.Children, child)
}

// RemoveChild removes the first occurrence of child by identity.
func (e *Element) RemoveChild(child Node) {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return
		}
	}
}

// Render implements Node. Output mirrors old/vdom/vdom.go's indentation
// and self-closing-tag behavior.
func (e *Element) Render(depth int) string {
	indent := strings.Repeat("  ", depth)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s<%s", indent, html.EscapeString(e.Tag)))
	for key, value := range e.Attrs {
		sb.WriteString(fmt.Sprintf(" %s=%q", html.EscapeString(key), html.EscapeString(value)))
	}
	if len(e.Children) == 0 {
		sb.WriteString(" />\n")
		return sb.String()
	}
	sb.WriteString(">\n")
	for _, child := range e.Children {
		sb.WriteString(child.Render(depth + 1))
	}
	sb.WriteString(fmt.Sprintf("%s</%s>\n", indent, html.EscapeString(e.Tag)))
	return sb.String()
}

// Text is a leaf text node.
type Text struct {
	Content string
}

// NewText returns a Text node wrapping content.
func NewText(content string) *Text { return &Text{Content: content} }

// SetContent overwrites the text content in place, mirroring how an
// update effect rewrites a live text node's nodeValue.
func (t *Text) SetContent(content string) { t.Content = content }

func (t *Text) Render(depth int) string {
	return strings.Repeat("  ", depth) + html.EscapeString(t.Content) + "\n"
}
