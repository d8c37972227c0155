package surface

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dmitrijs2005/letterpress/internal/editor"
)

// TextType marks components whose text is a structured content field.
const TextType = "text"

// Component is an element of a Document that carries an id.
type Component struct {
	doc *Document
	n   *html.Node
}

var _ editor.Component = (*Component)(nil)

func (c *Component) ID() string { return attr(c.n, "id") }

func (c *Component) Tag() string { return c.n.Data }

func (c *Component) Type() string { return attr(c.n, "data-type") }

// Text returns the visible text of the component.
func (c *Component) Text() string { return textContent(c.n) }

// ContentField is the plain text of a text component. A component holding
// child elements has no content field; its markup is the only truth.
func (c *Component) ContentField() (string, bool) {
	if c.Type() != TextType || hasElementChild(c.n) {
		return "", false
	}
	return textContent(c.n), true
}

// SetContentField replaces all children with a single text node. Only valid
// when ContentField reports a field.
func (c *Component) SetContentField(text string) {
	c.removeChildren()
	c.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (c *Component) InnerHTML() string {
	return renderChildren(c.n)
}

func (c *Component) SetComponents(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), c.n)
	if err != nil {
		return fmt.Errorf("parse component %q: %w", c.ID(), err)
	}
	c.removeChildren()
	for _, n := range nodes {
		c.n.AppendChild(n)
	}
	return nil
}

// SetAttribute sets an attribute of the component element.
func (c *Component) SetAttribute(key, val string) {
	setAttr(c.n, key, val)
}

func (c *Component) Attribute(key string) string {
	return attr(c.n, key)
}

func (c *Component) removeChildren() {
	for ch := c.n.FirstChild; ch != nil; {
		next := ch.NextSibling
		c.n.RemoveChild(ch)
		ch = next
	}
}
