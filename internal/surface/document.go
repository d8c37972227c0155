// Package surface is a headless rendering surface: an HTML document parsed
// with golang.org/x/net/html that the editor can select in and splice into.
//
// Every element carrying an id attribute is a component. Components with
// data-type="text" also expose their text as a structured content field.
package surface

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/editor"
)

// ProjectData is the serialized form of a document as stored by the API.
type ProjectData struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Document is not safe for concurrent use.
type Document struct {
	root *html.Node
	body *html.Node
	css  string
	sel  *selection
}

type selection struct {
	anchor editor.Anchor
	text   string
	owner  *Component
}

var _ editor.Surface = (*Document)(nil)

// New returns an empty document.
func New() *Document {
	d := &Document{}
	_ = d.LoadHTML("")
	return d
}

// Load renders state. Project data wins over HTML when both are set.
func (d *Document) Load(state models.DocumentState) error {
	if len(state.ProjectData) > 0 {
		return d.LoadProjectData(state.ProjectData)
	}
	return d.LoadHTML(state.HTML)
}

// LoadHTML parses a full page or a fragment. Style elements are lifted out
// into the document CSS; the body becomes the content.
func (d *Document) LoadHTML(src string) error {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	body := findElement(root, atom.Body)
	if body == nil {
		return fmt.Errorf("parse html: no body element")
	}

	var css []string
	for _, n := range collect(root, func(n *html.Node) bool { return isElement(n, atom.Style) }) {
		if n.FirstChild != nil {
			css = append(css, strings.TrimSpace(n.FirstChild.Data))
		}
		n.Parent.RemoveChild(n)
	}

	d.root, d.body, d.css, d.sel = root, body, strings.Join(css, "\n"), nil
	return nil
}

// LoadProjectData loads the {"html","css"} form.
func (d *Document) LoadProjectData(data []byte) error {
	var pd ProjectData
	if err := json.Unmarshal(data, &pd); err != nil {
		return fmt.Errorf("decode project data: %w", err)
	}
	if err := d.LoadHTML(pd.HTML); err != nil {
		return err
	}
	if pd.CSS != "" {
		d.css = strings.TrimSpace(strings.Join([]string{d.css, pd.CSS}, "\n"))
	}
	return nil
}

// HTML returns the inner markup of the body.
func (d *Document) HTML() string {
	return renderChildren(d.body)
}

func (d *Document) CSS() string {
	return d.css
}

// ProjectData serializes the document for saving.
func (d *Document) ProjectData() (json.RawMessage, error) {
	b, err := json.Marshal(ProjectData{HTML: d.HTML(), CSS: d.CSS()})
	if err != nil {
		return nil, fmt.Errorf("encode project data: %w", err)
	}
	return b, nil
}

// FullHTML renders a standalone page.
func (d *Document) FullHTML() string {
	return FullPage(d.HTML(), d.CSS())
}

// FullPage wraps body markup and css into a standalone page.
func FullPage(body, css string) string {
	return "<!DOCTYPE html><html><head><style>" + css + "</style></head><body>" + body + "</body></html>"
}

// Component returns the component with the given id.
func (d *Document) Component(id string) (*Component, error) {
	var found *html.Node
	walk(d.body, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("component %q: %w", id, common.ErrNotFound)
	}
	return &Component{doc: d, n: found}, nil
}

// Components lists every component in document order.
func (d *Document) Components() []*Component {
	var out []*Component
	for _, n := range collect(d.body, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") != ""
	}) {
		out = append(out, &Component{doc: d, n: n})
	}
	return out
}

// SelectText selects the first occurrence of needle in the text of the
// component id. The range may span several text nodes.
func (d *Document) SelectText(id, needle string) error {
	c, err := d.Component(id)
	if err != nil {
		return err
	}
	if needle == "" {
		d.sel = nil
		return nil
	}

	nodes := textNodes(c.n)
	var buf strings.Builder
	for _, n := range nodes {
		buf.WriteString(n.Data)
	}
	start := strings.Index(buf.String(), needle)
	if start < 0 {
		return fmt.Errorf("text %q in component %q: %w", needle, id, common.ErrNotFound)
	}
	end := start + len(needle)

	var a editor.Anchor
	pos := 0
	for _, n := range nodes {
		next := pos + len(n.Data)
		if a.Start.Node == nil && start < next {
			a.Start = editor.Boundary{Node: n, Offset: start - pos}
		}
		if a.Start.Node != nil && end <= next {
			a.End = editor.Boundary{Node: n, Offset: end - pos}
			break
		}
		pos = next
	}

	d.sel = &selection{anchor: a, text: needle, owner: c}
	return nil
}

// ClearSelection drops the current selection.
func (d *Document) ClearSelection() {
	d.sel = nil
}

// Selection implements editor.Surface. A selection whose nodes have been
// removed from the document no longer exists.
func (d *Document) Selection() (editor.Selection, bool) {
	if d.sel == nil {
		return editor.Selection{}, false
	}
	for _, b := range []editor.Boundary{d.sel.anchor.Start, d.sel.anchor.End} {
		n, ok := b.Node.(*html.Node)
		if !ok || !d.attached(n) {
			return editor.Selection{}, false
		}
	}
	return editor.Selection{Anchor: d.sel.anchor, Text: d.sel.text, Owner: d.sel.owner}, true
}

// ReplaceRange implements editor.Surface. Nodes fully inside the range are
// removed, the boundary text nodes are cut, and text is inserted as a new
// text node at the start boundary.
func (d *Document) ReplaceRange(a editor.Anchor, text string) error {
	start, err := d.boundary(a.Start)
	if err != nil {
		return err
	}
	end, err := d.boundary(a.End)
	if err != nil {
		return err
	}

	var doomed []*html.Node
	if start == end {
		if a.Start.Offset > a.End.Offset {
			return fmt.Errorf("range ends before it starts")
		}
	} else {
		var ok bool
		if doomed, ok = between(start, end); !ok {
			return fmt.Errorf("range ends before it starts")
		}
	}

	inserted := &html.Node{Type: html.TextNode, Data: text}
	if start == end {
		tail := start.Data[a.End.Offset:]
		start.Data = start.Data[:a.Start.Offset]
		start.Parent.InsertBefore(inserted, start.NextSibling)
		if tail != "" {
			start.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: tail}, inserted.NextSibling)
		}
	} else {
		for _, n := range doomed {
			n.Parent.RemoveChild(n)
		}
		start.Data = start.Data[:a.Start.Offset]
		end.Data = end.Data[a.End.Offset:]
		start.Parent.InsertBefore(inserted, start.NextSibling)
	}

	d.sel = nil
	return nil
}

func (d *Document) boundary(b editor.Boundary) (*html.Node, error) {
	n, ok := b.Node.(*html.Node)
	if !ok || n == nil || !d.attached(n) {
		return nil, editor.ErrDetached
	}
	if n.Type != html.TextNode || b.Offset < 0 || b.Offset > len(n.Data) {
		return nil, fmt.Errorf("invalid range boundary at offset %d", b.Offset)
	}
	return n, nil
}

func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// between returns the nodes strictly after start and before end in document
// order that do not contain end. ok is false when end does not follow start.
func between(start, end *html.Node) ([]*html.Node, bool) {
	var out []*html.Node
	n := nextSkippingChildren(start)
	for n != nil {
		if n == end {
			return out, true
		}
		if contains(n, end) {
			n = n.FirstChild
			continue
		}
		out = append(out, n)
		n = nextSkippingChildren(n)
	}
	return nil, false
}

func nextSkippingChildren(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.NextSibling != nil {
			return p.NextSibling
		}
	}
	return nil
}

func contains(ancestor, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func renderChildren(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}
