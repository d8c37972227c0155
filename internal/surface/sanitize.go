package surface

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// templatePolicy keeps user-generated markup plus the attributes the editor
// relies on: ids, classes, inline styles and data-* attributes.
func templatePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataAttributes()
	p.AllowAttrs("id", "class", "style", "align", "width", "height", "bgcolor").Globally()
	p.AllowElements("section", "header", "footer", "center", "font")
	return p
}

var policy = templatePolicy()

// Sanitize cleans an HTML page received from the server. Style elements are
// kept verbatim, the body goes through the sanitizer, and scripts are gone.
// The result is a fragment that LoadHTML accepts.
func Sanitize(page string) (string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range collect(root, func(n *html.Node) bool { return isElement(n, atom.Style) }) {
		if n.FirstChild != nil {
			b.WriteString("<style>")
			b.WriteString(n.FirstChild.Data)
			b.WriteString("</style>")
		}
		n.Parent.RemoveChild(n)
	}

	body := findElement(root, atom.Body)
	if body != nil {
		b.WriteString(policy.Sanitize(renderChildren(body)))
	}
	return b.String(), nil
}
