package dom

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/internal/errors"
)

// HIDAttr is the attribute carrying an element's hydration ID.
const HIDAttr = "data-hid"

// Document is a parsed HTML page.
type Document struct {
	root    *html.Node
	nextHID int
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}
	d := &Document{root: root}
	d.AssignHIDs()
	return d, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// MustParse parses s and panics on error. Intended for tests and fixtures.
func MustParse(s string) *Document {
	d, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	return d.Query("body")
}

// Query returns the first element matching sel, or nil.
func (d *Document) Query(sel string) *html.Node {
	return Query(d.root, sel)
}

// QueryAll returns all elements matching sel in document order.
func (d *Document) QueryAll(sel string) []*html.Node {
	return QueryAll(d.root, sel)
}

// ByID returns the element with the given id attribute, or nil.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return d.find(func(n *html.Node) bool { return GetAttr(n, "id") == id })
}

// ByHID returns the element with the given hydration ID, or nil.
func (d *Document) ByHID(hid string) *html.Node {
	if hid == "" {
		return nil
	}
	return d.find(func(n *html.Node) bool { return GetAttr(n, HIDAttr) == hid })
}

func (d *Document) find(match func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(d.root)
	return found
}

// AssignHIDs gives every element without a hydration ID a fresh one.
// IDs are never reused within a document.
func (d *Document) AssignHIDs() {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && !HasAttr(n, HIDAttr) {
			d.nextHID++
			SetAttr(n, HIDAttr, "h"+strconv.Itoa(d.nextHID))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// HID returns the hydration ID of n.
func HID(n *html.Node) string {
	return GetAttr(n, HIDAttr)
}

// Render writes the full document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the full document.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// BodyHTML renders the children of <body>.
func (d *Document) BodyHTML() string {
	return InnerHTML(d.Body())
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML renders n itself.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// SetInnerHTML replaces the children of element n with the parsed fragment.
func SetInnerHTML(n *html.Node, fragment string) error {
	if n == nil {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), n)
	if err != nil {
		return errors.New("E301").Wrap(err)
	}
	RemoveChildren(n)
	AppendChildren(n, nodes)
	return nil
}
