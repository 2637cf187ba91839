package nav

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

// MarkActive flags the nav link pointing at path with aria-current="page"
// and the active class, and unflags the others. "/" and "index.html" are
// treated as the same page.
func MarkActive(doc *dom.Document, path string) {
	for _, link := range doc.QueryAll(LinkSelector) {
		href := dom.GetAttr(link, "href")
		current := href == path ||
			(path == "/" && href == "index.html") ||
			(path == "/index.html" && href == "/")
		if current {
			dom.SetAttr(link, "aria-current", "page")
			dom.AddClass(link, "active")
		} else {
			dom.RemoveAttr(link, "aria-current")
			dom.RemoveClass(link, "active")
		}
	}
}

// Spy highlights the nav link of the section currently in view.
type Spy struct {
	doc   *dom.Document
	links []*html.Node
}

// NewSpy returns nil when the page has no identified sections or no links.
func NewSpy(doc *dom.Document) *Spy {
	links := doc.QueryAll(LinkSelector)
	if len(links) == 0 || len(doc.QueryAll("[id]")) == 0 {
		return nil
	}
	return &Spy{doc: doc, links: links}
}

// Sections returns the ids the browser should observe.
func (s *Spy) Sections() []string {
	if s == nil {
		return nil
	}
	var ids []string
	for _, n := range s.doc.QueryAll("[id]") {
		ids = append(ids, dom.GetAttr(n, "id"))
	}
	return ids
}

// Visible marks links to section id active and clears the rest.
// Unknown ids are ignored.
func (s *Spy) Visible(id string) {
	if s == nil || id == "" || s.doc.ByID(id) == nil {
		return
	}
	for _, link := range s.links {
		href := dom.GetAttr(link, "href")
		dom.ToggleClass(link, "active", href == "#"+id || href == "/#"+id)
	}
}
