package nav

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

// DefaultScrollOffset is used when the page has no header to measure.
const DefaultScrollOffset = 80

// ScrollRequest asks the browser to scroll a section into view, leaving
// Offset pixels above it.
type ScrollRequest struct {
	ID     string
	Offset int
}

// IsHomePath reports whether path is the site's home page.
func IsHomePath(path string) bool {
	return path == "" || path == "/" || path == "/index.html"
}

// ScrollTarget returns the section id an anchor href scrolls to when
// clicked on path. "#id" always scrolls; "/#id" scrolls only on the home
// page; "#" and "#!" never do.
func ScrollTarget(href, path string) (string, bool) {
	if href == "" || href == "#" || href == "#!" {
		return "", false
	}
	if strings.HasPrefix(href, "#") {
		return href[1:], true
	}
	if strings.HasPrefix(href, "/#") && IsHomePath(path) {
		return href[2:], true
	}
	return "", false
}

// Scroller resolves anchor clicks into scroll requests.
type Scroller struct {
	doc    *dom.Document
	offset int
}

// NewScroller creates a Scroller. fallbackOffset applies to pages without
// a header; zero means DefaultScrollOffset.
func NewScroller(doc *dom.Document, fallbackOffset int) *Scroller {
	if fallbackOffset <= 0 {
		fallbackOffset = DefaultScrollOffset
	}
	return &Scroller{doc: doc, offset: fallbackOffset}
}

// Resolve returns the scroll request for a click on target, which may be
// any node inside an anchor. headerHeight is the header's rendered height
// as measured by the browser.
func (s *Scroller) Resolve(target *html.Node, path string, headerHeight int) (ScrollRequest, bool) {
	a := dom.Closest(target, "a")
	if a == nil {
		return ScrollRequest{}, false
	}
	id, ok := ScrollTarget(dom.GetAttr(a, "href"), path)
	if !ok || s.doc.ByID(id) == nil {
		return ScrollRequest{}, false
	}
	offset := s.offset
	if s.doc.Query(HeaderSelector) != nil {
		offset = headerHeight
	}
	return ScrollRequest{ID: id, Offset: offset}, true
}
