package nav

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

// ScrolledThreshold is the scroll offset past which the header is styled
// as scrolled.
const ScrolledThreshold = 50

// Header toggles the is-scrolled class on the site header.
type Header struct {
	node     *html.Node
	throttle *Throttle
	scrolled bool
}

// NewHeader returns nil when the page has no header.
func NewHeader(doc *dom.Document, throttle *Throttle) *Header {
	node := doc.Query(HeaderSelector)
	if node == nil {
		return nil
	}
	return &Header{node: node, throttle: throttle}
}

// Scrolled reports the current header state.
func (h *Header) Scrolled() bool {
	return h != nil && h.scrolled
}

// HandleScroll updates the header for a page offset of pageY. It reports
// whether the state changed.
func (h *Header) HandleScroll(pageY int) bool {
	if h == nil {
		return false
	}
	if h.throttle != nil && !h.throttle.Allow() {
		return false
	}
	scrolled := pageY > ScrolledThreshold
	if scrolled == h.scrolled {
		return false
	}
	h.scrolled = scrolled
	dom.ToggleClass(h.node, "is-scrolled", scrolled)
	return true
}
