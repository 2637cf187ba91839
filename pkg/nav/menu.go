package nav

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

// DefaultBreakpoint is the viewport width at which the menu is no longer
// collapsible.
const DefaultBreakpoint = 1024

// Menu is the collapsible navigation.
type Menu struct {
	doc        *dom.Document
	burger     *html.Node
	collapse   *html.Node
	throttle   *Throttle
	breakpoint int
	open       bool
}

// NewMenu binds the burger menu of doc. It returns nil when the page has
// no burger button or no collapsible panel.
func NewMenu(doc *dom.Document, throttle *Throttle, breakpoint int) *Menu {
	burger := doc.Query(BurgerSelector)
	collapse := doc.Query(CollapseSelector)
	if burger == nil || collapse == nil {
		return nil
	}
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return &Menu{
		doc:        doc,
		burger:     burger,
		collapse:   collapse,
		throttle:   throttle,
		breakpoint: breakpoint,
	}
}

// Burger returns the toggle button.
func (m *Menu) Burger() *html.Node {
	if m == nil {
		return nil
	}
	return m.burger
}

// IsOpen reports whether the menu is expanded.
func (m *Menu) IsOpen() bool {
	return m != nil && m.open
}

// Open expands the menu and locks page scrolling.
func (m *Menu) Open() {
	m.open = true
	dom.AddClass(m.collapse, "show", "is-open")
	dom.SetAttr(m.burger, "aria-expanded", "true")
	dom.AddClass(m.doc.Body(), "u-no-scroll")
}

// Close collapses the menu and unlocks page scrolling.
func (m *Menu) Close() {
	m.open = false
	dom.RemoveClass(m.collapse, "show", "is-open")
	dom.SetAttr(m.burger, "aria-expanded", "false")
	dom.RemoveClass(m.doc.Body(), "u-no-scroll")
}

// Toggle flips the menu state.
func (m *Menu) Toggle() {
	if m.open {
		m.Close()
	} else {
		m.Open()
	}
}

// HandleClick reacts to a click anywhere on the page. Burger clicks toggle
// the menu; clicks on a nav link or outside the menu close it.
func (m *Menu) HandleClick(target *html.Node) {
	if m == nil || target == nil {
		return
	}
	if dom.Contains(m.burger, target) {
		m.Toggle()
		return
	}
	if !m.open {
		return
	}
	if dom.Closest(target, LinkSelector) != nil || !dom.Contains(m.collapse, target) {
		m.Close()
	}
}

// HandleKey closes an open menu on Escape. It reports whether it did, in
// which case focus should return to the burger.
func (m *Menu) HandleKey(key string) bool {
	if m == nil || key != "Escape" || !m.open {
		return false
	}
	m.Close()
	return true
}

// HandleResize closes the menu once the viewport reaches the breakpoint.
func (m *Menu) HandleResize(width int) {
	if m == nil {
		return
	}
	if m.throttle != nil && !m.throttle.Allow() {
		return
	}
	if width >= m.breakpoint && m.open {
		m.Close()
	}
}
