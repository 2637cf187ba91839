// Package nav implements the navigation behaviors of the site header:
// the collapsible burger menu, smooth anchor scrolling, the active-link
// marker, scroll-spy highlighting and the scrolled header style.
//
// Scroll and resize reactions are rate limited by a Throttle. Layout
// values (viewport width, scroll offset, header height) come from the
// browser with each event; the server only decides what to change.
//
// Constructors return nil when the page lacks the markup. The methods of
// Menu, Header and Spy are safe to call on a nil receiver.
package nav

// Selectors for the navigation markup.
const (
	HeaderSelector   = ".l-header"
	BurgerSelector   = ".navbar-toggler, .c-nav__toggle"
	CollapseSelector = ".navbar-collapse"
	LinkSelector     = ".nav-link, .c-nav__item"
)
