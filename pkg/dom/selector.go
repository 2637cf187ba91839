package dom

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// selectorCache holds compiled selectors keyed by source text.
var selectorCache sync.Map // map[string]cascadia.Selector

// compile returns the compiled selector for sel, or nil if sel is invalid.
func compile(sel string) cascadia.Selector {
	if cached, ok := selectorCache.Load(sel); ok {
		return cached.(cascadia.Selector)
	}
	compiled, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	selectorCache.Store(sel, compiled)
	return compiled
}

// Valid reports whether sel is a valid CSS selector.
func Valid(sel string) bool {
	return compile(sel) != nil
}

// Query returns the first descendant of n matching sel, or nil.
// n itself is not considered.
func Query(n *html.Node, sel string) *html.Node {
	s := compile(sel)
	if s == nil || n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := s.MatchFirst(c); found != nil {
			return found
		}
	}
	return nil
}

// QueryAll returns all descendants of n matching sel in document order.
// n itself is not considered.
func QueryAll(n *html.Node, sel string) []*html.Node {
	s := compile(sel)
	if s == nil || n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, s.MatchAll(c)...)
	}
	return out
}

// Matches reports whether element n matches sel.
func Matches(n *html.Node, sel string) bool {
	s := compile(sel)
	if s == nil || n == nil || n.Type != html.ElementNode {
		return false
	}
	return s.Match(n)
}

// Closest returns n or its nearest ancestor matching sel, or nil.
func Closest(n *html.Node, sel string) *html.Node {
	s := compile(sel)
	if s == nil {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && s.Match(cur) {
			return cur
		}
	}
	return nil
}
