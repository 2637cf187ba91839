package portfolio

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

const (
	// FilterButtonSelector finds the category buttons.
	FilterButtonSelector = ".c-filter-btn"

	// ProjectSelector finds the filterable items.
	ProjectSelector = "[data-category]"

	// FilterAll shows every project.
	FilterAll = "all"
)

var activeClasses = []string{"is-active", "active"}

// Filter shows and hides projects by category.
type Filter struct {
	buttons  []*html.Node
	projects []*html.Node
	current  string
}

// NewFilter binds the filter buttons in doc. It returns nil if there are none.
func NewFilter(doc *dom.Document) *Filter {
	buttons := doc.QueryAll(FilterButtonSelector)
	if len(buttons) == 0 {
		return nil
	}
	return &Filter{
		buttons:  buttons,
		projects: doc.QueryAll(ProjectSelector),
		current:  FilterAll,
	}
}

// Current returns the last applied category.
func (f *Filter) Current() string {
	if f == nil {
		return ""
	}
	return f.current
}

// HandleClick applies the filter of the button containing target. It
// reports whether target was a filter button.
func (f *Filter) HandleClick(target *html.Node) bool {
	if f == nil {
		return false
	}
	btn := dom.Closest(target, FilterButtonSelector)
	if btn == nil || !containsNode(f.buttons, btn) {
		return false
	}
	for _, b := range f.buttons {
		dom.RemoveClass(b, activeClasses...)
	}
	dom.AddClass(btn, activeClasses...)
	f.Apply(dom.Data(btn, "filter"))
	return true
}

// Apply shows the projects in category and hides the rest, together with
// their parent elements.
func (f *Filter) Apply(category string) {
	if f == nil {
		return
	}
	f.current = category
	for _, p := range f.projects {
		display := ""
		if category != FilterAll && dom.Data(p, "category") != category {
			display = "none"
		}
		dom.SetStyle(p, "display", display)
		if p.Parent != nil && p.Parent.Type == html.ElementNode {
			dom.SetStyle(p.Parent, "display", display)
		}
	}
}

func containsNode(list []*html.Node, n *html.Node) bool {
	for _, x := range list {
		if x == n {
			return true
		}
	}
	return false
}
