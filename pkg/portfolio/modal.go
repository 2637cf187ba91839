package portfolio

import (
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/catalog"
	"github.com/vango-dev/sitekit/pkg/dom"
)

const (
	// ModalSelector finds the project modal.
	ModalSelector = "#projectModal"

	// ProjectLinkSelector finds the links that open the modal.
	ProjectLinkSelector = ".c-project-details"

	// DismissSelector finds the modal's close controls.
	DismissSelector = `[data-bs-dismiss="modal"]`

	titleSelector = "#projectModalLabel"
	bodySelector  = "#projectModalBody"
)

// Modal fills the project modal from a catalog.
type Modal struct {
	node    *html.Node
	catalog catalog.Catalog
	policy  *bluemonday.Policy
	current string
}

// NewModal binds the project modal in doc. It returns nil if the modal or
// the project links are missing.
func NewModal(doc *dom.Document, c catalog.Catalog) *Modal {
	node := doc.Query(ModalSelector)
	if node == nil || len(doc.QueryAll(ProjectLinkSelector)) == 0 {
		return nil
	}
	return &Modal{
		node:    node,
		catalog: c,
		policy:  bluemonday.UGCPolicy(),
	}
}

// Current returns the key of the project last shown.
func (m *Modal) Current() string {
	if m == nil {
		return ""
	}
	return m.current
}

// IsOpen reports whether the modal is displayed.
func (m *Modal) IsOpen() bool {
	return m != nil && dom.HasClass(m.node, "show")
}

// HandleClick opens the modal for a project link, or closes it on a
// dismiss control or backdrop click. It reports whether target was handled.
func (m *Modal) HandleClick(target *html.Node) bool {
	if m == nil || target == nil {
		return false
	}
	if link := dom.Closest(target, ProjectLinkSelector); link != nil {
		m.Show(dom.Data(link, "project"))
		return true
	}
	if m.IsOpen() && (target == m.node || (dom.Closest(target, DismissSelector) != nil && dom.Contains(m.node, target))) {
		m.Close()
		return true
	}
	return false
}

// Show fills the modal with the project registered under key and opens it.
// Unknown keys leave the content unchanged. It reports whether key was found.
func (m *Modal) Show(key string) bool {
	if m == nil {
		return false
	}
	p, ok := m.catalog.Lookup(key)
	if ok {
		m.current = key
		if title := dom.Query(m.node, titleSelector); title != nil {
			dom.SetText(title, p.Title)
		}
		if body := dom.Query(m.node, bodySelector); body != nil {
			_ = dom.SetInnerHTML(body, "<p>"+m.Sanitize(p.Description)+"</p>")
		}
	}
	m.open()
	return ok
}

// Sanitize strips unsafe markup from a project description.
func (m *Modal) Sanitize(description string) string {
	return m.policy.Sanitize(description)
}

// Close hides the modal.
func (m *Modal) Close() {
	if m == nil {
		return
	}
	dom.RemoveClass(m.node, "show")
	dom.SetStyle(m.node, "display", "none")
	dom.SetAttr(m.node, "aria-hidden", "true")
	dom.RemoveAttr(m.node, "aria-modal")
}

func (m *Modal) open() {
	dom.AddClass(m.node, "show")
	dom.SetStyle(m.node, "display", "block")
	dom.RemoveAttr(m.node, "aria-hidden")
	dom.SetAttr(m.node, "aria-modal", "true")
}
