package sitetest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/clock"
	"github.com/vango-dev/sitekit/pkg/dom"
	"github.com/vango-dev/sitekit/pkg/page"
)

// Epoch is the start time of every harness clock.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Harness drives one page in tests.
type Harness struct {
	t     *testing.T
	Clock *clock.Manual
	Page  *page.Page

	mu     sync.Mutex
	pushed []page.Command
}

// New loads src into a page. opts are applied after the harness sink, so a
// test may replace it.
func New(t *testing.T, src string, opts ...page.Option) *Harness {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	h := &Harness{t: t, Clock: clock.NewManual(Epoch)}
	all := append([]page.Option{page.WithSink(h.record)}, opts...)
	h.Page = page.New(doc, h.Clock, all...)
	t.Cleanup(h.Page.Close)
	return h
}

func (h *Harness) record(cmds []page.Command) {
	h.mu.Lock()
	h.pushed = append(h.pushed, cmds...)
	h.mu.Unlock()
}

// Pushed returns and clears the commands pushed by timer callbacks.
func (h *Harness) Pushed() []page.Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pushed
	h.pushed = nil
	return out
}

// Advance moves the clock forward by d, running due callbacks.
func (h *Harness) Advance(d time.Duration) {
	h.Clock.Advance(d)
}

// Node returns the first element matching sel, failing the test if absent.
func (h *Harness) Node(sel string) *html.Node {
	h.t.Helper()
	n := h.Page.Document().Query(sel)
	if n == nil {
		h.t.Fatalf("no element matches %q", sel)
	}
	return n
}

// Dispatch sends ev, failing the test on error.
func (h *Harness) Dispatch(ev page.Event) []page.Command {
	h.t.Helper()
	cmds, err := h.Page.Dispatch(context.Background(), ev)
	if err != nil {
		h.t.Fatalf("dispatch %s: %v", ev.Type, err)
	}
	return cmds
}

func (h *Harness) on(sel string, ev page.Event) []page.Command {
	h.t.Helper()
	ev.HID = dom.HID(h.Node(sel))
	return h.Dispatch(ev)
}

// Click clicks the element matching sel.
func (h *Harness) Click(sel string) []page.Command {
	h.t.Helper()
	return h.on(sel, page.Event{Type: page.EventClick})
}

// ClickWithHeader clicks sel reporting a rendered header height.
func (h *Harness) ClickWithHeader(sel string, headerHeight int) []page.Command {
	h.t.Helper()
	return h.on(sel, page.Event{Type: page.EventClick, HeaderHeight: headerHeight})
}

// Input types value into the field matching sel.
func (h *Harness) Input(sel, value string) []page.Command {
	h.t.Helper()
	return h.on(sel, page.Event{Type: page.EventInput, Value: value})
}

// Check sets the checked state of the checkbox or radio matching sel.
func (h *Harness) Check(sel string, checked bool) []page.Command {
	h.t.Helper()
	n := h.Node(sel)
	value := dom.GetAttr(n, "value")
	return h.on(sel, page.Event{Type: page.EventChange, Value: value, Checked: checked})
}

// Blur moves focus away from the field matching sel.
func (h *Harness) Blur(sel string) []page.Command {
	h.t.Helper()
	return h.on(sel, page.Event{Type: page.EventBlur})
}

// Submit submits the form matching sel.
func (h *Harness) Submit(sel string) []page.Command {
	h.t.Helper()
	return h.on(sel, page.Event{Type: page.EventSubmit})
}

// Key presses key.
func (h *Harness) Key(key string) []page.Command {
	h.t.Helper()
	return h.Dispatch(page.Event{Type: page.EventKeydown, Key: key})
}

// Resize reports a new viewport width.
func (h *Harness) Resize(width int) []page.Command {
	h.t.Helper()
	return h.Dispatch(page.Event{Type: page.EventResize, Width: width})
}

// Scroll reports a new scroll position.
func (h *Harness) Scroll(pageY int) []page.Command {
	h.t.Helper()
	return h.Dispatch(page.Event{Type: page.EventScroll, PageY: pageY})
}

// Intersect reports that the section with id came into view.
func (h *Harness) Intersect(id string) []page.Command {
	h.t.Helper()
	return h.Dispatch(page.Event{Type: page.EventIntersect, Section: id})
}

// ImageError reports that the image matching sel failed to load.
func (h *Harness) ImageError(sel string) []page.Command {
	h.t.Helper()
	return h.on(sel, page.Event{Type: page.EventImageError})
}

// Body returns the current body HTML.
func (h *Harness) Body() string {
	return h.Page.Document().BodyHTML()
}

// Count returns the number of elements matching sel.
func (h *Harness) Count(sel string) int {
	return len(h.Page.Document().QueryAll(sel))
}

// ExpectText asserts that the element matching sel has text content want.
func (h *Harness) ExpectText(sel, want string) {
	h.t.Helper()
	if got := strings.TrimSpace(dom.Text(h.Node(sel))); got != want {
		h.t.Errorf("text of %q = %q, want %q", sel, got, want)
	}
}

// ExpectClass asserts whether the element matching sel has class cls.
func (h *Harness) ExpectClass(sel, cls string, want bool) {
	h.t.Helper()
	if got := dom.HasClass(h.Node(sel), cls); got != want {
		h.t.Errorf("%q has class %q = %v, want %v", sel, cls, got, want)
	}
}

// ExpectAttribute asserts the value of attribute attr on sel.
func (h *Harness) ExpectAttribute(sel, attr, want string) {
	h.t.Helper()
	if got := dom.GetAttr(h.Node(sel), attr); got != want {
		h.t.Errorf("%q %s = %q, want %q", sel, attr, got, want)
	}
}

// ExpectMissing asserts that nothing matches sel.
func (h *Harness) ExpectMissing(sel string) {
	h.t.Helper()
	if n := h.Page.Document().Query(sel); n != nil {
		h.t.Errorf("expected no match for %q, got %s", sel, truncate(dom.OuterHTML(n), 300))
	}
}

// ExpectContains asserts that the body HTML contains substr.
func (h *Harness) ExpectContains(substr string) {
	h.t.Helper()
	if body := h.Body(); !strings.Contains(body, substr) {
		h.t.Errorf("expected body to contain %q, got:\n%s", substr, truncate(body, 500))
	}
}

// FindOp returns the first command with op.
func FindOp(cmds []page.Command, op page.Op) (page.Command, bool) {
	for _, c := range cmds {
		if c.Op == op {
			return c, true
		}
	}
	return page.Command{}, false
}

// ExpectOp asserts that cmds contains op and returns the first match.
func ExpectOp(t *testing.T, cmds []page.Command, op page.Op) page.Command {
	t.Helper()
	c, ok := FindOp(cmds, op)
	if !ok {
		t.Errorf("expected a %s command, got %+v", op, ops(cmds))
	}
	return c
}

// ExpectNoOp asserts that cmds has no command with op.
func ExpectNoOp(t *testing.T, cmds []page.Command, op page.Op) {
	t.Helper()
	if _, ok := FindOp(cmds, op); ok {
		t.Errorf("unexpected %s command in %+v", op, ops(cmds))
	}
}

func ops(cmds []page.Command) []page.Op {
	out := make([]page.Op, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
