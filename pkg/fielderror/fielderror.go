// Package fielderror marks form fields invalid and shows the message next
// to them.
//
// The message lives in a single div.invalid-feedback placed directly after
// the field. It is created on first use and only hidden afterwards, so
// repeated Show/Clear cycles reuse the same node.
package fielderror

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

const (
	// InvalidClass marks a field that failed validation.
	InvalidClass = "is-invalid"

	// FeedbackClass identifies the message node after a field.
	FeedbackClass = "invalid-feedback"
)

// Show marks field invalid and displays message directly after it.
func Show(field *html.Node, message string) {
	if field == nil || field.Parent == nil {
		return
	}
	dom.AddClass(field, InvalidClass)

	fb := Feedback(field)
	if fb == nil {
		fb = dom.NewElement("div", "class", FeedbackClass)
		dom.InsertAfter(field, fb)
	}
	dom.SetText(fb, message)
	dom.SetStyle(fb, "display", "block")
}

// Clear removes the invalid marker and hides the message node if present.
func Clear(field *html.Node) {
	if field == nil {
		return
	}
	dom.RemoveClass(field, InvalidClass)
	if fb := Feedback(field); fb != nil {
		dom.SetStyle(fb, "display", "none")
	}
}

// IsInvalid reports whether field is currently marked invalid.
func IsInvalid(field *html.Node) bool {
	return dom.HasClass(field, InvalidClass)
}

// Feedback returns the message node following field, or nil.
func Feedback(field *html.Node) *html.Node {
	next := dom.NextSignificant(field)
	if dom.IsElement(next, "div") && dom.HasClass(next, FeedbackClass) {
		return next
	}
	return nil
}

// Message returns the visible message for field, or "" when none is shown.
func Message(field *html.Node) string {
	fb := Feedback(field)
	if fb == nil || dom.Style(fb, "display") == "none" {
		return ""
	}
	return dom.Text(fb)
}
