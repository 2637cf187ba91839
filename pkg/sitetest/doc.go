// Package sitetest provides test helpers for sitekit pages.
//
// A Harness loads an HTML page into a page.Page driven by a manual clock
// and records every command the page pushes from timer callbacks.
//
// # Quick Start
//
//	func TestContactForm(t *testing.T) {
//	    h := sitetest.New(t, contactHTML)
//	    h.Input("#email", "bad")
//	    cmds := h.Submit("#contact")
//	    sitetest.ExpectOp(t, cmds, page.OpFocus)
//	    h.ExpectText(".alert-danger", "Please correct the errors in the form")
//
//	    h.Advance(5150 * time.Millisecond)
//	    h.ExpectMissing(".alert-danger")
//	}
//
// Events are addressed by CSS selector; the harness resolves the element
// and fills in its hydration ID.
package sitetest
