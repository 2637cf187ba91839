// Package dom provides the server-side DOM that sitekit pages are driven on.
//
// A Document wraps a parsed golang.org/x/net/html tree. Elements are plain
// *html.Node values; the helpers in this package give them the small slice
// of browser DOM behavior the page controllers need: CSS selector queries,
// class lists, inline style properties, text content and sibling insertion.
//
// # Hydration IDs
//
// Every element gets a stable data-hid attribute (AssignHIDs). The thin
// client reports the hid of an event's target element; ByHID maps it back
// to the server node. Elements created after load receive hids on the next
// AssignHIDs call, which the page controller performs before each render.
//
// Selector strings that fail to compile match nothing; callers treat that
// the same way as a missing element.
package dom
