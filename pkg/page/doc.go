// Package page implements the per-page controller behind a sitekit session.
//
// A Page owns the server-side DOM of one loaded HTML page and every piece of
// page state: the burger menu, the header scrolled flag, the submission
// guard shared by all forms, live toasts, the portfolio filter and modal.
// Client events arrive through Dispatch or Deliver; timer callbacks (toast removal,
// submission completion, redirect) run through the page's scheduler.
//
// # Serialization
//
// All work happens under one mutex: Dispatch and Deliver hold it for the
// duration of an event and timer callbacks take it before running. Output is
// collected as Commands. Dispatch returns the commands produced by an event.
// Deliver and timer callbacks hand theirs to the Sink before the mutex is
// released, so a sink sees every flush in the order the DOM changed. With no
// sink attached the output is held until the next flush.
//
// # Commands
//
//   - render: the body HTML, sent only when it changed since the last render
//   - focus: the hid of the element to focus
//   - scroll: a target element id and the pixel offset to keep clear
//   - navigate: a URL to load
//
// A render always precedes the other commands of the same flush.
package page
