// Package submit runs the form submission flow.
//
// A submit event validates every field of the form. Failures are shown
// next to their fields, the first invalid field receives focus and one
// danger toast summarizes the problem. When everything passes, the shared
// Guard is taken, the submit button is disabled and shows a spinner, and a
// simulated network round-trip is scheduled. On completion the guard is
// released, the button restored, a success toast shown, the form reset to
// its registered defaults and, after a further delay, the browser is sent
// to the thank-you page.
//
// While the guard is held, a valid submission from any form sharing it is
// ignored without feedback.
//
// No request leaves the server; the round-trip is a fixed delay.
package submit
