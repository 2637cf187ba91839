// Package portfolio drives the portfolio section: category filter buttons
// and the project detail modal.
//
// Both controllers are optional. NewFilter and NewModal return nil when the
// page lacks the markup, and every method is safe to call on a nil receiver.
package portfolio
