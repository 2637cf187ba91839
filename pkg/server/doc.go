// Package server serves sitekit pages over HTTP and drives them over
// WebSocket sessions.
//
// Every page request creates a session holding a page.Page controller. The
// rendered page references the thin client script, which connects back to
// /_sitekit/ws with the session ID, forwards DOM events as JSON and applies
// the commands the page returns.
//
// Routes:
//
//	GET  /                     home page
//	GET  /{page}               page (name.html or name) or static file
//	GET  /_sitekit/client.js   thin client
//	GET  /_sitekit/ws          WebSocket endpoint (?session=<id>)
//	POST /api/validate         validate a JSON list of fields
//	GET  /metrics              Prometheus metrics
//	GET  /healthz              liveness
//
// Anything else is served from the pages directory.
//
// Sessions that never attach a WebSocket expire after Config.SessionTTL.
package server
