// Package telemetry collects Prometheus metrics and OpenTelemetry spans
// for sitekit pages and sessions.
//
// Metrics collected:
//   - sitekit_events_total: events by type and status
//   - sitekit_event_duration_seconds: event handling duration by type
//   - sitekit_toasts_total: toasts created by level
//   - sitekit_submissions_total: submit outcomes
//   - sitekit_commands_sent_total: commands pushed to clients
//   - sitekit_active_sessions: open WebSocket sessions
//   - sitekit_websocket_errors_total: transport errors by type
//
// Expose them with promhttp:
//
//	m := telemetry.New(telemetry.WithRegistry(reg))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// A nil *Metrics records nothing.
package telemetry
