// Package errors provides structured, actionable errors for sitekit.
//
// Infrastructure failures (configuration, catalog loading, page parsing,
// session lookup) are reported as *Error values carrying a registered code,
// a category, a plain-language detail and a suggestion. Form validation
// failures are never errors; they are rendered next to the offending field.
//
// # Error Codes
//
// Each code (e.g., "E100") maps to a template in the registry:
//   - E1xx: configuration
//   - E2xx: project catalog
//   - E3xx: pages
//   - E4xx: sessions
//   - E5xx: command line
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail("unexpected token at offset 12").
//	    WithSuggestion("Check that sitekit.json is valid JSON")
//
//	errors.PrintError(err)
package errors
