package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://sitekit.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (E100-E199)
	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "sitekit looks for sitekit.json in the working directory unless --config is given.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid environment file",
		Detail:   "The .env file exists but could not be parsed.",
		DocURL:   docBase + "E103",
	},

	// Catalog (E200-E299)
	"E200": {
		Category: CategoryCatalog,
		Message:  "Project catalog could not be loaded",
		DocURL:   docBase + "E200",
	},
	"E201": {
		Category: CategoryCatalog,
		Message:  "Project catalog is malformed",
		Detail:   "The catalog must be a mapping of project keys to {title, description}.",
		DocURL:   docBase + "E201",
	},

	// Pages (E300-E399)
	"E300": {
		Category: CategoryPage,
		Message:  "Page not found",
		DocURL:   docBase + "E300",
	},
	"E301": {
		Category: CategoryPage,
		Message:  "Page could not be parsed",
		Detail:   "The HTML document could not be parsed into a DOM tree.",
		DocURL:   docBase + "E301",
	},
	"E302": {
		Category: CategoryPage,
		Message:  "Unknown page event",
		Detail:   "The client sent an event type the page controller does not handle.",
		DocURL:   docBase + "E302",
	},

	// Sessions (E400-E499)
	"E400": {
		Category: CategorySession,
		Message:  "Session not found",
		Detail:   "The session ID is invalid or the session has expired.",
		DocURL:   docBase + "E400",
	},
	"E401": {
		Category: CategorySession,
		Message:  "Session already attached",
		Detail:   "A WebSocket connection is already attached to this session.",
		DocURL:   docBase + "E401",
	},
	"E402": {
		Category: CategorySession,
		Message:  "Page closed",
		Detail:   "The page controller was closed and no longer accepts events.",
		DocURL:   docBase + "E402",
	},

	// CLI (E500-E599)
	"E500": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		DocURL:   docBase + "E500",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
