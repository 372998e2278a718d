package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://viewroute.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryRoute,
		Message:  "Router not started",
		Detail:   "Navigate was called before Start registered the route tree.",
		DocURL:   docBase + "E200",
	},
	"E201": {
		Category: CategoryRoute,
		Message:  "Router already started",
		Detail:   "Routes can only be added before Start.",
		DocURL:   docBase + "E201",
	},
	"E202": {
		Category: CategoryRoute,
		Message:  "No route matches path",
		DocURL:   docBase + "E202",
	},
	"E203": {
		Category: CategoryRoute,
		Message:  "Path is outside the base path",
		DocURL:   docBase + "E203",
	},
	"E204": {
		Category: CategoryRoute,
		Message:  "Invalid route tree",
		Detail:   "The route definitions contain cycles, duplicate sibling names or invalid patterns.",
		DocURL:   docBase + "E204",
	},
	"E205": {
		Category: CategoryRoute,
		Message:  "Invalid navigation path",
		Detail:   "Navigation paths must be relative, start with / and contain valid escapes.",
		DocURL:   docBase + "E205",
	},

	// ============================================
	// Manifest Errors (E220-E239)
	// ============================================

	"E220": {
		Category: CategoryManifest,
		Message:  "Route manifest not found",
		DocURL:   docBase + "E220",
	},
	"E221": {
		Category: CategoryManifest,
		Message:  "Route manifest could not be parsed",
		DocURL:   docBase + "E221",
	},
	"E222": {
		Category: CategoryManifest,
		Message:  "Unknown middleware",
		Detail:   "The manifest references a middleware that is not registered.",
		DocURL:   docBase + "E222",
	},
	"E223": {
		Category: CategoryManifest,
		Message:  "Component script failed to compile",
		DocURL:   docBase + "E223",
	},
	"E224": {
		Category: CategoryManifest,
		Message:  "Route manifest could not be fetched from S3",
		DocURL:   docBase + "E224",
	},
	"E225": {
		Category: CategoryManifest,
		Message:  "View page references an unknown route",
		DocURL:   docBase + "E225",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid viewroute.json",
		Detail:   "The viewroute.json configuration file is malformed.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "Port must be between 0 and 65535.",
		DocURL:   docBase + "E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "Log level must be one of debug, info, warn or error.",
		DocURL:   docBase + "E123",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category: CategoryCLI,
		Message:  "No viewroute.json found",
		Detail:   "Run the command from a directory with viewroute.json or pass --manifest.",
		DocURL:   docBase + "E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Preview server failed",
		DocURL:   docBase + "E142",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
