package errors

// Template defines a registered error.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (P100-P119)
	"P101": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Pass --config or create portfolio.yaml in the working directory",
	},
	"P102": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check the YAML syntax and field names",
	},
	"P103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"P104": {
		Category:   CategoryConfig,
		Message:    "Email service is not configured",
		Suggestion: "Set RESEND_API_KEY and CONTACT_TO_EMAIL",
	},

	// Content (P120-P139)
	"P120": {
		Category:   CategoryContent,
		Message:    "Content file not found",
		Suggestion: "Set content.path in portfolio.yaml",
	},
	"P121": {
		Category: CategoryContent,
		Message:  "Invalid content file",
	},
	"P122": {
		Category: CategoryContent,
		Message:  "Duplicate section key",
	},
	"P123": {
		Category:   CategoryContent,
		Message:    "No sections defined",
		Suggestion: "Add at least one entry under sections:",
	},

	// CLI (P140-P159)
	"P140": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
	},

	// Server (P160-P179)
	"P160": {
		Category: CategoryServer,
		Message:  "Server failed to start",
	},
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
