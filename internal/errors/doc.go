// Package errors provides structured, actionable errors for the portfolio
// CLI.
//
// Each error has a code (e.g. "P101") that maps to a short message, a longer
// explanation and, where one exists, a suggested fix:
//
//	err := errors.New("P102").
//	    WithDetail("portfolio.yaml: line 4: mapping values are not allowed").
//	    WithSuggestion("Check the YAML indentation")
//
//	errors.PrintError(err)
//	// ERROR P102: Invalid configuration file
//	//
//	//   portfolio.yaml: line 4: mapping values are not allowed
//	//
//	//   Hint: Check the YAML indentation
//
// Errors raised while serving requests do not use this package; they map to
// HTTP status codes in internal/api.
package errors
