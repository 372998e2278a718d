// Package errors gives viewroute failures a code, a category and enough
// context to fix them.
//
// Codes are registered templates (E2xx for routes and manifests, E12x and
// E14x for configuration). Manifest errors point at the offending line and
// carry a snippet of the surrounding source, read from disk by WithLocation
// or from fetched bytes by WithSnippet.
//
//	err := errors.New("E221").
//	    WithSnippet("s3://site/routes.yaml", data, 12, 0).
//	    WithSuggestion("Indent children under their parent route")
//	errors.PrintError(err)
//
// prints
//
//	ERROR E221: Route manifest could not be parsed
//
//	  s3://site/routes.yaml:12
//
//	      10 │   - name: docs
//	      11 │     path: /docs
//	    → 12 │    children:
//	      13 │       - name: intro
//
//	  Hint: Indent children under their parent route
package errors
