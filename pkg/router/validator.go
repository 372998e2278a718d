package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// =============================================================================
// Route Tree Validation
// =============================================================================

// Validator checks a route tree before it is registered with the matcher.
type Validator struct {
	routes []*Route
	errors []ValidationError
}

// ValidationError represents a route validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Routes are the names of the routes involved, as dotted paths from the root
	Routes []string

	// Path is the offending pattern
	Path string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorNilRoute indicates a nil entry in a routes or children list.
	ErrorNilRoute ValidationErrorType = "NIL_ROUTE"

	// ErrorRouteReused indicates the same *Route appears twice in the tree,
	// either as a shared child or as its own ancestor.
	ErrorRouteReused ValidationErrorType = "ROUTE_REUSED"

	// ErrorDuplicateName indicates two direct siblings share a name.
	// Example: /docs has two children named "intro"
	ErrorDuplicateName ValidationErrorType = "DUPLICATE_NAME"

	// ErrorDuplicateRoute indicates two routes resolve to the same pattern.
	// Example: /users/:id and /users/{id}
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorInvalidPattern indicates a path the matcher cannot accept.
	ErrorInvalidPattern ValidationErrorType = "INVALID_PATTERN"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Has reports whether any collected error is of type t.
func (e *MultiValidationError) Has(t ValidationErrorType) bool {
	for _, err := range e.Errors {
		if err.Type == t {
			return true
		}
	}
	return false
}

// NewValidator creates a new route validator.
func NewValidator(routes []*Route) *Validator {
	return &Validator{
		routes: routes,
	}
}

// Validate checks the whole tree.
// Returns nil if all routes are valid, or a MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateStructure()
	v.validatePatterns()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validateStructure walks the tree depth first, reporting nil entries, nodes
// reachable more than once and duplicate sibling names. Subtrees of a reused
// node are not descended into again, which also breaks cycles.
func (v *Validator) validateStructure() {
	seen := make(map[*Route]string)

	var walk func(routes []*Route, prefix string)
	walk = func(routes []*Route, prefix string) {
		names := make(map[string]int)
		for i, route := range routes {
			if route == nil {
				v.errors = append(v.errors, ValidationError{
					Type:    ErrorNilRoute,
					Message: fmt.Sprintf("nil route at index %d of %s", i, displayPrefix(prefix)),
				})
				continue
			}

			label := joinLabel(prefix, route.Name)
			if first, ok := seen[route]; ok {
				v.errors = append(v.errors, ValidationError{
					Type:    ErrorRouteReused,
					Message: fmt.Sprintf("route %q appears more than once in the tree", route.Name),
					Routes:  []string{first, label},
					Path:    route.Path,
				})
				continue
			}
			seen[route] = label

			if prev, ok := names[route.Name]; ok {
				v.errors = append(v.errors, ValidationError{
					Type:    ErrorDuplicateName,
					Message: fmt.Sprintf("duplicate route name %q under %s", route.Name, displayPrefix(prefix)),
					Routes:  []string{joinLabel(prefix, routes[prev].Name), label},
					Details: fmt.Sprintf("indexes %d and %d", prev, i),
				})
			} else {
				names[route.Name] = i
			}

			walk(route.Children, label)
		}
	}
	walk(v.routes, "")
}

// validatePatterns checks every path translates to a matcher pattern and that
// no two routes share a pattern.
func (v *Validator) validatePatterns() {
	byPattern := make(map[string][]string)
	visited := make(map[*Route]bool)

	var walk func(routes []*Route, prefix string)
	walk = func(routes []*Route, prefix string) {
		for _, route := range routes {
			if route == nil || visited[route] {
				continue
			}
			visited[route] = true
			label := joinLabel(prefix, route.Name)

			pattern, err := routepath.Pattern(route.Path)
			if err == nil {
				err = checkParams(pattern)
			}
			if err != nil {
				v.errors = append(v.errors, ValidationError{
					Type:    ErrorInvalidPattern,
					Message: fmt.Sprintf("route %q has an invalid path", route.Name),
					Routes:  []string{label},
					Path:    route.Path,
					Details: err.Error(),
				})
			} else {
				byPattern[pattern] = append(byPattern[pattern], label)
			}

			walk(route.Children, label)
		}
	}
	walk(v.routes, "")

	patterns := make([]string, 0, len(byPattern))
	for p := range byPattern {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		labels := byPattern[pattern]
		if len(labels) <= 1 {
			continue
		}
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorDuplicateRoute,
			Message: fmt.Sprintf("Duplicate route detected at %s", pattern),
			Routes:  labels,
			Path:    pattern,
			Details: fmt.Sprintf("Routes: %s", strings.Join(labels, ", ")),
		})
	}
}

// checkParams rejects unbalanced braces and repeated parameter names, both
// of which make chi panic at registration.
func checkParams(pattern string) error {
	names := make(map[string]bool)
	for _, seg := range strings.Split(pattern, "/") {
		depth := 0
		start := -1
		for i, c := range seg {
			switch c {
			case '{':
				if depth == 0 {
					start = i + 1
				}
				depth++
			case '}':
				depth--
				if depth < 0 {
					return fmt.Errorf("unmatched '}' in %q", seg)
				}
				if depth == 0 {
					name, _, _ := strings.Cut(seg[start:i], ":")
					if name == "" {
						return fmt.Errorf("unnamed parameter in %q", seg)
					}
					if names[name] {
						return fmt.Errorf("parameter %q used twice", name)
					}
					names[name] = true
				}
			}
		}
		if depth != 0 {
			return fmt.Errorf("unclosed '{' in %q", seg)
		}
	}
	return nil
}

func joinLabel(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func displayPrefix(prefix string) string {
	if prefix == "" {
		return "the top level"
	}
	return fmt.Sprintf("%q", prefix)
}

// FormatValidationError formats a validation error for display:
//
//	ERROR: Duplicate route detected at /users/{id}
//	  docs.user → /users/{id}
//	  admin.user → /users/{id}
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ERROR: %s\n", err.Message))

	for _, route := range err.Routes {
		if err.Path != "" {
			sb.WriteString(fmt.Sprintf("  %s → %s\n", route, err.Path))
		} else {
			sb.WriteString(fmt.Sprintf("  %s\n", route))
		}
	}

	if err.Details != "" {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", err.Details))
	}

	return sb.String()
}
