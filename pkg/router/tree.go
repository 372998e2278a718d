package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// entry is a registered route with its bound handler chain.
type entry struct {
	route    *Route
	pattern  string
	wildcard string

	// chain is the before hook bound to route followed by route.Middlewares.
	chain []Middleware

	// after is the after hook bound to route.
	after Middleware
}

// matchedHandler marks a pattern as present in the chi tree. Navigations
// never reach it; the matched entry is looked up by pattern instead.
var matchedHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// register links parents and registers routes depth first in slice order.
func (r *Router) register(mux *chi.Mux, entries map[string]*entry, routes []*Route, parent *Route) error {
	for _, route := range routes {
		if parent != nil {
			route.parent = parent
		}

		pattern, err := routepath.Pattern(route.Path)
		if err != nil {
			return fmt.Errorf("route %q: %w", route.Name, err)
		}

		if err := handle(mux, pattern); err != nil {
			return &MultiValidationError{Errors: []ValidationError{{
				Type:    ErrorInvalidPattern,
				Message: fmt.Sprintf("route %q has an invalid path", route.Name),
				Path:    route.Path,
				Details: err.Error(),
			}}}
		}

		chain := make([]Middleware, 0, len(route.Middlewares)+1)
		chain = append(chain, hookMiddleware(r.before, route))
		for _, mw := range route.Middlewares {
			if mw != nil {
				chain = append(chain, mw)
			}
		}

		entries[pattern] = &entry{
			route:    route,
			pattern:  pattern,
			wildcard: routepath.WildcardName(route.Path),
			chain:    chain,
			after:    hookMiddleware(r.after, route),
		}

		r.logger.Debug("route registered", "name", route.Name, "pattern", pattern, "depth", route.Depth())

		if len(route.Children) > 0 {
			if err := r.register(mux, entries, route.Children, route); err != nil {
				return err
			}
		}
	}
	return nil
}

// handle registers pattern, turning chi's registration panics into errors.
func handle(mux *chi.Mux, pattern string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	mux.Method(http.MethodGet, pattern, matchedHandler)
	return nil
}

// match resolves a base-relative canonical path to its entry and raw params.
func (r *Router) match(path string) (*entry, map[string]string, error) {
	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) || len(rctx.RoutePatterns) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	e, ok := r.entries[rctx.RoutePatterns[len(rctx.RoutePatterns)-1]]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		wildcard := key == "*"
		value, err := routepath.DecodeParam(rctx.URLParams.Values[i], wildcard)
		if err != nil {
			return nil, nil, fmt.Errorf("param %q: %w", key, err)
		}
		if wildcard && e.wildcard != "" {
			params[e.wildcard] = value
		}
		params[key] = value
	}
	return e, params, nil
}
