package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// maxRedirects bounds Context.Redirect chains.
const maxRedirects = 10

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is merged into the path's own query string.
	Query url.Values

	// State is attached to the navigation context.
	State map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation URL.
func WithQuery(query url.Values) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = query
	}
}

// WithState attaches state to the navigation.
func WithState(state map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.State = state
	}
}

// Redirect asks the router to navigate to path once the current chain
// returns. path is relative to the base path, like Context.Path. Middleware
// usually calls it instead of next.
func (c *Context) Redirect(path string) {
	c.redirect = path
}

// Navigate resolves path and runs its handler chain: global middleware, the
// BeforeEach hook, the route's middleware, the terminal handler and the
// AfterEach hook. It returns the context of the last navigation performed,
// which differs from the first when middleware redirected.
//
// Navigate must not be called from inside a navigation; use Context.Redirect.
// Handlers and page-changed listeners may use the router's other methods.
func (r *Router) Navigate(stdctx context.Context, path string, opts ...NavigateOption) (*Context, error) {
	if stdctx == nil {
		stdctx = context.Background()
	}

	options := NavigateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	r.navMu.Lock()
	defer r.navMu.Unlock()

	r.mu.Lock()
	started, global := r.started, r.global
	r.mu.Unlock()

	if !started {
		return nil, ErrNotStarted
	}

	for hop := 0; ; hop++ {
		if err := stdctx.Err(); err != nil {
			return nil, err
		}

		ctx, err := r.navigate(stdctx, global, path, options, hop)
		if ctx.redirect == "" || errors.Is(err, ErrTooManyRedirects) {
			return ctx, err
		}
		if hop+1 >= maxRedirects {
			return ctx, fmt.Errorf("%w: last target %s", ErrTooManyRedirects, ctx.redirect)
		}

		r.logger.Debug("navigation redirected", "id", ctx.ID, "from", ctx.CanonicalPath, "to", ctx.redirect)
		path = routepath.JoinBase(r.base, ctx.redirect)
		options = NavigateOptions{Replace: true, State: options.State}
	}
}

// redirectLimit fails a navigation asking for one redirect too many. It runs
// inside the global middleware so that they observe the failure.
func redirectLimit(ctx *Context, hop int) error {
	if ctx.redirect != "" && hop+1 >= maxRedirects {
		return fmt.Errorf("%w: last target %s", ErrTooManyRedirects, ctx.redirect)
	}
	return nil
}

// navigate performs a single navigation with r.navMu held. The returned
// context is never nil.
func (r *Router) navigate(stdctx context.Context, global []Middleware, path string, options NavigateOptions, hop int) (*Context, error) {
	start := time.Now()

	ctx := &Context{
		ID:      uuid.NewString(),
		Path:    path,
		Params:  map[string]string{},
		State:   options.State,
		Replace: options.Replace,
		std:     stdctx,
	}

	canonical, err := routepath.CanonicalizeNavPath(path)
	if err != nil {
		return r.reject(ctx, global, fmt.Errorf("navigate %q: %w", path, err))
	}
	fullPath, query := routepath.SplitPathAndQuery(canonical)
	ctx.CanonicalPath = fullPath

	rel, err := routepath.StripBase(r.base, fullPath)
	if err != nil {
		return r.reject(ctx, global, fmt.Errorf("navigate %q: %w", path, err))
	}
	ctx.Path = rel

	if len(options.Query) > 0 {
		merged, _ := url.ParseQuery(query)
		for k, vs := range options.Query {
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		query = merged.Encode()
	}
	ctx.Querystring = query

	e, params, matchErr := r.match(rel)
	if matchErr != nil {
		err := ComposeMiddleware(ctx, global, func() error {
			if r.notFound != nil && errors.Is(matchErr, ErrNoRoute) {
				r.notFound(ctx)
			}
			if err := redirectLimit(ctx, hop); err != nil {
				return err
			}
			return matchErr
		})
		r.logger.Debug("navigation unmatched", "id", ctx.ID, "path", fullPath, "error", err)
		return ctx, err
	}
	ctx.Params = params
	ctx.Pattern = e.pattern

	reached := false
	err = ComposeMiddleware(ctx, global, func() error {
		err := ComposeMiddleware(ctx, e.chain, func() error {
			reached = true
			r.terminal(e.route, ctx)
			return e.after.Handle(ctx, func() error { return nil })
		})
		if err != nil {
			return err
		}
		return redirectLimit(ctx, hop)
	})

	if err != nil {
		r.logger.Warn("navigation failed",
			"id", ctx.ID,
			"route", e.route.Name,
			"path", fullPath,
			"error", err,
		)
		return ctx, err
	}

	r.logger.Debug("navigation complete",
		"id", ctx.ID,
		"route", e.route.Name,
		"path", fullPath,
		"completed", reached,
		"duration", time.Since(start),
	)
	return ctx, nil
}

// reject passes a navigation that failed before matching through the global
// middleware, which see cause as the result.
func (r *Router) reject(ctx *Context, global []Middleware, cause error) (*Context, error) {
	err := ComposeMiddleware(ctx, global, func() error { return cause })
	r.logger.Debug("navigation rejected", "id", ctx.ID, "path", ctx.Path, "error", err)
	return ctx, err
}

// terminal is the last handler of every route's chain.
func (r *Router) terminal(route *Route, ctx *Context) {
	if parent := route.parent; parent != nil {
		ctx.Parent = route
		r.GetCurrentPage(PageQuery{Route: parent})
	}

	ctx.Name = route.Name
	ctx.Component = route.Component
	route.ctx = ctx

	r.current.Store(route)
	r.bus.Publish(PageChanged{Context: ctx})

	if route.Component != nil {
		route.Component()
	}
}
