package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/viewroute/internal/errors"
	"github.com/vango-dev/viewroute/internal/scripting"
	"github.com/vango-dev/viewroute/pkg/middleware"
	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/vdom"
	"github.com/vango-dev/viewroute/pkg/view"
)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	logger      *slog.Logger
	scripts     *scripting.Runtime
	middlewares map[string]router.Middleware
	global      []router.Middleware
	routerOpts  []router.Option
	basePath    string
}

// WithLogger sets the logger used by the router, containers and scripts.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// WithScripts sets the runtime for route scripts and guards. Builds without
// one create their own.
func WithScripts(rt *scripting.Runtime) BuildOption {
	return func(c *buildConfig) {
		c.scripts = rt
	}
}

// WithMiddleware registers mw under name for use in route middleware lists.
func WithMiddleware(name string, mw router.Middleware) BuildOption {
	return func(c *buildConfig) {
		c.middlewares[name] = mw
	}
}

// WithGlobalMiddleware adds middleware wrapping every navigation.
func WithGlobalMiddleware(mw ...router.Middleware) BuildOption {
	return func(c *buildConfig) {
		c.global = append(c.global, mw...)
	}
}

// WithRouterOptions passes options through to router.New.
func WithRouterOptions(opts ...router.Option) BuildOption {
	return func(c *buildConfig) {
		c.routerOpts = append(c.routerOpts, opts...)
	}
}

// WithBasePath overrides the manifest's base path.
func WithBasePath(base string) BuildOption {
	return func(c *buildConfig) {
		c.basePath = base
	}
}

// Site is a started router together with the document its containers show.
type Site struct {
	Manifest   *Manifest
	Router     *router.Router
	Document   *vdom.VNode
	Containers []*view.Container

	logger  *slog.Logger
	scripts *scripting.Runtime

	// navigating is the context of the navigation in progress. Component
	// scripts of ancestors run before the leaf's context is stored on the
	// router, so they read it from here.
	navigating atomic.Pointer[router.Context]
}

// MiddlewareNames returns the names usable in route middleware lists
// without registering anything.
func MiddlewareNames() []string {
	return []string{"log", "recover"}
}

// Build creates a Site: routes are translated to router.Routes, pages to a
// document with view-container elements, and every container is attached to
// the started router.
func (m *Manifest) Build(opts ...BuildOption) (*Site, error) {
	cfg := buildConfig{
		logger:      slog.Default(),
		middlewares: map[string]router.Middleware{},
		basePath:    m.BasePath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.scripts == nil {
		cfg.scripts = scripting.New(scripting.WithLogger(cfg.logger))
	}

	builtin := map[string]router.Middleware{
		"log":     middleware.Logging(cfg.logger),
		"recover": middleware.Recover(cfg.logger),
	}
	for name, mw := range builtin {
		if _, ok := cfg.middlewares[name]; !ok {
			cfg.middlewares[name] = mw
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	s := &Site{
		Manifest: m,
		logger:   cfg.logger,
		scripts:  cfg.scripts,
	}

	routes, err := s.buildRoutes(m.Routes, cfg.middlewares)
	if err != nil {
		return nil, err
	}

	routerOpts := append([]router.Option{
		router.WithBasePath(cfg.basePath),
		router.WithLogger(cfg.logger),
	}, cfg.routerOpts...)
	r := router.New(routes, routerOpts...)
	r.Use(router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		s.navigating.Store(ctx)
		defer s.navigating.Store(nil)
		return next()
	}))
	r.Use(cfg.global...)

	if err := r.Start(); err != nil {
		return nil, errors.New("E204").Wrap(err).WithDetail(err.Error())
	}
	s.Router = r

	s.Document = renderDocument(m, r.Base())
	vdom.AssignHIDs(s.Document, vdom.NewHIDGenerator())

	s.Containers = view.Discover(s.Document, cfg.logger)
	for _, c := range s.Containers {
		c.Attach(r)
	}

	cfg.logger.Debug("site built",
		"source", m.Source,
		"routes", m.RouteCount(),
		"containers", len(s.Containers),
	)
	return s, nil
}

func (s *Site) buildRoutes(specs []RouteSpec, registry map[string]router.Middleware) ([]*router.Route, error) {
	routes := make([]*router.Route, 0, len(specs))
	for _, spec := range specs {
		route := &router.Route{
			Name: spec.Name,
			Path: spec.Path,
		}

		if spec.Redirect != "" {
			route.Middlewares = append(route.Middlewares, redirectMiddleware(spec.Redirect))
		}
		if spec.Guard != "" {
			script, err := scripting.Compile(spec.Name+".guard", spec.Guard)
			if err != nil {
				return nil, errors.New("E223").Wrap(err).WithDetail(err.Error())
			}
			route.Middlewares = append(route.Middlewares, s.guardMiddleware(spec, script))
		}
		for _, name := range spec.Middlewares {
			mw, ok := registry[name]
			if !ok {
				return nil, errors.New("E222").
					WithDetail(fmt.Sprintf("route %q uses %q", spec.Name, name)).
					WithSuggestion("Known middleware: " + knownNames(registry))
			}
			route.Middlewares = append(route.Middlewares, mw)
		}

		if spec.Script != "" {
			script, err := scripting.Compile(spec.Name+".script", spec.Script)
			if err != nil {
				return nil, errors.New("E223").Wrap(err).WithDetail(err.Error())
			}
			route.Component = s.component(spec, script)
		}

		children, err := s.buildRoutes(spec.Children, registry)
		if err != nil {
			return nil, err
		}
		route.Children = children

		routes = append(routes, route)
	}
	return routes, nil
}

func knownNames(registry map[string]router.Middleware) string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (s *Site) env(spec RouteSpec, ctx *router.Context) scripting.Env {
	env := scripting.Env{Route: scripting.RouteInfo{Name: spec.Name, Path: spec.Path}}
	if ctx != nil {
		env.Page = scripting.PageInfo{
			ID:     ctx.ID,
			Path:   ctx.Path,
			Params: ctx.Params,
			Query:  ctx.Query(),
			State:  ctx.State,
		}
	}
	return env
}

// component runs the route script. Errors are logged: component callbacks
// cannot fail a navigation.
func (s *Site) component(spec RouteSpec, script *scripting.Script) func() {
	return func() {
		ctx := s.navigating.Load()
		std := context.Background()
		if ctx != nil {
			std = ctx.StdContext()
		}
		if _, err := s.scripts.Run(std, script, s.env(spec, ctx)); err != nil {
			s.logger.Error("route script failed", "route", spec.Name, "error", err)
		}
	}
}

func (s *Site) guardMiddleware(spec RouteSpec, script *scripting.Script) router.Middleware {
	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		result, err := s.scripts.Run(ctx.StdContext(), script, s.env(spec, ctx))
		if err != nil {
			return fmt.Errorf("guard %s: %w", spec.Name, err)
		}
		if target, ok := result.(string); ok && target != "" {
			ctx.Redirect(target)
			return nil
		}
		if !scripting.Truthy(result) {
			s.logger.Debug("navigation blocked by guard", "route", spec.Name, "path", ctx.CanonicalPath)
			return nil
		}
		return next()
	})
}

func redirectMiddleware(target string) router.Middleware {
	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		ctx.Redirect(target)
		return nil
	})
}

// Navigate is a shorthand for s.Router.Navigate.
func (s *Site) Navigate(ctx context.Context, path string, opts ...router.NavigateOption) (*router.Context, error) {
	return s.Router.Navigate(ctx, path, opts...)
}

// Container returns the container with the given name, or nil.
func (s *Site) Container(name string) *view.Container {
	for _, c := range s.Containers {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Close detaches every container from the router.
func (s *Site) Close() {
	for _, c := range s.Containers {
		c.Detach()
	}
}
