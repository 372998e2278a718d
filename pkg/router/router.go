package router

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// Router errors.
var (
	ErrNotStarted       = errors.New("router: not started")
	ErrAlreadyStarted   = errors.New("router: already started")
	ErrNoRoute          = errors.New("router: no route matches path")
	ErrOutsideBase      = routepath.ErrOutsideBase
	ErrTooManyRedirects = errors.New("router: too many redirects")
)

// Router owns a route tree, its path matcher and the current-route pointer.
//
// Routes are registered once by Start. Navigations are serialized; the
// current route, the bus and the resolver may be used from any goroutine.
type Router struct {
	// navMu serializes navigations; mu guards configuration. Navigations
	// never hold mu while running handlers.
	navMu sync.Mutex
	mu    sync.Mutex

	routes   []*Route
	base     string
	logger   *slog.Logger
	bus      *Bus
	notFound func(*Context)
	before   Hook
	after    Hook
	global   []Middleware

	started bool
	mux     *chi.Mux
	entries map[string]*entry

	current atomic.Pointer[Route]
}

// Option configures a Router.
type Option func(*Router)

// WithBasePath mounts every route under prefix. "/app" makes "/app/docs"
// match the route registered as "/docs".
func WithBasePath(prefix string) Option {
	return func(r *Router) {
		r.base = routepath.NormalizeBase(prefix)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithBus publishes page-changed events on bus instead of a private one.
func WithBus(bus *Bus) Option {
	return func(r *Router) {
		r.bus = bus
	}
}

// WithNotFound registers a callback for navigations that match no route.
func WithNotFound(fn func(*Context)) Option {
	return func(r *Router) {
		r.notFound = fn
	}
}

// New creates a router for routes. Nothing is registered until Start.
func New(routes []*Route, opts ...Option) *Router {
	r := &Router{
		routes: routes,
		before: passHook,
		after:  passHook,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "router")
	if r.bus == nil {
		r.bus = NewBus()
	}
	return r
}

// BeforeEach sets the hook run before every route's own middleware. The hook
// is bound to each route at Start; later calls have no effect.
func (r *Router) BeforeEach(h Hook) {
	r.setHook(&r.before, h, "BeforeEach")
}

// AfterEach sets the hook run once the terminal handler has finished. The
// hook is bound to each route at Start; later calls have no effect.
func (r *Router) AfterEach(h Hook) {
	r.setHook(&r.after, h, "AfterEach")
}

func (r *Router) setHook(slot *Hook, h Hook, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		r.logger.Warn("hook set after start ignored", "hook", name)
		return
	}
	if h == nil {
		h = passHook
	}
	*slot = h
}

// Use appends global middleware wrapping every navigation, including ones
// that match no route.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append(r.global, mw...)
}

// Add appends top-level routes. It fails once the router has started.
func (r *Router) Add(routes ...*Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}
	r.routes = append(r.routes, routes...)
	return nil
}

// Start validates the route tree and registers it with the path matcher.
// On error nothing is registered and Start may be retried after fixing the
// routes.
func (r *Router) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}

	if err := NewValidator(r.routes).Validate(); err != nil {
		return err
	}

	mux := chi.NewRouter()
	entries := make(map[string]*entry)
	if err := r.register(mux, entries, r.routes, nil); err != nil {
		return err
	}

	r.mux = mux
	r.entries = entries
	r.started = true

	r.logger.Info("router started", "routes", len(entries), "base", r.base)
	return nil
}

// Started reports whether Start has succeeded.
func (r *Router) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Current returns the leaf route of the last completed navigation, or nil
// before the first one.
func (r *Router) Current() *Route {
	return r.current.Load()
}

// Bus returns the bus page-changed events are published on.
func (r *Router) Bus() *Bus {
	return r.bus
}

// Base returns the normalized base path ("" when none).
func (r *Router) Base() string {
	return r.base
}

// Routes returns the top-level routes.
func (r *Router) Routes() []*Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Walk visits every route depth first in registration order. Returning false
// from fn skips the route's children.
func (r *Router) Walk(fn func(route *Route, depth int) bool) {
	var walk func(routes []*Route, depth int)
	walk = func(routes []*Route, depth int) {
		if depth > maxDepth {
			return
		}
		for _, route := range routes {
			if route == nil {
				continue
			}
			if fn(route, depth) {
				walk(route.Children, depth+1)
			}
		}
	}
	walk(r.Routes(), 0)
}

// Lookup finds a route by its dotted name path ("docs.intro").
func (r *Router) Lookup(name string) *Route {
	var find func(routes []*Route, prefix string, depth int) *Route
	find = func(routes []*Route, prefix string, depth int) *Route {
		if depth > maxDepth {
			return nil
		}
		for _, route := range routes {
			if route == nil {
				continue
			}
			label := joinLabel(prefix, route.Name)
			if label == name {
				return route
			}
			if strings.HasPrefix(name, label+".") {
				if found := find(route.Children, label, depth+1); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return find(r.Routes(), "", 0)
}
