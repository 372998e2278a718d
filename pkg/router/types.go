package router

// Route is a named, path-matched navigational unit.
//
// Name identifies the route among its siblings and is the value view
// containers compare against their selection attribute. Path is the match
// pattern. Component is called whenever the route becomes part of the active
// chain; it may be nil.
type Route struct {
	Name        string
	Path        string
	Component   func()
	Middlewares []Middleware
	Children    []*Route

	parent *Route
	ctx    *Context
}

// Parent returns the route this route is nested under, or nil for a
// top-level route.
func (r *Route) Parent() *Route {
	return r.parent
}

// Context returns the match context of the last navigation that ended on
// this route.
func (r *Route) Context() *Context {
	return r.ctx
}

// Depth is the number of parent links between r and its root.
func (r *Route) Depth() int {
	d := 0
	for p := r.parent; p != nil && d <= maxDepth; p = p.parent {
		d++
	}
	return d
}

// Ancestors returns the parent chain from the nearest parent to the root.
func (r *Route) Ancestors() []*Route {
	var out []*Route
	for p := r.parent; p != nil && len(out) <= maxDepth; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Middleware runs as part of a navigation. Calling next continues the chain.
// Returning without calling next stops the navigation quietly; returning an
// error aborts it.
type Middleware interface {
	Handle(ctx *Context, next func() error) error
}

// MiddlewareFunc is a function that implements Middleware.
type MiddlewareFunc func(ctx *Context, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *Context, next func() error) error {
	return f(ctx, next)
}

// Hook is a global BeforeEach / AfterEach callback. It receives the route it
// was bound to at registration.
type Hook func(route *Route, ctx *Context, next func() error) error

func passHook(_ *Route, _ *Context, next func() error) error {
	return next()
}

// Node is a view element the resolver can mark active.
type Node interface {
	Attr(name string) (string, bool)
	SetAttr(name, value string)
}

// ActiveAttr is the attribute set on the node selected for the current route.
const ActiveAttr = "active"

// DefaultAttrForSelected is the node attribute compared against route names.
const DefaultAttrForSelected = "name"

// maxDepth bounds parent walks so a parent chain mutated into a cycle
// cannot loop forever.
const maxDepth = 256
