package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startRouter(t *testing.T, routes []*Route, opts ...Option) *Router {
	t.Helper()
	r := New(routes, append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return r
}

func navigate(t *testing.T, r *Router, path string, opts ...NavigateOption) *Context {
	t.Helper()
	ctx, err := r.Navigate(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("Navigate(%q) error: %v", path, err)
	}
	return ctx
}

// testNode is a minimal Node backed by an attribute map.
type testNode struct {
	attrs map[string]string
}

func newTestNode(name string) *testNode {
	return &testNode{attrs: map[string]string{"name": name}}
}

func (n *testNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *testNode) SetAttr(name, value string) {
	n.attrs[name] = value
}

func (n *testNode) active() bool {
	_, ok := n.attrs[ActiveAttr]
	return ok
}

// threeLevel builds root → section → leaf with recording components.
func threeLevel(calls *[]string) []*Route {
	record := func(name string) func() {
		return func() { *calls = append(*calls, name) }
	}
	return []*Route{
		{Name: "root", Path: "/", Component: record("root"), Children: []*Route{
			{Name: "section", Path: "/section", Component: record("section"), Children: []*Route{
				{Name: "leaf", Path: "/section/leaf", Component: record("leaf")},
			}},
		}},
	}
}

// =============================================================================
// Navigation
// =============================================================================

func TestNavigateSetsCurrentRoute(t *testing.T) {
	routes := []*Route{
		{Name: "home", Path: "/"},
		{Name: "docs", Path: "/docs", Children: []*Route{
			{Name: "intro", Path: "/docs/intro"},
			{Name: "page", Path: "/docs/:slug"},
		}},
	}
	r := startRouter(t, routes)

	if r.Current() != nil {
		t.Fatal("Current() should be nil before the first navigation")
	}

	tests := []struct {
		path string
		want *Route
	}{
		{"/", routes[0]},
		{"/docs", routes[1]},
		{"/docs/intro", routes[1].Children[0]},
		{"/docs/other", routes[1].Children[1]},
	}
	for _, tt := range tests {
		navigate(t, r, tt.path)
		if got := r.Current(); got != tt.want {
			t.Errorf("after %s Current() = %v, want %v", tt.path, got.Name, tt.want.Name)
		}
	}
}

func TestNestedNavigation(t *testing.T) {
	var calls []string
	routes := threeLevel(&calls)
	r := startRouter(t, routes)
	leaf := routes[0].Children[0].Children[0]

	events := 0
	var event *Context
	r.Bus().Subscribe(func(ev PageChanged) {
		events++
		event = ev.Context
	})

	ctx := navigate(t, r, "/section/leaf")

	if want := []string{"section", "root", "leaf"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("component calls = %v, want %v", calls, want)
	}
	if r.Current() != leaf {
		t.Errorf("Current() = %v, want leaf", r.Current().Name)
	}
	if events != 1 {
		t.Errorf("page-changed events = %d, want 1", events)
	}
	if event != ctx {
		t.Error("event context differs from returned context")
	}
	if ctx.Name != "leaf" || ctx.Parent != leaf || ctx.Component == nil {
		t.Errorf("context = %+v", ctx)
	}
	if leaf.Context() != ctx {
		t.Error("context not stored on the leaf route")
	}
}

func TestTopLevelNavigationHasNoParent(t *testing.T) {
	var calls []string
	routes := threeLevel(&calls)
	r := startRouter(t, routes)

	ctx := navigate(t, r, "/")
	if ctx.Parent != nil {
		t.Errorf("ctx.Parent = %v, want nil", ctx.Parent.Name)
	}
	if !reflect.DeepEqual(calls, []string{"root"}) {
		t.Errorf("component calls = %v", calls)
	}
}

func TestComponentCalledOncePerNavigationWithMarkActive(t *testing.T) {
	var calls []string
	routes := threeLevel(&calls)
	r := startRouter(t, routes)

	nodes := []Node{newTestNode("root"), newTestNode("section"), newTestNode("leaf")}
	r.Bus().Subscribe(func(ev PageChanged) {
		r.MarkActive(nodes, "", nil)
	})

	navigate(t, r, "/section/leaf")

	counts := map[string]int{}
	for _, c := range calls {
		counts[c]++
	}
	for _, name := range []string{"root", "section", "leaf"} {
		if counts[name] != 1 {
			t.Errorf("%s called %d times, want 1", name, counts[name])
		}
	}
}

func TestGetCurrentPageReinvokesAncestors(t *testing.T) {
	var calls []string
	routes := threeLevel(&calls)
	r := startRouter(t, routes)
	navigate(t, r, "/section/leaf")
	calls = nil

	r.GetCurrentPage(PageQuery{})

	if want := []string{"leaf", "section", "root"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("component calls = %v, want %v", calls, want)
	}
}

func TestNavigateCanonicalizes(t *testing.T) {
	r := startRouter(t, []*Route{{Name: "docs", Path: "/docs/"}})

	for _, path := range []string{"/docs", "/docs/", "/docs//", "/x/../docs"} {
		ctx := navigate(t, r, path)
		if ctx.Name != "docs" || ctx.Path != "/docs" {
			t.Errorf("Navigate(%q) = %s %s", path, ctx.Name, ctx.Path)
		}
	}

	if _, err := r.Navigate(context.Background(), "docs"); err == nil {
		t.Error("expected error for relative path")
	}
	if _, err := r.Navigate(context.Background(), "https://example.com/docs"); err == nil {
		t.Error("expected error for absolute URL")
	}
}

func TestNavigateParams(t *testing.T) {
	routes := []*Route{
		{Name: "user", Path: "/users/:id"},
		{Name: "new", Path: "/users/new"},
		{Name: "post", Path: "/users/{id}/posts/{post}"},
		{Name: "files", Path: "/files/*path"},
		{Name: "assets", Path: "/assets/*file/"},
	}
	r := startRouter(t, routes)

	ctx := navigate(t, r, "/users/42")
	if ctx.Name != "user" || ctx.Param("id") != "42" {
		t.Errorf("user: name=%s params=%v", ctx.Name, ctx.Params)
	}

	ctx = navigate(t, r, "/users/new")
	if ctx.Name != "new" {
		t.Errorf("static segment should win over parameter, got %s", ctx.Name)
	}

	ctx = navigate(t, r, "/users/7/posts/hello%20world")
	if ctx.Param("id") != "7" || ctx.Param("post") != "hello world" {
		t.Errorf("post params = %v", ctx.Params)
	}
	if ctx.Pattern != "/users/{id}/posts/{post}" {
		t.Errorf("Pattern = %q", ctx.Pattern)
	}

	ctx = navigate(t, r, "/files/a/b/c.txt")
	if ctx.Param("path") != "a/b/c.txt" || ctx.Param("*") != "a/b/c.txt" {
		t.Errorf("wildcard params = %v", ctx.Params)
	}

	ctx = navigate(t, r, "/assets/css/site.css")
	if ctx.Name != "assets" || ctx.Param("file") != "css/site.css" {
		t.Errorf("trailing-slash wildcard: name=%s params=%v", ctx.Name, ctx.Params)
	}
}

func TestNavigateQueryAndState(t *testing.T) {
	r := startRouter(t, []*Route{{Name: "search", Path: "/search"}})

	ctx := navigate(t, r, "/search?q=go",
		WithQuery(url.Values{"page": {"2"}}),
		WithState(map[string]any{"scroll": 10}),
		WithReplace(),
	)

	q := ctx.Query()
	if q.Get("q") != "go" || q.Get("page") != "2" {
		t.Errorf("Query() = %v", q)
	}
	if ctx.State["scroll"] != 10 {
		t.Errorf("State = %v", ctx.State)
	}
	if !ctx.Replace {
		t.Error("Replace should be set")
	}
	if ctx.ID == "" {
		t.Error("ID should be set")
	}
	if ctx.StdContext() == nil {
		t.Error("StdContext() should not be nil")
	}
}

func TestNavigateIDsAreUnique(t *testing.T) {
	r := startRouter(t, []*Route{{Name: "home", Path: "/"}})
	a := navigate(t, r, "/")
	b := navigate(t, r, "/")
	if a.ID == b.ID {
		t.Errorf("navigation IDs should differ: %s", a.ID)
	}
}

func TestNavigateCancelledContext(t *testing.T) {
	r := startRouter(t, []*Route{{Name: "home", Path: "/"}})
	stdctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Navigate(stdctx, "/"); !errors.Is(err, context.Canceled) {
		t.Errorf("Navigate() error = %v, want context.Canceled", err)
	}
	if r.Current() != nil {
		t.Error("cancelled navigation should not change the current route")
	}
}

// =============================================================================
// Hooks and middleware
// =============================================================================

func TestHookAndMiddlewareOrder(t *testing.T) {
	var order []string
	routes := []*Route{{
		Name: "page",
		Path: "/page",
		Component: func() {
			order = append(order, "component")
		},
		Middlewares: []Middleware{
			MiddlewareFunc(func(ctx *Context, next func() error) error {
				order = append(order, "route-mw")
				return next()
			}),
		},
	}}

	r := New(routes, WithLogger(quietLogger()))
	r.Use(MiddlewareFunc(func(ctx *Context, next func() error) error {
		order = append(order, "global-before")
		err := next()
		order = append(order, "global-after")
		return err
	}))
	var hookRoutes []*Route
	r.BeforeEach(func(route *Route, ctx *Context, next func() error) error {
		hookRoutes = append(hookRoutes, route)
		order = append(order, "before")
		return next()
	})
	r.AfterEach(func(route *Route, ctx *Context, next func() error) error {
		hookRoutes = append(hookRoutes, route)
		order = append(order, "after:"+ctx.Name)
		return next()
	})
	r.Bus().Subscribe(func(PageChanged) {
		order = append(order, "event")
	})
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	navigate(t, r, "/page")

	want := []string{"global-before", "before", "route-mw", "event", "component", "after:page", "global-after"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v\nwant    %v", order, want)
	}
	if len(hookRoutes) != 2 || hookRoutes[0] != routes[0] || hookRoutes[1] != routes[0] {
		t.Errorf("hooks should receive the navigated route")
	}
}

func TestAfterEachRunsOncePerNavigation(t *testing.T) {
	var calls []string
	r := New(threeLevel(&calls), WithLogger(quietLogger()))
	after := 0
	r.AfterEach(func(route *Route, ctx *Context, next func() error) error {
		after++
		return next()
	})
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	navigate(t, r, "/section/leaf")
	navigate(t, r, "/section")
	if after != 2 {
		t.Errorf("AfterEach ran %d times, want 2", after)
	}
}

func TestHooksAfterStartIgnored(t *testing.T) {
	r := startRouter(t, []*Route{{Name: "home", Path: "/"}})
	r.BeforeEach(func(route *Route, ctx *Context, next func() error) error {
		t.Error("hook set after Start should not run")
		return next()
	})
	navigate(t, r, "/")
}

func TestBeforeEachBlocksNavigation(t *testing.T) {
	var calls []string
	r := New(threeLevel(&calls), WithLogger(quietLogger()))
	r.BeforeEach(func(route *Route, ctx *Context, next func() error) error {
		if route.Name == "leaf" {
			return nil
		}
		return next()
	})
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	events := 0
	r.Bus().Subscribe(func(PageChanged) { events++ })

	navigate(t, r, "/section")
	ctx := navigate(t, r, "/section/leaf")

	if r.Current().Name != "section" {
		t.Errorf("blocked navigation changed Current() to %s", r.Current().Name)
	}
	if events != 1 {
		t.Errorf("events = %d, want 1", events)
	}
	if ctx.Name != "" {
		t.Errorf("blocked context should not be stamped, got %q", ctx.Name)
	}
}

func TestMiddlewareErrorAbortsNavigation(t *testing.T) {
	denied := errors.New("denied")
	routes := []*Route{
		{Name: "home", Path: "/"},
		{Name: "admin", Path: "/admin", Middlewares: []Middleware{
			MiddlewareFunc(func(ctx *Context, next func() error) error {
				return denied
			}),
		}},
	}
	r := startRouter(t, routes)
	navigate(t, r, "/")

	_, err := r.Navigate(context.Background(), "/admin")
	if !errors.Is(err, denied) {
		t.Errorf("Navigate() error = %v, want %v", err, denied)
	}
	if r.Current().Name != "home" {
		t.Errorf("Current() = %s, want home", r.Current().Name)
	}
}

func TestRedirect(t *testing.T) {
	loggedIn := false
	guard := MiddlewareFunc(func(ctx *Context, next func() error) error {
		if !loggedIn {
			ctx.Redirect("/login?next=" + url.QueryEscape(ctx.Path))
			return nil
		}
		return next()
	})
	routes := []*Route{
		{Name: "login", Path: "/login"},
		{Name: "account", Path: "/account", Middlewares: []Middleware{guard}},
	}
	r := startRouter(t, routes)

	ctx := navigate(t, r, "/account")
	if ctx.Name != "login" || ctx.Query().Get("next") != "/account" || !ctx.Replace {
		t.Errorf("redirected context = %+v", ctx)
	}

	loggedIn = true
	if ctx := navigate(t, r, "/account"); ctx.Name != "account" {
		t.Errorf("Name = %s, want account", ctx.Name)
	}
}

func TestRedirectUnderBasePath(t *testing.T) {
	toHome := MiddlewareFunc(func(ctx *Context, next func() error) error {
		ctx.Redirect("/")
		return nil
	})
	r := startRouter(t, []*Route{
		{Name: "home", Path: "/"},
		{Name: "old", Path: "/old", Middlewares: []Middleware{toHome}},
	}, WithBasePath("/app"))

	ctx := navigate(t, r, "/app/old")
	if ctx.Name != "home" || ctx.CanonicalPath != "/app" {
		t.Errorf("redirected to %s (%s), want home (/app)", ctx.Name, ctx.CanonicalPath)
	}
}

func TestRedirectLoop(t *testing.T) {
	to := func(path string) Middleware {
		return MiddlewareFunc(func(ctx *Context, next func() error) error {
			ctx.Redirect(path)
			return nil
		})
	}
	r := startRouter(t, []*Route{
		{Name: "a", Path: "/a", Middlewares: []Middleware{to("/b")}},
		{Name: "b", Path: "/b", Middlewares: []Middleware{to("/a")}},
	})

	if _, err := r.Navigate(context.Background(), "/a"); !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("Navigate() error = %v, want ErrTooManyRedirects", err)
	}
}

// =============================================================================
// Base path, not found, lifecycle
// =============================================================================

func TestBasePath(t *testing.T) {
	routes := []*Route{
		{Name: "home", Path: "/"},
		{Name: "docs", Path: "/docs"},
	}
	r := startRouter(t, routes, WithBasePath("app/"))

	if r.Base() != "/app" {
		t.Errorf("Base() = %q", r.Base())
	}

	ctx := navigate(t, r, "/app/docs")
	if ctx.Name != "docs" || ctx.Path != "/docs" || ctx.CanonicalPath != "/app/docs" {
		t.Errorf("context = %s %s %s", ctx.Name, ctx.Path, ctx.CanonicalPath)
	}

	if ctx := navigate(t, r, "/app"); ctx.Name != "home" {
		t.Errorf("/app resolved to %s, want home", ctx.Name)
	}

	for _, path := range []string{"/docs", "/apple/docs"} {
		if _, err := r.Navigate(context.Background(), path); !errors.Is(err, ErrOutsideBase) {
			t.Errorf("Navigate(%q) error = %v, want ErrOutsideBase", path, err)
		}
	}
}

func TestNotFound(t *testing.T) {
	var missed string
	r := startRouter(t, []*Route{{Name: "home", Path: "/"}},
		WithNotFound(func(ctx *Context) { missed = ctx.Path }),
	)
	var seen error
	r.Use(MiddlewareFunc(func(ctx *Context, next func() error) error {
		seen = next()
		return seen
	}))

	_, err := r.Navigate(context.Background(), "/nowhere")
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("Navigate() error = %v, want ErrNoRoute", err)
	}
	if missed != "/nowhere" {
		t.Errorf("not found callback saw %q", missed)
	}
	if !errors.Is(seen, ErrNoRoute) {
		t.Errorf("global middleware saw %v", seen)
	}
}

func TestNotFoundRedirect(t *testing.T) {
	r := startRouter(t, []*Route{{Name: "home", Path: "/"}},
		WithNotFound(func(ctx *Context) { ctx.Redirect("/") }),
	)

	ctx, err := r.Navigate(context.Background(), "/nowhere")
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if ctx.Name != "home" {
		t.Errorf("Name = %s, want home", ctx.Name)
	}
}

func TestLifecycleErrors(t *testing.T) {
	r := New([]*Route{{Name: "home", Path: "/"}}, WithLogger(quietLogger()))

	if _, err := r.Navigate(context.Background(), "/"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Navigate before Start error = %v", err)
	}
	if err := r.Add(&Route{Name: "about", Path: "/about"}); err != nil {
		t.Errorf("Add before Start error = %v", err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start error = %v", err)
	}
	if err := r.Add(&Route{Name: "late", Path: "/late"}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Add after Start error = %v", err)
	}
	if ctx := navigate(t, r, "/about"); ctx.Name != "about" {
		t.Errorf("added route not registered")
	}
}

func TestStartValidationFailure(t *testing.T) {
	r := New([]*Route{
		{Name: "a", Path: "/a"},
		{Name: "a", Path: "/b"},
	}, WithLogger(quietLogger()))

	err := r.Start()
	var multiErr *MultiValidationError
	if !errors.As(err, &multiErr) || !multiErr.Has(ErrorDuplicateName) {
		t.Fatalf("Start() error = %v", err)
	}
	if r.Started() {
		t.Error("router should not be started after validation failure")
	}
}

func TestSharedBus(t *testing.T) {
	bus := NewBus()
	a := startRouter(t, []*Route{{Name: "a", Path: "/"}}, WithBus(bus))
	b := startRouter(t, []*Route{{Name: "b", Path: "/"}}, WithBus(bus))

	var names []string
	bus.Subscribe(func(ev PageChanged) { names = append(names, ev.Context.Name) })

	navigate(t, a, "/")
	navigate(t, b, "/")

	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("names = %v", names)
	}
	if a.Current().Name != "a" || b.Current().Name != "b" {
		t.Error("routers should keep separate current routes")
	}
}

// =============================================================================
// Tree helpers
// =============================================================================

func TestParentLinksAndDepth(t *testing.T) {
	var calls []string
	routes := threeLevel(&calls)
	startRouter(t, routes)

	root := routes[0]
	section := root.Children[0]
	leaf := section.Children[0]

	if root.Parent() != nil || section.Parent() != root || leaf.Parent() != section {
		t.Error("parent links not set")
	}
	if root.Depth() != 0 || section.Depth() != 1 || leaf.Depth() != 2 {
		t.Errorf("depths = %d %d %d", root.Depth(), section.Depth(), leaf.Depth())
	}
	if got := leaf.Ancestors(); !reflect.DeepEqual(got, []*Route{section, root}) {
		t.Errorf("Ancestors() = %v", got)
	}
}

func TestWalkAndLookup(t *testing.T) {
	var calls []string
	r := startRouter(t, threeLevel(&calls))

	var visited []string
	r.Walk(func(route *Route, depth int) bool {
		visited = append(visited, route.Name)
		return true
	})
	if !reflect.DeepEqual(visited, []string{"root", "section", "leaf"}) {
		t.Errorf("Walk visited %v", visited)
	}

	if got := r.Lookup("root.section.leaf"); got == nil || got.Name != "leaf" {
		t.Errorf("Lookup(root.section.leaf) = %v", got)
	}
	if got := r.Lookup("leaf"); got != nil {
		t.Errorf("Lookup(leaf) = %v, want nil", got.Name)
	}
}

func TestGlobalMiddlewareSeesRejectedNavigations(t *testing.T) {
	var seen []error
	to := func(path string) Middleware {
		return MiddlewareFunc(func(ctx *Context, next func() error) error {
			ctx.Redirect(path)
			return nil
		})
	}
	r := startRouter(t, []*Route{
		{Name: "a", Path: "/a", Middlewares: []Middleware{to("/b")}},
		{Name: "b", Path: "/b", Middlewares: []Middleware{to("/a")}},
	}, WithBasePath("/app"))
	r.Use(MiddlewareFunc(func(ctx *Context, next func() error) error {
		err := next()
		if err != nil {
			seen = append(seen, err)
		}
		return err
	}))

	tests := []struct {
		path string
		want error
	}{
		{"/elsewhere/a", ErrOutsideBase},
		{"/app/%zz", routepath.ErrInvalidPercentEscape},
		{"/app/a", ErrTooManyRedirects},
	}
	for _, tt := range tests {
		seen = nil
		ctx, err := r.Navigate(context.Background(), tt.path)
		if !errors.Is(err, tt.want) {
			t.Errorf("Navigate(%q) error = %v, want %v", tt.path, err, tt.want)
		}
		if ctx == nil {
			t.Errorf("Navigate(%q) returned a nil context", tt.path)
		}
		if len(seen) != 1 || !errors.Is(seen[0], tt.want) {
			t.Errorf("Navigate(%q): global middleware saw %v, want one %v", tt.path, seen, tt.want)
		}
	}
}

func TestAccessorsFromComponent(t *testing.T) {
	var r *Router
	var found *Route
	var started bool
	routes := []*Route{{Name: "a", Path: "/a", Component: func() {
		found = r.Lookup("a")
		started = r.Started()
		r.Walk(func(*Route, int) bool { return true })
	}}}
	r = startRouter(t, routes)

	unsubscribe := r.Bus().Subscribe(func(PageChanged) {
		_ = r.Routes()
	})
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		_, err := r.Navigate(context.Background(), "/a")
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Navigate() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Navigate blocked while a component read the route tree")
	}

	if found != routes[0] || !started {
		t.Errorf("Lookup() = %v, Started() = %v", found, started)
	}
}
