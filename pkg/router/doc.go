// Package router maps navigation paths to a tree of named routes and keeps
// track of which route is current.
//
// The router provides:
//   - Nested route definitions with parent links set at build time
//   - Path matching delegated to chi (static > {param} > * precedence)
//   - Per-route middleware plus global BeforeEach / AfterEach hooks
//   - A current-route pointer owned by each Router instance
//   - A synchronous "page-changed" bus for view containers
//
// # Route Trees
//
// Routes nest through Children. Child paths are full patterns, not suffixes
// of the parent path:
//
//	routes := []*router.Route{
//	    {Name: "docs", Path: "/docs", Component: showDocs, Children: []*router.Route{
//	        {Name: "intro", Path: "/docs/intro"},
//	        {Name: "page", Path: "/docs/:slug"},
//	    }},
//	}
//
// Both chi ("/docs/{slug}") and colon ("/docs/:slug") parameters are accepted.
//
// # Navigation
//
// Navigate runs, in order: global middleware (Use), the BeforeEach hook, the
// route's own middleware, the terminal handler and finally the AfterEach
// hook. The terminal handler activates the ancestor chain, stores the match
// context on the route, moves the current-route pointer to the leaf, publishes
// one PageChanged event and then calls the leaf's component.
//
// # Usage
//
//	r := router.New(routes, router.WithBasePath("/app"))
//	if err := r.Start(); err != nil {
//	    return err
//	}
//
//	ctx, err := r.Navigate(context.Background(), "/app/docs/intro")
//	if err == nil {
//	    // ctx.Name == "intro", r.Current().Name == "intro"
//	}
package router
