package router

// PageQuery selects what GetCurrentPage walks.
type PageQuery struct {
	// Nodes are candidate view nodes. A node whose AttrForSelected attribute
	// equals the name of a route on the walked chain gets the active marker.
	Nodes []Node

	// AttrForSelected defaults to "name".
	AttrForSelected string

	// Route is where the walk starts. Defaults to the current route.
	Route *Route
}

// GetCurrentPage walks from q.Route up to its root. At every step it marks
// the nodes selecting that route as active and calls the route's component.
// Nodes that do not match are left untouched, so callers wanting a single
// active node clear the marker first. It returns the root route's name, or
// "" when there is no route to start from.
func (r *Router) GetCurrentPage(q PageQuery) string {
	return r.walk(q, true)
}

// MarkActive is GetCurrentPage without component callbacks. View containers
// use it so a navigation calls each component once.
func (r *Router) MarkActive(nodes []Node, attrForSelected string, route *Route) string {
	return r.walk(PageQuery{Nodes: nodes, AttrForSelected: attrForSelected, Route: route}, false)
}

func (r *Router) walk(q PageQuery, invoke bool) string {
	attr := q.AttrForSelected
	if attr == "" {
		attr = DefaultAttrForSelected
	}
	route := q.Route
	if route == nil {
		route = r.Current()
	}

	name := ""
	for steps := 0; route != nil; steps++ {
		if steps > maxDepth {
			r.logger.Error("parent chain exceeds maximum depth, stopping walk",
				"route", route.Name,
				"max_depth", maxDepth,
			)
			break
		}

		for _, node := range q.Nodes {
			if node == nil {
				continue
			}
			if v, ok := node.Attr(attr); ok && v == route.Name {
				node.SetAttr(ActiveAttr, "")
			}
		}

		if invoke && route.Component != nil {
			route.Component()
		}

		name = route.Name
		route = route.parent
	}
	return name
}
