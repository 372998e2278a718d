package router

// ComposeMiddleware runs mw in order around handler. Each middleware
// decides whether the rest of the chain runs by calling next.
func ComposeMiddleware(ctx *Context, mw []Middleware, handler func() error) error {
	var step func(i int) error
	step = func(i int) error {
		if i == len(mw) {
			return handler()
		}
		return mw[i].Handle(ctx, func() error { return step(i + 1) })
	}
	return step(0)
}

// Chain groups middleware into one, run in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Context, next func() error) error {
		return ComposeMiddleware(ctx, middleware, next)
	})
}

// Skip bypasses mw for navigations where condition holds.
func Skip(condition func(ctx *Context) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Context, next func() error) error {
		if condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// Only runs mw just for navigations where condition holds.
func Only(condition func(ctx *Context) bool, mw Middleware) Middleware {
	return Skip(func(ctx *Context) bool { return !condition(ctx) }, mw)
}

func hookMiddleware(h Hook, route *Route) Middleware {
	return MiddlewareFunc(func(ctx *Context, next func() error) error {
		return h(route, ctx, next)
	})
}
