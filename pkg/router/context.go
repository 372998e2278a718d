package router

import (
	"context"
	"net/url"
	"sync"
)

// Context describes a single navigation. It is created by Navigate, passed
// through every middleware and hook, stored on the matched route and carried
// by the PageChanged event.
type Context struct {
	// ID uniquely identifies the navigation.
	ID string

	// Path is the canonical path relative to the base path.
	Path string

	// CanonicalPath is Path with the base path prepended.
	CanonicalPath string

	// Querystring is the raw query without the leading "?".
	Querystring string

	// Params holds decoded path parameters keyed by name.
	Params map[string]string

	// State is caller supplied navigation state (history.state).
	State map[string]any

	// Pattern is the matched route pattern in chi syntax.
	Pattern string

	// Name and Component are stamped by the terminal handler.
	Name      string
	Component func()

	// Parent is the leaf route when the leaf is nested, nil otherwise.
	Parent *Route

	// Replace is set when the navigation replaces the history entry.
	Replace bool

	std      context.Context
	redirect string
	mu       sync.RWMutex
	values   map[string]any
}

// StdContext returns the context.Context the navigation was started with.
func (c *Context) StdContext() context.Context {
	if c.std == nil {
		return context.Background()
	}
	return c.std
}

// WithStdContext replaces the standard context, e.g. to carry a tracing span.
func (c *Context) WithStdContext(ctx context.Context) {
	c.std = ctx
}

// Param returns a path parameter, or "" when absent.
func (c *Context) Param(name string) string {
	return c.Params[name]
}

// Query parses Querystring.
func (c *Context) Query() url.Values {
	v, _ := url.ParseQuery(c.Querystring)
	return v
}

// SetValue stores a request-scoped value for later middleware.
func (c *Context) SetValue(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Value returns a value stored with SetValue.
func (c *Context) Value(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}
