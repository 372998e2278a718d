package view

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/vdom"
)

const (
	// AnimatedClass marks a child whose enter animation has been applied.
	AnimatedClass = "animated"

	// DefaultAnimation is the enter animation class used when a child has no
	// data-animation attribute.
	DefaultAnimation = "page-enter"
)

// Container shows the child selected by the current route.
type Container struct {
	// AttrForSelected is the child attribute compared with route names.
	AttrForSelected string

	// DefaultAnimation overrides the package default enter animation.
	DefaultAnimation string

	// Content are the candidate children in document order.
	Content []Node

	// Name identifies the container in logs.
	Name string

	// OnRender, when set, receives the patches of every render pass made in
	// response to a page-changed event.
	OnRender func(c *Container, patches []vdom.Patch)

	Logger *slog.Logger

	recorder *Recorder

	mu          sync.Mutex
	router      *router.Router
	unsubscribe func()
	active      Node
}

// New creates a container over content.
func New(content []Node) *Container {
	return &Container{Content: content}
}

func (c *Container) attr() string {
	if c.AttrForSelected == "" {
		return router.DefaultAttrForSelected
	}
	return c.AttrForSelected
}

func (c *Container) animationFor(n Node) string {
	if a := n.Dataset("animation"); a != "" {
		return a
	}
	if c.DefaultAnimation != "" {
		return c.DefaultAnimation
	}
	return DefaultAnimation
}

func (c *Container) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// RenderView runs one activation pass over content using the attached
// router's current route:
//
//  1. the active marker is cleared on every node;
//  2. nodes selecting a route on the current chain are marked active;
//  3. nodes that are not active lose the animated marker and their
//     animation class;
//  4. active nodes without the animated marker get it plus their
//     animation class.
//
// Re-rendering with an unchanged route changes nothing. When the container
// records patches, the patches of this pass are returned.
func (c *Container) RenderView(content []Node) []vdom.Patch {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range content {
		n.RemoveAttr(router.ActiveAttr)
	}

	c.active = nil
	if c.router != nil {
		nodes := make([]router.Node, len(content))
		for i, n := range content {
			nodes[i] = n
		}
		c.router.MarkActive(nodes, c.attr(), c.router.Current())
	}

	var activeNodes []Node
	for _, n := range content {
		if _, ok := n.Attr(router.ActiveAttr); ok {
			activeNodes = append(activeNodes, n)
			continue
		}
		n.RemoveClass(AnimatedClass)
		n.RemoveClass(c.animationFor(n))
	}

	for _, n := range activeNodes {
		if c.active == nil {
			c.active = n
		}
		if !n.HasClass(AnimatedClass) {
			n.AddClass(AnimatedClass)
			n.AddClass(c.animationFor(n))
		}
	}

	if len(activeNodes) > 1 {
		c.logger().Debug("several children active", "container", c.Name, "count", len(activeNodes))
	}

	return c.recorder.Flush()
}

// Render runs RenderView over the container's own content.
func (c *Container) Render() []vdom.Patch {
	return c.RenderView(c.Content)
}

// Active returns the first child marked active by the last render pass.
func (c *Container) Active() Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Selected returns the selection attribute of the active child, or "" when
// nothing is shown.
func (c *Container) Selected() string {
	n := c.Active()
	if n == nil {
		return ""
	}
	v, _ := n.Attr(c.attr())
	return v
}

// Attach renders once against r and re-renders on every page-changed event
// published on r's bus. Attaching again replaces the previous router. The
// patches of the initial render are returned.
func (c *Container) Attach(r *router.Router) []vdom.Patch {
	c.Detach()

	c.mu.Lock()
	c.router = r
	c.mu.Unlock()

	patches := c.Render()

	unsubscribe := r.Bus().Subscribe(func(ev router.PageChanged) {
		patches := c.Render()
		c.logger().Debug("view rendered",
			"container", c.Name,
			"route", ev.Context.Name,
			"patches", len(patches),
		)
		if c.OnRender != nil {
			c.OnRender(c, patches)
		}
	})

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	return patches
}

// Detach stops listening for page-changed events.
func (c *Container) Detach() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
