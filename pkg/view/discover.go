package view

import (
	"log/slog"

	"github.com/vango-dev/viewroute/pkg/vdom"
)

// ContainerTag is the element tag Discover treats as a view container.
const ContainerTag = "view-container"

// FromVNodes creates a container over element children that records a patch
// for every change it makes.
func FromVNodes(children []*vdom.VNode) *Container {
	rec := NewRecorder()
	c := &Container{recorder: rec}
	for _, child := range children {
		c.Content = append(c.Content, NewElement(child, rec))
	}
	return c
}

// Discover returns a recording Container for every view-container element
// under root, outermost first. The element's attr-for-selected (or
// attrForSelected) and default-animation attributes configure it. HIDs
// should be assigned before discovery so patches can be addressed.
func Discover(root *vdom.VNode, logger *slog.Logger) []*Container {
	var out []*Container
	root.Walk(func(n *vdom.VNode) bool {
		if n.Kind != vdom.KindElement || n.Tag != ContainerTag {
			return true
		}

		c := FromVNodes(n.ElementChildren())
		c.Logger = logger
		c.Name = n.HID
		if id, ok := n.Attr("id"); ok {
			c.Name = id
		}
		if attr, ok := n.Attr("attr-for-selected"); ok && attr != "" {
			c.AttrForSelected = attr
		} else if attr, ok := n.Attr("attrForSelected"); ok && attr != "" {
			c.AttrForSelected = attr
		}
		if anim, ok := n.Attr("default-animation"); ok {
			c.DefaultAnimation = anim
		}

		out = append(out, c)
		return true
	})
	return out
}
