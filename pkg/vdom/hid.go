package vdom

import (
	"strconv"
	"sync/atomic"
)

// HIDGenerator hands out hydration IDs "h1", "h2", ... in call order.
// Walking the same tree with a fresh generator yields the same IDs, which is
// what lets a server-rendered page and a later session agree on targets.
type HIDGenerator struct {
	n atomic.Uint32
}

func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next ID.
func (g *HIDGenerator) Next() string {
	return "h" + strconv.FormatUint(uint64(g.n.Add(1)), 10)
}

// Reset restarts numbering at h1.
func (g *HIDGenerator) Reset() {
	g.n.Store(0)
}

// AssignHIDs numbers every element of the tree in document order. Elements
// that already carry an HID keep it. It returns how many IDs were assigned.
func AssignHIDs(root *VNode, gen *HIDGenerator) int {
	assigned := 0
	root.Walk(func(n *VNode) bool {
		if n.Kind == KindElement && n.HID == "" {
			n.HID = gen.Next()
			assigned++
		}
		return true
	})
	return assigned
}

// CollectHIDs indexes the tree by HID.
func CollectHIDs(root *VNode) map[string]*VNode {
	index := map[string]*VNode{}
	root.Walk(func(n *VNode) bool {
		if n.HID != "" {
			index[n.HID] = n
		}
		return true
	})
	return index
}

// FindByHID returns the first node in document order with the given HID.
func FindByHID(root *VNode, hid string) *VNode {
	var found *VNode
	root.Walk(func(n *VNode) bool {
		if found != nil {
			return false
		}
		if n.HID == hid {
			found = n
			return false
		}
		return true
	})
	return found
}
