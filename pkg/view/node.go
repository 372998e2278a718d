package view

import (
	"sync"

	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/vdom"
)

// Node is a child element a Container can show or hide.
type Node interface {
	router.Node
	RemoveAttr(name string)
	HasClass(class string) bool
	AddClass(class string)
	RemoveClass(class string)
	Dataset(key string) string
}

// Recorder collects attribute changes from the Elements sharing it and
// reduces them to net patches: an attribute removed and set back to its
// previous value within one pass produces nothing.
type Recorder struct {
	mu      sync.Mutex
	order   []attrKey
	initial map[attrKey]attrState
	final   map[attrKey]attrState
}

type attrKey struct {
	hid string
	key string
}

type attrState struct {
	value   string
	present bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) touch(hid, key string, before, after attrState) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initial == nil {
		r.initial = make(map[attrKey]attrState)
		r.final = make(map[attrKey]attrState)
	}
	k := attrKey{hid: hid, key: key}
	if _, seen := r.initial[k]; !seen {
		r.initial[k] = before
		r.order = append(r.order, k)
	}
	r.final[k] = after
}

// Flush returns the net patches since the last flush, in order of first
// change, and clears the recorder.
func (r *Recorder) Flush() []vdom.Patch {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []vdom.Patch
	for _, k := range r.order {
		before, after := r.initial[k], r.final[k]
		if before == after {
			continue
		}
		if after.present {
			out = append(out, vdom.Patch{Op: vdom.PatchSetAttr, HID: k.hid, Key: k.key, Value: after.value})
		} else {
			out = append(out, vdom.Patch{Op: vdom.PatchRemoveAttr, HID: k.hid, Key: k.key})
		}
	}

	r.order = nil
	r.initial = nil
	r.final = nil
	return out
}

// Element adapts a vdom element to Node, reporting changes to a Recorder.
// Patches are addressed by the element's HID.
type Element struct {
	VNode *vdom.VNode
	rec   *Recorder
}

// NewElement wraps node. rec may be nil.
func NewElement(node *vdom.VNode, rec *Recorder) *Element {
	return &Element{VNode: node, rec: rec}
}

func (e *Element) state(name string) attrState {
	v, ok := e.VNode.Attr(name)
	return attrState{value: v, present: ok}
}

// change runs op and reports the attribute's before and after state.
func (e *Element) change(name string, op func()) {
	before := e.state(name)
	op()
	if after := e.state(name); after != before {
		e.rec.touch(e.VNode.HID, name, before, after)
	}
}

func (e *Element) Attr(name string) (string, bool) {
	return e.VNode.Attr(name)
}

func (e *Element) SetAttr(name, value string) {
	e.change(name, func() { e.VNode.SetAttr(name, value) })
}

func (e *Element) RemoveAttr(name string) {
	e.change(name, func() { e.VNode.RemoveAttr(name) })
}

func (e *Element) HasClass(class string) bool {
	return e.VNode.HasClass(class)
}

func (e *Element) AddClass(class string) {
	e.change("class", func() { e.VNode.AddClass(class) })
}

func (e *Element) RemoveClass(class string) {
	e.change("class", func() { e.VNode.RemoveClass(class) })
}

func (e *Element) Dataset(key string) string {
	return e.VNode.Dataset(key)
}
