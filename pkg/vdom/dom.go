package vdom

import (
	"fmt"
	"strings"
)

// Attr returns the attribute value as the DOM would report it. Boolean
// attributes set to true read as "", false reads as absent.
func (v *VNode) Attr(name string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	raw, ok := v.Props[name]
	if !ok || raw == nil {
		return "", false
	}
	switch val := raw.(type) {
	case string:
		return val, true
	case bool:
		return "", val
	default:
		return fmt.Sprint(val), true
	}
}

// SetAttr sets an attribute to a string value.
func (v *VNode) SetAttr(name, value string) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[name] = value
}

// RemoveAttr deletes an attribute.
func (v *VNode) RemoveAttr(name string) {
	delete(v.Props, name)
}

// Classes returns the element's class list.
func (v *VNode) Classes() []string {
	s, _ := v.Attr("class")
	return splitClasses(s)
}

// HasClass reports whether the class list contains class.
func (v *VNode) HasClass(class string) bool {
	for _, c := range v.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class unless already present.
func (v *VNode) AddClass(class string) {
	if class == "" || v.HasClass(class) {
		return
	}
	v.setClasses(append(v.Classes(), class))
}

// RemoveClass removes class if present.
func (v *VNode) RemoveClass(class string) {
	classes := v.Classes()
	out := classes[:0]
	for _, c := range classes {
		if c != class {
			out = append(out, c)
		}
	}
	v.setClasses(out)
}

func (v *VNode) setClasses(classes []string) {
	if len(classes) == 0 {
		v.RemoveAttr("class")
		return
	}
	v.SetAttr("class", strings.Join(classes, " "))
}

func splitClasses(s string) []string {
	return strings.Fields(s)
}

// Dataset returns the value of data-<key>, or "" when unset.
func (v *VNode) Dataset(key string) string {
	s, _ := v.Attr("data-" + key)
	return s
}

// ElementChildren returns the direct children that are elements.
func (v *VNode) ElementChildren() []*VNode {
	var out []*VNode
	for _, child := range v.Children {
		if child == nil {
			continue
		}
		switch child.Kind {
		case KindElement:
			out = append(out, child)
		case KindFragment:
			out = append(out, child.ElementChildren()...)
		}
	}
	return out
}

// Walk visits v and its descendants depth first. Returning false from fn
// skips the node's children.
func (v *VNode) Walk(fn func(*VNode) bool) {
	if v == nil || !fn(v) {
		return
	}
	for _, child := range v.Children {
		child.Walk(fn)
	}
}

// QueryAll returns every element below and including v for which match is
// true, in document order.
func (v *VNode) QueryAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.Walk(func(n *VNode) bool {
		if n.Kind == KindElement && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// TextContent concatenates the text of every text descendant.
func (v *VNode) TextContent() string {
	var sb strings.Builder
	v.Walk(func(n *VNode) bool {
		if n.Kind == KindText {
			sb.WriteString(n.Text)
		}
		return true
	})
	return sb.String()
}
