package vdom

import "fmt"

// IsVoidElement reports whether tag never has children or a closing tag.
func IsVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img",
		"input", "link", "meta", "source", "track", "wbr":
		return true
	}
	return false
}

// CustomElement builds an element with any tag, e.g. "view-container".
//
// args may mix Attr, []Attr, *VNode, []*VNode and strings (text children).
// nil values are skipped so attributes and children can be conditional.
func CustomElement(tag string, args ...any) *VNode {
	node := &VNode{Kind: KindElement, Tag: tag, Props: Props{}}
	for _, arg := range args {
		node.add(arg)
	}
	return node
}

func (v *VNode) add(arg any) {
	switch a := arg.(type) {
	case Attr:
		v.applyAttr(a)
	case []Attr:
		for _, attr := range a {
			v.applyAttr(attr)
		}
	case *VNode:
		if a != nil {
			v.Children = append(v.Children, a)
		}
	case []*VNode:
		for _, child := range a {
			v.add(child)
		}
	case string:
		v.Children = append(v.Children, Text(a))
	}
}

func (v *VNode) applyAttr(a Attr) {
	switch a.Key {
	case "":
	case "key":
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
	case "class":
		s, ok := a.Value.(string)
		if !ok {
			v.Props[a.Key] = a.Value
			return
		}
		for _, c := range splitClasses(s) {
			v.AddClass(c)
		}
	default:
		v.Props[a.Key] = a.Value
	}
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates a node whose content is written without escaping. Only pass
// trusted HTML, such as rendered Markdown from the manifest.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := CustomElement("", children...)
	node.Kind = KindFragment
	node.Props = nil
	return node
}

func Meta(args ...any) *VNode    { return CustomElement("meta", args...) }
func Header(args ...any) *VNode  { return CustomElement("header", args...) }
func Main(args ...any) *VNode    { return CustomElement("main", args...) }
func Nav(args ...any) *VNode     { return CustomElement("nav", args...) }
func Section(args ...any) *VNode { return CustomElement("section", args...) }
func Article(args ...any) *VNode { return CustomElement("article", args...) }
func H1(args ...any) *VNode      { return CustomElement("h1", args...) }
func H2(args ...any) *VNode      { return CustomElement("h2", args...) }
func Div(args ...any) *VNode     { return CustomElement("div", args...) }
func P(args ...any) *VNode       { return CustomElement("p", args...) }
func Span(args ...any) *VNode    { return CustomElement("span", args...) }
func Ul(args ...any) *VNode      { return CustomElement("ul", args...) }
func Li(args ...any) *VNode      { return CustomElement("li", args...) }
func A(args ...any) *VNode       { return CustomElement("a", args...) }
