// Package vdom provides the element tree that view containers operate on.
//
// A VNode is an in-memory element, text, fragment or raw HTML node. Elements
// are built with variadic factory functions:
//
//	Section(Data("animation", "fade-in"), Attribute("name", "docs"),
//	    H1(Text("Docs")),
//	    Raw(html),
//	)
//
// Elements also expose DOM style accessors (Attr, SetAttr, HasClass,
// AddClass, Dataset, ...) so routing code can toggle attributes on them the
// way it would on browser elements.
//
// # Hydration
//
// AssignHIDs gives every element a stable hydration ID. Patches produced
// while toggling attributes are addressed by HID so a connected browser can
// apply them to the matching DOM element.
package vdom
