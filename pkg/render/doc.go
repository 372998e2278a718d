// Package render turns vdom trees into HTML.
//
// It handles element and text rendering with escaping, void elements,
// boolean attributes and hydration IDs. Elements carrying an HID are
// rendered with a data-hid attribute so patches can find them in the
// browser.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Pages
//
// RenderPage wraps a body tree in a full HTML document with head, inline
// styles and scripts:
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Title: "Preview",
//	    Body:  root,
//	    Scripts: []render.ScriptTag{{Inline: clientJS}},
//	})
package render
