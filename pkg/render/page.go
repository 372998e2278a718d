package render

import (
	"io"

	"github.com/vango-dev/viewroute/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// Styles contains inline CSS styles
	Styles []string

	// Scripts contains script tags appended to the body
	Scripts []ScriptTag
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Module bool   // type="module"
	Inline string // inline script content
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	ew := &errWriter{w: w}
	ew.WriteString("<!DOCTYPE html>\n")
	ew.WriteString(`<html lang="` + escapeAttr(lang) + `">` + "\n")

	ew.WriteString("<head>\n")
	ew.WriteString(`  <meta charset="utf-8">` + "\n")
	ew.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		ew.WriteString("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}
	for _, css := range page.Styles {
		ew.WriteString("  <style>" + css + "</style>\n")
	}
	ew.WriteString("</head>\n")

	ew.WriteString("<body>\n")
	r.renderNode(ew, page.Body, 0)
	if page.Body != nil {
		ew.WriteString("\n")
	}
	for _, script := range page.Scripts {
		renderScriptTag(ew, script)
	}
	ew.WriteString("</body>\n</html>\n")

	return ew.err
}

func renderScriptTag(w *errWriter, script ScriptTag) {
	w.WriteString("<script")
	if script.Module {
		w.WriteString(` type="module"`)
	}
	if script.Src != "" {
		w.WriteString(` src="` + escapeAttr(script.Src) + `"`)
	}
	w.WriteString(">")
	if script.Src == "" {
		w.WriteString(script.Inline)
	}
	w.WriteString("</script>\n")
}
