package manifest

import (
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/routepath"
	"github.com/vango-dev/viewroute/pkg/vdom"
	"github.com/vango-dev/viewroute/pkg/view"
)

// markdownExtensions are the blackfriday extensions page content is parsed
// with.
const markdownExtensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

// Markdown renders page content to HTML.
func Markdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	return string(blackfriday.Run([]byte(src), blackfriday.WithExtensions(markdownExtensions)))
}

// renderDocument builds the element tree shown by a Site: a navigation bar
// linking the static top-level routes, then the manifest's view containers.
func renderDocument(m *Manifest, base string) *vdom.VNode {
	var links []*vdom.VNode
	for _, r := range m.Routes {
		if strings.ContainsAny(r.Path, ":{*") {
			continue
		}
		links = append(links, vdom.Li(vdom.A(
			vdom.Href(routepath.JoinBase(base, r.Path)),
			vdom.Data("nav", ""),
			r.Name,
		)))
	}

	var nav *vdom.VNode
	if len(links) > 0 {
		nav = vdom.Nav(vdom.Ul(links))
	}

	return vdom.Div(
		vdom.ID("viewroute-app"),
		vdom.Header(
			titleNode(m.Title),
			nav,
		),
		vdom.Main(renderViews(m.Views)),
	)
}

func titleNode(title string) *vdom.VNode {
	if title == "" {
		return nil
	}
	return vdom.H1(vdom.Class("site-title"), title)
}

func renderViews(views []ViewSpec) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(views))
	for _, v := range views {
		attr := v.AttrForSelected
		if attr == "" {
			attr = router.DefaultAttrForSelected
		}

		args := []any{vdom.ID(v.Name)}
		if v.AttrForSelected != "" {
			args = append(args, vdom.Attribute("attr-for-selected", v.AttrForSelected))
		}
		if v.Animation != "" {
			args = append(args, vdom.Attribute("default-animation", v.Animation))
		}
		for _, p := range v.Pages {
			args = append(args, renderPage(p, attr))
		}
		out = append(out, vdom.CustomElement(view.ContainerTag, args...))
	}
	return out
}

func renderPage(p PageSpec, attr string) *vdom.VNode {
	args := []any{
		vdom.Attribute(attr, p.Name),
		vdom.Class("page"),
	}
	if p.Animation != "" {
		args = append(args, vdom.Data("animation", p.Animation))
	}
	if p.Title != "" {
		args = append(args, vdom.H2(p.Title))
	}
	if html := Markdown(p.Content); html != "" {
		args = append(args, vdom.Raw(html))
	}
	if len(p.Views) > 0 {
		args = append(args, renderViews(p.Views))
	}
	return vdom.Section(args...)
}
