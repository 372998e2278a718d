package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/viewroute/pkg/vdom"
)

func renderString(t *testing.T, r *Renderer, node *vdom.VNode) string {
	t.Helper()
	out, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	return out
}

func TestRenderElements(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"empty div", vdom.Div(), "<div></div>"},
		{"text child", vdom.P("hello"), "<p>hello</p>"},
		{"escaped text", vdom.P("<b>&"), "<p>&lt;b&gt;&amp;</p>"},
		{"raw", vdom.Div(vdom.Raw("<b>x</b>")), "<div><b>x</b></div>"},
		{"void element", vdom.Meta(vdom.Charset("utf-8")), `<meta charset="utf-8">`},
		{"sorted attributes", vdom.A(vdom.Href("/x"), vdom.Class("nav")), `<a class="nav" href="/x"></a>`},
		{"empty attribute is bare", vdom.Section(vdom.Attribute("active", "")), "<section active></section>"},
		{"boolean attributes", vdom.Div(vdom.Hidden(), vdom.Attribute("off", false)), "<div hidden></div>"},
		{"escaped attribute", vdom.Div(vdom.Attribute("title", `a"b`)), `<div title="a&quot;b"></div>`},
		{"fragment", vdom.Fragment(vdom.Span("a"), "b"), "<span>a</span>b"},
		{"internal props skipped", vdom.Div(vdom.Attribute("_state", "x")), "<div></div>"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, r, tt.node); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRenderHIDs(t *testing.T) {
	node := vdom.Div(vdom.Section(vdom.Name("a")))
	vdom.AssignHIDs(node, vdom.NewHIDGenerator())

	got := renderString(t, NewRenderer(RendererConfig{}), node)
	want := `<div data-hid="h1"><section name="a" data-hid="h2"></section></div>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	got = renderString(t, NewRenderer(RendererConfig{OmitHIDs: true}), node)
	if strings.Contains(got, "data-hid") {
		t.Errorf("OmitHIDs output contains HIDs: %s", got)
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got := renderString(t, r, vdom.Div(vdom.P("x"), vdom.Span("y")))

	want := "<div>\n  <p>\nx  </p>\n  <span>y</span>\n</div>\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := NewRenderer(RendererConfig{}).RenderToString(&vdom.VNode{Kind: vdom.VKind(42)})
	if err == nil {
		t.Error("expected error for unknown kind")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	err := NewRenderer(RendererConfig{}).RenderToWriter(failingWriter{}, vdom.Div("x"))
	if err == nil || err.Error() != "disk full" {
		t.Errorf("RenderToWriter() error = %v", err)
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(RendererConfig{}).RenderPage(&buf, PageData{
		Title:  "Docs & more",
		Body:   vdom.Main("hi"),
		Styles: []string{"[active]{display:block}"},
		Scripts: []ScriptTag{
			{Inline: "console.log(1)"},
			{Src: "/app.js", Module: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Docs &amp; more</title>",
		"<style>[active]{display:block}</style>",
		"<main>hi</main>",
		"<script>console.log(1)</script>",
		`<script type="module" src="/app.js"></script>`,
		"</body>\n</html>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}
