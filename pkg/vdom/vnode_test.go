package vdom

import (
	"testing"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElement(t *testing.T) {
	var nilNode *VNode
	node := Section(
		ID("docs"),
		Name("docs"),
		Class("page", "wide"),
		Class("page"),
		Key("k1"),
		nil,
		nilNode,
		[]Attr{Data("animation", "fade"), {}},
		H1("Docs"),
		[]*VNode{P("one"), nil, P("two")},
	)

	if node.Kind != KindElement || node.Tag != "section" {
		t.Fatalf("node = %v %q", node.Kind, node.Tag)
	}
	if node.Key != "k1" {
		t.Errorf("Key = %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
	if got, _ := node.Attr("class"); got != "page wide" {
		t.Errorf("class = %q, want %q", got, "page wide")
	}
	if node.Dataset("animation") != "fade" {
		t.Errorf("data-animation = %q", node.Dataset("animation"))
	}
	if len(node.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(node.Children))
	}
	if node.Children[0].Children[0].Kind != KindText {
		t.Error("string argument should become a text node")
	}
}

func TestFragmentAndText(t *testing.T) {
	f := Fragment(Text("a"), Div(), "b")
	if f.Kind != KindFragment || len(f.Children) != 3 {
		t.Fatalf("fragment = %+v", f)
	}
	if got := Textf("%d pages", 3).Text; got != "3 pages" {
		t.Errorf("Textf = %q", got)
	}
	if r := Raw("<b>x</b>"); r.Kind != KindRaw || r.Text != "<b>x</b>" {
		t.Errorf("Raw = %+v", r)
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("meta") || !IsVoidElement("br") {
		t.Error("meta and br are void elements")
	}
	if IsVoidElement("div") {
		t.Error("div is not a void element")
	}
}
