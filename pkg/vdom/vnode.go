package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // tagged element with props and children
	KindText                  // escaped text
	KindFragment              // children without a wrapper
	KindRaw                   // trusted HTML written verbatim
)

var kindNames = [...]string{
	KindElement:  "Element",
	KindText:     "Text",
	KindFragment: "Fragment",
	KindRaw:      "Raw",
}

func (k VKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// VNode is a node of a page document. Elements are addressed by HID once
// AssignHIDs has run; view containers mutate their props in place and the
// differences travel to the browser as Patches.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode

	// Key identifies the node among its siblings. It is never rendered.
	Key string

	// Text is the content of text and raw nodes.
	Text string

	// HID is the hydration ID, empty until assigned.
	HID string
}

// Props holds element attributes. Values are strings, bools (boolean
// attributes) or anything printable with fmt.
type Props map[string]any

// Attr is one attribute argument of an element constructor.
type Attr struct {
	Key   string
	Value any
}
