package live

import (
	"github.com/vango-dev/viewroute/pkg/vdom"
)

// MessageType identifies a wire message.
type MessageType string

const (
	TypeHello       MessageType = "hello"
	TypeNavigate    MessageType = "navigate"
	TypePageChanged MessageType = "page-changed"
	TypePatch       MessageType = "patch"
	TypeError       MessageType = "error"
)

// Message is the single envelope used in both directions.
type Message struct {
	Type    MessageType       `json:"type"`
	Session string            `json:"session,omitempty"`
	Path    string            `json:"path,omitempty"`
	Replace bool              `json:"replace,omitempty"`
	Name    string            `json:"name,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Patches []vdom.Patch      `json:"patches,omitempty"`
	Error   string            `json:"error,omitempty"`
}
