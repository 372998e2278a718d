package vdom

import "fmt"

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText    PatchOp = 0x01 // Update text content
	PatchSetAttr    PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the op by name.
func (op PatchOp) MarshalText() ([]byte, error) {
	s := op.String()
	if s == "Unknown" {
		return nil, fmt.Errorf("vdom: unknown patch op %d", op)
	}
	return []byte(s), nil
}

// UnmarshalText decodes an op name.
func (op *PatchOp) UnmarshalText(text []byte) error {
	switch string(text) {
	case "SetText":
		*op = PatchSetText
	case "SetAttr":
		*op = PatchSetAttr
	case "RemoveAttr":
		*op = PatchRemoveAttr
	default:
		return fmt.Errorf("vdom: unknown patch op %q", text)
	}
	return nil
}

// Patch represents a single DOM operation to apply.
type Patch struct {
	Op    PatchOp `json:"op"`              // Operation type
	HID   string  `json:"hid"`             // Target element's hydration ID
	Key   string  `json:"key,omitempty"`   // Attribute key (for SetAttr/RemoveAttr)
	Value string  `json:"value,omitempty"` // New value
}

// Apply performs p on the element with the matching HID under root.
// It reports whether the target was found.
func (p Patch) Apply(root *VNode) bool {
	target := FindByHID(root, p.HID)
	if target == nil {
		return false
	}
	switch p.Op {
	case PatchSetAttr:
		if p.Key == "class" {
			target.Props["class"] = p.Value
		} else {
			target.SetAttr(p.Key, p.Value)
		}
	case PatchRemoveAttr:
		target.RemoveAttr(p.Key)
	case PatchSetText:
		target.Children = []*VNode{Text(p.Value)}
	}
	return true
}
