package vdom

import "strings"

// Attribute creates an arbitrary attribute. A false value renders nothing;
// true renders a bare boolean attribute.
func Attribute(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func ID(id string) Attr { return Attribute("id", id) }

// Class adds classes to the element. Repeated Class arguments accumulate.
func Class(classes ...string) Attr { return Attribute("class", strings.Join(classes, " ")) }

// Data sets data-key.
func Data(key, value string) Attr { return Attribute("data-"+key, value) }

func Href(url string) Attr { return Attribute("href", url) }

func Charset(charset string) Attr { return Attribute("charset", charset) }

// Name sets the name attribute, the default selection attribute of view
// containers.
func Name(name string) Attr { return Attribute("name", name) }

func Hidden() Attr { return Attribute("hidden", true) }

// Key sets the element's identity among its siblings. It is not rendered.
func Key(key string) Attr { return Attribute("key", key) }
