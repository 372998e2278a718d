// Package view implements view containers: elements that show exactly one
// of their children depending on the router's current route.
//
// A Container compares each child's selection attribute (default "name")
// with the names on the current route's parent chain. The matching child
// gets the "active" attribute and, the first time it becomes active, the
// "animated" class plus its enter animation class (data-animation, default
// "page-enter"). Children that are not active lose all three.
//
// Containers built over a vdom tree (see Discover) record every attribute
// change as a vdom.Patch so the changes can be replayed in a browser.
package view
