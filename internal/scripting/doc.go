// Package scripting runs manifest component scripts with goja.
//
// Scripts are ECMAScript 5.1 function bodies. They are compiled once and run
// on a shared runtime guarded by a mutex, with these globals:
//
//	route  the route the script belongs to: {name, path}
//	page   the current navigation: {id, path, params, query, state}
//	log(x) logs x through the runtime's slog.Logger
//
// A script may return a value; guards use it to decide whether a navigation
// continues.
package scripting
