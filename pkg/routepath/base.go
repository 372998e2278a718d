package routepath

import (
	"errors"
	"strings"
)

// ErrOutsideBase is returned by StripBase when a path does not live under
// the configured base path.
var ErrOutsideBase = errors.New("path is outside the base path")

// NormalizeBase turns a user supplied base path into "/segment/..." form.
// The empty string and "/" both mean "no base path" and return "".
func NormalizeBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

// StripBase removes a normalized base path from path. The base must match
// whole segments: base "/app" strips "/app" and "/app/x" but not "/apple".
func StripBase(base, path string) (string, error) {
	if base == "" {
		return path, nil
	}
	if path == base {
		return "/", nil
	}
	if rest, ok := strings.CutPrefix(path, base); ok && strings.HasPrefix(rest, "/") {
		return rest, nil
	}
	return "", ErrOutsideBase
}

// JoinBase prefixes path with a normalized base path.
func JoinBase(base, path string) string {
	if base == "" {
		return path
	}
	if path == "/" || path == "" {
		return base
	}
	return base + path
}
