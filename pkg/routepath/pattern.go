package routepath

import (
	"fmt"
	"strings"
)

// Pattern converts a route pattern to the syntax understood by chi.
//
//	/users/:id        → /users/{id}
//	/users/{id}       → /users/{id}
//	/files/*          → /files/*
//	/files/*path      → /files/*
//	about             → /about
//	/docs/            → /docs
//
// Trailing slashes are dropped because navigation paths are canonicalized
// without them. Named wildcards ("*path") lose their name since chi exposes
// the remainder under the "*" key; WildcardName reports the original name.
func Pattern(pattern string) (string, error) {
	if pattern == "" || pattern == "/" {
		return "/", nil
	}
	if strings.ContainsAny(pattern, "?#") {
		return "", fmt.Errorf("%w: %q contains a query or fragment", ErrInvalidPath, pattern)
	}

	segments := strings.Split(strings.Trim(pattern, "/"), "/")
	for i, seg := range segments {
		switch {
		case seg == "":
			return "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, pattern)
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				return "", fmt.Errorf("%w: %q has an unnamed parameter", ErrInvalidPath, pattern)
			}
			segments[i] = "{" + name + "}"
		case strings.HasPrefix(seg, "*"):
			if i != len(segments)-1 {
				return "", fmt.Errorf("%w: %q has a wildcard before the last segment", ErrInvalidPath, pattern)
			}
			segments[i] = "*"
		}
	}

	return "/" + strings.Join(segments, "/"), nil
}

// WildcardName returns the name given to a trailing wildcard segment
// ("path" for "/files/*path"), or "" when the pattern has none or it is
// anonymous.
func WildcardName(pattern string) string {
	trimmed := strings.TrimRight(pattern, "/")
	last := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if strings.HasPrefix(last, "*") {
		return last[1:]
	}
	return ""
}
