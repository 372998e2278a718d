// Package routepath normalizes navigation paths and route patterns.
//
// Every navigation target is canonicalized before matching, so "/docs/",
// "/docs//" and "/docs/./" reach the same route. Patterns may use chi's
// "/users/{id}" form or the colon form "/users/:id".
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// CanonicalizeResult is a canonical path and its split-off query.
type CanonicalizeResult struct {
	Path string

	// Query is the raw query without "?".
	Query string

	// Changed reports whether Path differs from the input path.
	Changed bool
}

var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-wildcard segment")
)

// CanonicalizePath collapses empty and "." segments, resolves "..", and
// drops the trailing slash of any path but "/". The query is returned as is.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	raw, query := SplitPathAndQuery(input)
	if err := checkRaw(raw); err != nil {
		return CanonicalizeResult{}, err
	}

	segments := make([]string, 0, strings.Count(raw, "/"))
	for rest := raw; rest != ""; {
		var seg string
		seg, rest, _ = strings.Cut(rest, "/")
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	clean := "/" + strings.Join(segments, "/")
	return CanonicalizeResult{Path: clean, Query: query, Changed: clean != raw}, nil
}

// checkRaw rejects backslashes, NUL bytes (raw or %00) and any '%' not
// followed by two hex digits.
func checkRaw(p string) error {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			return ErrBackslashInPath
		case 0:
			return ErrNullByteInPath
		case '%':
			if i+2 >= len(p) || unhex(p[i+1]) < 0 || unhex(p[i+2]) < 0 {
				return ErrInvalidPercentEscape
			}
			if p[i+1] == '0' && p[i+2] == '0' {
				return ErrNullByteInPath
			}
			i += 2
		}
	}
	return nil
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// DecodeParam unescapes a captured parameter. Only wildcard captures may
// decode to a value containing "/".
func DecodeParam(value string, wildcard bool) (string, error) {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !wildcard && strings.ContainsRune(decoded, '/') {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// CanonicalizeNavPath canonicalizes a navigation target, keeping its query.
// Targets must start with a single "/"; absolute and protocol-relative URLs
// are refused with ErrInvalidPath.
func CanonicalizeNavPath(path string) (string, error) {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "", ErrInvalidPath
	}
	res, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}
	if res.Query == "" {
		return res.Path, nil
	}
	return res.Path + "?" + res.Query, nil
}

// SplitPathAndQuery splits input at the first "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
