package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
)

// Category groups error codes by the layer that raises them.
type Category string

const (
	CategoryRoute    Category = "route"
	CategoryManifest Category = "manifest"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// snippetRadius is how many lines are shown on each side of a location.
const snippetRadius = 2

// Location is a position in a source such as a route manifest.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	default:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
}

// SnippetLine is one numbered source line shown under a location.
type SnippetLine struct {
	Line int
	Text string
}

// Error is a coded error carrying the user-facing explanation of a failure.
type Error struct {
	Code     string
	Category Category

	// Message is the one-line summary; Detail the longer explanation.
	Message string
	Detail  string

	Location *Location
	Snippet  []SnippetLine

	Suggestion string
	DocURL     string

	Wrapped error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at file and reads the surrounding lines from
// disk when the file exists.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	if f, err := os.Open(file); err == nil {
		defer f.Close()
		e.Snippet = readSnippet(f, line)
	}
	return e
}

// WithSnippet points the error at a source that is not a local file, such
// as an object fetched from S3, taking the surrounding lines from data.
func (e *Error) WithSnippet(name string, data []byte, line, column int) *Error {
	e.Location = &Location{File: name, Line: line, Column: column}
	e.Snippet = readSnippet(bytes.NewReader(data), line)
	return e
}

func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

func readSnippet(r io.Reader, target int) []SnippetLine {
	if target <= 0 {
		return nil
	}
	var out []SnippetLine
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan() && n <= target+snippetRadius; n++ {
		if n >= target-snippetRadius {
			out = append(out, SnippetLine{Line: n, Text: sc.Text()})
		}
	}
	return out
}

// New creates an Error from a registered code. Unregistered codes produce
// an "Unknown error" with the code kept.
func New(code string) *Error {
	t, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		DocURL:   t.DocURL,
	}
}

// Newf creates an uncoded Error.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError returns the *Error inside err, or wraps err under code.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}
