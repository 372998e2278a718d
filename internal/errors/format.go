package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

var colorEnabled = true

// DisableColors turns off ANSI colors, for --no-color and non-terminals.
func DisableColors() { colorEnabled = false }

func EnableColors() { colorEnabled = true }

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + ansiReset
}

func red(text string) string  { return paint(ansiRed, text) }
func blue(text string) string { return paint(ansiBlue, text) }
func cyan(text string) string { return paint(ansiCyan, text) }
func gray(text string) string { return paint(ansiGray, text) }
func bold(text string) string { return paint(ansiBold, text) }

// Format renders the error for a terminal: header, location with its source
// snippet, detail, hint and documentation link.
func (e *Error) Format() string {
	var b strings.Builder

	label := "ERROR: "
	if e.Code != "" {
		label = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", red(bold(label)), e.Message)

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", cyan(e.Location.String()))
		if len(e.Snippet) > 0 {
			e.writeSnippet(&b)
			b.WriteString("\n")
		}
	}

	if lines := wrapText(e.Detail, 70); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", cyan("Hint: "), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", gray("Learn more: "), blue(e.DocURL))
	}
	return b.String()
}

func (e *Error) writeSnippet(w io.Writer) {
	for _, l := range e.Snippet {
		marker := "  "
		if l.Line == e.Location.Line {
			marker = red("→ ")
		}
		fmt.Fprintf(w, "  %s%4d%s%s\n", marker, l.Line, gray(" │ "), l.Text)
		if l.Line == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(w, "        %s%s%s\n", gray("│ "), strings.Repeat(" ", e.Location.Column-1), red("^"))
		}
	}
}

// FormatCompact renders "file:line:col: CODE: message".
func (e *Error) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

// FormatJSON renders the error as a JSON object.
func (e *Error) FormatJSON() string {
	data, err := json.Marshal(struct {
		Code       string    `json:"code,omitempty"`
		Category   Category  `json:"category"`
		Message    string    `json:"message"`
		Detail     string    `json:"detail,omitempty"`
		Location   *Location `json:"location,omitempty"`
		Suggestion string    `json:"suggestion,omitempty"`
		DocURL     string    `json:"docUrl,omitempty"`
	}{e.Code, e.Category, e.Message, e.Detail, e.Location, e.Suggestion, e.DocURL})
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes at word
// boundaries. A word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w, fully formatted when it is or wraps an *Error.
func Fprint(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", red(bold("ERROR:")), err)
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
