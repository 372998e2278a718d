package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "route error",
			code:    "E202",
			wantMsg: "No route matches path",
			wantCat: CategoryRoute,
		},
		{
			name:    "manifest error",
			code:    "E221",
			wantMsg: "Route manifest could not be parsed",
			wantCat: CategoryManifest,
		},
		{
			name:    "config error",
			code:    "E122",
			wantMsg: "Invalid port number",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRoute, "route %q not found", "docs")
	if err.Message != `route "docs" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryRoute {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRoute)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E202")
	if got, want := err.Error(), "E202: No route matches path"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = New("E202").WithDetail("/missing")
	if got, want := err.Error(), "E202: No route matches path (/missing)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "plain"}
	if plain.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "plain")
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "routes.yaml")
	content := "routes:\n  - name: home\n    path: /\n  - name: docs\n   path: /docs\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E221").WithLocation(tmpFile, 5, 0)
	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Line != 5 {
		t.Errorf("Location.Line = %d, want 5", err.Location.Line)
	}
	if len(err.Snippet) != 3 || err.Snippet[0].Line != 3 || err.Snippet[2].Text != "   path: /docs" {
		t.Errorf("Snippet = %+v, want lines 3-5", err.Snippet)
	}
	if err.Location.String() != tmpFile+":5" {
		t.Errorf("Location.String() = %q", err.Location.String())
	}
}

func TestError_WithSnippet(t *testing.T) {
	data := []byte("a\nb\nc\nd\ne\nf\n")

	err := New("E221").WithSnippet("s3://site/routes.yaml", data, 4, 2)
	if err.Location.String() != "s3://site/routes.yaml:4:2" {
		t.Errorf("Location = %q", err.Location.String())
	}
	var got []string
	for _, l := range err.Snippet {
		got = append(got, l.Text)
	}
	if strings.Join(got, "") != "bcdef" {
		t.Errorf("Snippet = %+v, want lines 2-6", err.Snippet)
	}

	if err := New("E221").WithSnippet("x", data, 0, 0); len(err.Snippet) != 0 {
		t.Errorf("line 0 should have no snippet, got %+v", err.Snippet)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, fmt.Errorf("load: %w", New("E220")))
	if !strings.Contains(b.String(), "ERROR E220: ") {
		t.Errorf("Fprint(*Error) = %q", b.String())
	}

	b.Reset()
	Fprint(&b, fmt.Errorf("plain failure"))
	if !strings.Contains(b.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(error) = %q", b.String())
	}
}

func TestError_WrapAndUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	outer := New("E224").Wrap(inner)
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E202") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("E202")
	if FromError(e, "E204") != e {
		t.Error("FromError should return *Error as-is")
	}

	wrapped := fmt.Errorf("navigate: %w", e)
	if FromError(wrapped, "E204") != e {
		t.Error("FromError should unwrap to the inner *Error")
	}

	std := fmt.Errorf("plain")
	got := FromError(std, "E221")
	if got.Code != "E221" || got.Wrapped != std {
		t.Errorf("FromError(std) = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "routes.yaml")
	content := "routes:\n  - name: docs\n    path: /docs\n   children:\n      - name: intro\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	formatted := New("E221").
		WithLocation(tmpFile, 4, 0).
		WithSuggestion("Indent children under their parent route").
		Format()

	for _, want := range []string{"E221", "Route manifest could not be parsed", tmpFile, "→", "Hint:", "Learn more:"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E202")
	err.Location = &Location{File: "routes.yaml", Line: 10, Column: 5}

	want := "routes.yaml:10:5: E202: No route matches path"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E202").WithSuggestion("check the path")
	err.Location = &Location{File: "routes.yaml", Line: 3}

	var decoded map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &decoded); e != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", e)
	}
	if decoded["code"] != "E202" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != "route" {
		t.Errorf("category = %v", decoded["category"])
	}
	if decoded["suggestion"] != "check the path" {
		t.Errorf("suggestion = %v", decoded["suggestion"])
	}
	loc, ok := decoded["location"].(map[string]any)
	if !ok || loc["file"] != "routes.yaml" {
		t.Errorf("location = %v", decoded["location"])
	}
}

func TestRegistry(t *testing.T) {
	found := false
	for _, code := range GetAllCodes() {
		if code == "E204" {
			found = true
		}
	}
	if !found {
		t.Error("E204 should be registered")
	}

	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}

	Register("E999", ErrorTemplate{Category: CategoryCLI, Message: "Custom test error"})
	defer delete(registry, "E999")
	if New("E999").Message != "Custom test error" {
		t.Error("registered template not used")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}
	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
