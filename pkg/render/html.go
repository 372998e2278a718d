package render

import "strings"

var (
	textReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// Attribute values also keep line breaks and tabs intact across
	// re-parsing by the client patcher.
	attrReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeHTML(s string) string { return textReplacer.Replace(s) }

func escapeAttr(s string) string { return attrReplacer.Replace(s) }

// Tags kept on one line in pretty output.
var inlineTags = map[string]struct{}{
	"a": {}, "b": {}, "br": {}, "code": {}, "em": {}, "i": {},
	"small": {}, "span": {}, "strong": {}, "title": {},
}

func isInline(tag string) bool {
	_, ok := inlineTags[tag]
	return ok
}
