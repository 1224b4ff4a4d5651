package common

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes user supplied text before it is placed in markup.
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlReplacer.Replace(text)
}
